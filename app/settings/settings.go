// Package settings holds the back-office settings document.
//
// Settings live under one key of a Store chosen at start-up. Writes are
// last-writer-wins. The memory store is per process: with more than one
// instance behind a load balancer each instance sees its own copy, so
// multi-instance deployments must use the database store.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/italianshoes/catalog/app/api"
)

// Key is the store key the settings document is kept under.
const Key = "app_settings"

type General struct {
	StoreName     string `json:"storeName" validate:"required"`
	SupportEmail  string `json:"supportEmail" validate:"omitempty,email"`
	SupportPhone  string `json:"supportPhone"`
	Timezone      string `json:"timezone"`
	StorefrontURL string `json:"storefrontUrl" validate:"omitempty,url"`
	Notes         string `json:"notes"`
}

type Currency struct {
	DefaultCurrency string `json:"defaultCurrency" validate:"oneof=USD EUR GBP INR"`
	MultiCurrency   bool   `json:"multiCurrency"`
}

type Taxes struct {
	Enabled      bool    `json:"enabled"`
	TaxInclusive bool    `json:"taxInclusive"`
	DefaultRate  float64 `json:"defaultRate" validate:"gte=0,lte=100"`
}

type Integrations struct {
	ShiprocketEmail  string `json:"shiprocketEmail" validate:"omitempty,email"`
	ShiprocketStatus string `json:"shiprocketStatus" validate:"oneof=connected disconnected"`
}

type Settings struct {
	General      General      `json:"general"`
	Currency     Currency     `json:"currency"`
	Taxes        Taxes        `json:"taxes"`
	Integrations Integrations `json:"integrations"`
}

// Defaults returns the settings used for any field never written.
func Defaults() Settings {
	return Settings{
		General: General{
			StoreName:     "Italian Shoes",
			SupportEmail:  "support@italianshoes.com",
			SupportPhone:  "+1 (555) 123-4567",
			Timezone:      "Europe/Rome",
			StorefrontURL: "https://example.com",
		},
		Currency:     Currency{DefaultCurrency: "USD", MultiCurrency: true},
		Taxes:        Taxes{Enabled: true, DefaultRate: 18},
		Integrations: Integrations{ShiprocketStatus: "disconnected"},
	}
}

// Store persists raw settings documents by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ValidationError wraps a patch that would produce invalid settings.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

type Service struct {
	store Store
	mu    sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the defaults overlaid with whatever has been stored.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.load(ctx)
}

// Update overlays patch field by field on the current settings and stores
// the result. Fields absent from patch keep their current value.
func (s *Service) Update(ctx context.Context, patch []byte) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return Settings{}, err
	}
	if err := json.Unmarshal(patch, &current); err != nil {
		return Settings{}, &ValidationError{Err: errors.New("Invalid JSON body")}
	}
	if err := api.Validate(current); err != nil {
		return Settings{}, &ValidationError{Err: err}
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return Settings{}, fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.store.Put(ctx, Key, raw); err != nil {
		return Settings{}, fmt.Errorf("storing settings: %w", err)
	}
	return current, nil
}

func (s *Service) load(ctx context.Context) (Settings, error) {
	settings := Defaults()
	raw, ok, err := s.store.Get(ctx, Key)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	if !ok {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("decoding stored settings: %w", err)
	}
	return settings, nil
}

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string][]byte{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), doc...), true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), value...)
	return nil
}
