package variants

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/italianshoes/catalog/models"
)

// --- In-memory store ---

type linkKey struct {
	variantID string
	optionID  string
}

// memStore keeps committed state in maps and gives every transaction a
// private copy that is swapped in only when the transaction succeeds.
type memStore struct {
	mu       sync.Mutex
	products map[string]models.Product
	options  []models.ProductOption
	values   []models.ProductOptionValue
	variants map[string]models.ProductVariant // by combination key
	links    map[linkKey]string               // value id

	// beforeCreate runs inside CreateVariant before the key is checked.
	beforeCreate func(tx *memTx, v *models.ProductVariant)
	// linkErr, when set, is consulted before every link write.
	linkErr func(link *models.ProductVariantOption) error

	txCount  int
	variantN int
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]models.Product{},
		variants: map[string]models.ProductVariant{},
		links:    map[linkKey]string{},
	}
}

func (s *memStore) addProduct(id, handle string, price int64) {
	s.products[id] = models.Product{ID: id, Handle: handle, Title: handle, Price: price, Currency: "INR", IsActive: true}
}

func (s *memStore) addOption(productID, code string, position int, tokens ...string) {
	optionID := "opt-" + code
	s.options = append(s.options, models.ProductOption{
		ID: optionID, ProductID: productID, Code: code, Name: code, Position: position, IsActive: true,
	})
	for i, token := range tokens {
		s.values = append(s.values, models.ProductOptionValue{
			ID: valueID(code, token), OptionID: optionID, Value: token, Label: token, Position: i, IsActive: true,
		})
	}
}

func (s *memStore) deactivate(code, token string) {
	for i := range s.values {
		if s.values[i].ID == valueID(code, token) {
			s.values[i].IsActive = false
		}
	}
}

func valueID(code, token string) string {
	return "val-" + code + "-" + token
}

func (s *memStore) GetProduct(_ context.Context, ref string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == ref || p.Handle == ref {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (s *memStore) ListOptions(_ context.Context, productID string) ([]models.ProductOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProductOption
	for _, o := range s.options {
		if o.ProductID == productID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *memStore) ListOptionValues(_ context.Context, optionID string, activeOnly bool) ([]models.ProductOptionValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProductOptionValue
	for _, v := range s.values {
		if v.OptionID != optionID || (activeOnly && !v.IsActive) {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *memStore) WithinTransaction(_ context.Context, fn func(w models.VariantWriter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	tx := &memTx{store: s, variants: map[string]models.ProductVariant{}, links: map[linkKey]string{}}
	for k, v := range s.variants {
		tx.variants[k] = v
	}
	for k, v := range s.links {
		tx.links[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.variants = tx.variants
	s.links = tx.links
	return nil
}

// snapshot returns committed variants and the value chosen per option.
func (s *memStore) snapshot() (map[string]models.ProductVariant, map[string]map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	variants := make(map[string]models.ProductVariant, len(s.variants))
	for k, v := range s.variants {
		variants[k] = v
	}
	links := map[string]map[string]string{}
	for k, valueID := range s.links {
		if links[k.variantID] == nil {
			links[k.variantID] = map[string]string{}
		}
		links[k.variantID][k.optionID] = valueID
	}
	return variants, links
}

type memTx struct {
	store    *memStore
	variants map[string]models.ProductVariant
	links    map[linkKey]string
}

func (t *memTx) FindVariantByKey(_ context.Context, key string) (*models.ProductVariant, error) {
	v, ok := t.variants[key]
	if !ok {
		return nil, models.ErrVariantNotFound
	}
	return &v, nil
}

func (t *memTx) CreateVariant(_ context.Context, v *models.ProductVariant) error {
	if t.store.beforeCreate != nil {
		t.store.beforeCreate(t, v)
	}
	if _, ok := t.variants[v.CombinationKey]; ok {
		return models.ErrVariantConflict
	}
	t.store.variantN++
	v.ID = fmt.Sprintf("var-%d", t.store.variantN)
	t.variants[v.CombinationKey] = *v
	return nil
}

func (t *memTx) UpsertVariantOption(_ context.Context, link *models.ProductVariantOption) error {
	if t.store.linkErr != nil {
		if err := t.store.linkErr(link); err != nil {
			return err
		}
	}
	t.links[linkKey{link.VariantID, link.OptionID}] = link.ValueID
	return nil
}

// commitRacer stores a variant as if another generation run had already
// committed it, making it visible to the running transaction too.
func (t *memTx) commitRacer(v models.ProductVariant) {
	t.store.variants[v.CombinationKey] = v
	t.variants[v.CombinationKey] = v
}

var errInjected = errors.New("injected store failure")

// --- Recorder ---

type recordedRun struct {
	res Result
	err error
}

type fakeRecorder struct {
	runs []recordedRun
}
