package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	getErr error
	putErr error
}

func (f *failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.getErr
}

func (f *failingStore) Put(context.Context, string, []byte) error {
	return f.putErr
}

func TestServiceGetDefaults(t *testing.T) {
	svc := NewService(NewMemoryStore())

	got, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestServiceGetMergesStoredFields(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), Key, []byte(`{"general":{"storeName":"Calzature Roma"},"taxes":{"defaultRate":22}}`)))
	svc := NewService(store)

	got, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Calzature Roma", got.General.StoreName)
	assert.Equal(t, Defaults().General.SupportEmail, got.General.SupportEmail)
	assert.Equal(t, 22.0, got.Taxes.DefaultRate)
	assert.True(t, got.Taxes.Enabled)
	assert.Equal(t, "USD", got.Currency.DefaultCurrency)
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	_, err := svc.Update(ctx, []byte(`{"currency":{"defaultCurrency":"EUR"}}`))
	require.NoError(t, err)
	got, err := svc.Update(ctx, []byte(`{"general":{"timezone":"Asia/Kolkata"}}`))
	require.NoError(t, err)

	assert.Equal(t, "EUR", got.Currency.DefaultCurrency)
	assert.True(t, got.Currency.MultiCurrency)
	assert.Equal(t, "Asia/Kolkata", got.General.Timezone)

	raw, ok, err := store.Get(ctx, Key)
	require.NoError(t, err)
	require.True(t, ok)
	var stored Settings
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, got, stored)
}

func TestServiceUpdateRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		patch string
	}{
		{name: "Malformed JSON", patch: `{"general":`},
		{name: "Unknown currency", patch: `{"currency":{"defaultCurrency":"JPY"}}`},
		{name: "Rate above 100", patch: `{"taxes":{"defaultRate":120}}`},
		{name: "Blank store name", patch: `{"general":{"storeName":""}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore()
			svc := NewService(store)

			_, err := svc.Update(context.Background(), []byte(tc.patch))

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
			_, ok, _ := store.Get(context.Background(), Key)
			assert.False(t, ok)
		})
	}
}

func TestServiceStoreErrors(t *testing.T) {
	down := errors.New("db down")

	_, err := NewService(&failingStore{getErr: down}).Get(context.Background())
	assert.ErrorIs(t, err, down)

	_, err = NewService(&failingStore{putErr: down}).Update(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, down)
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore()
	doc := []byte(`{"a":1}`)
	require.NoError(t, store.Put(context.Background(), "k", doc))
	doc[2] = 'b'

	got, ok, err := store.Get(context.Background(), "k")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestSettingsHandler(t *testing.T) {
	testCases := []struct {
		name               string
		method             string
		body               string
		store              Store
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:               "Get defaults",
			method:             "GET",
			store:              NewMemoryStore(),
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Settings
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "Italian Shoes", resp.General.StoreName)
			},
		},
		{
			name:               "Get store failure",
			method:             "GET",
			store:              &failingStore{getErr: errors.New("db down")},
			expectedStatusCode: http.StatusInternalServerError,
		},
		{
			name:               "Update",
			method:             "PUT",
			body:               `{"integrations":{"shiprocketEmail":"ops@italianshoes.com","shiprocketStatus":"connected"}}`,
			store:              NewMemoryStore(),
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Settings
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "connected", resp.Integrations.ShiprocketStatus)
			},
		},
		{
			name:               "Update invalid",
			method:             "PUT",
			body:               `{"integrations":{"shiprocketStatus":"pending"}}`,
			store:              NewMemoryStore(),
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Contains(t, errResp["error"], "shiprocketStatus must be one of")
			},
		},
		{
			name:               "Update store failure",
			method:             "PUT",
			body:               `{}`,
			store:              &failingStore{putErr: errors.New("db down")},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewSettingsHandler(NewService(tc.store), nil)
			req := httptest.NewRequest(tc.method, "/settings", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			if tc.method == "GET" {
				handler.HandleGet(rec, req)
			} else {
				handler.HandleUpdate(rec, req)
			}

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}
