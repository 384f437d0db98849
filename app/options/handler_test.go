package options

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/italianshoes/catalog/models"
)

// --- Mock Repository ---

type MockOptionRepo struct {
	Product      *models.Product
	Options      []models.ProductOption
	ListErr      error
	CreateErr    error
	UpdateErr    error
	SavedOption  *models.ProductOption
	SavedValue   *models.ProductOptionValue
	lastToggleID string
}

func (m *MockOptionRepo) GetProduct(_ context.Context, ref string) (*models.Product, error) {
	if m.Product == nil || (m.Product.ID != ref && m.Product.Handle != ref) {
		return nil, models.ErrProductNotFound
	}
	return m.Product, nil
}

func (m *MockOptionRepo) ListOptions(_ context.Context, _ string) ([]models.ProductOption, error) {
	return m.Options, m.ListErr
}

func (m *MockOptionRepo) GetOption(_ context.Context, productID, optionID string) (*models.ProductOption, error) {
	for _, o := range m.Options {
		if o.ID == optionID && o.ProductID == productID {
			option := o
			return &option, nil
		}
	}
	return nil, models.ErrOptionNotFound
}

func (m *MockOptionRepo) CreateOption(_ context.Context, option *models.ProductOption) error {
	m.SavedOption = option
	if m.CreateErr != nil {
		return m.CreateErr
	}
	option.ID = "opt-new"
	return nil
}

func (m *MockOptionRepo) CreateOptionValue(_ context.Context, value *models.ProductOptionValue) error {
	m.SavedValue = value
	if m.CreateErr != nil {
		return m.CreateErr
	}
	value.ID = "val-new"
	return nil
}

func (m *MockOptionRepo) SetOptionValueActive(_ context.Context, optionID, valueID string, active bool) (*models.ProductOptionValue, error) {
	m.lastToggleID = valueID
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	return &models.ProductOptionValue{ID: valueID, OptionID: optionID, Value: "brown", Label: "Brown", IsActive: active}, nil
}

func newRepo() *MockOptionRepo {
	return &MockOptionRepo{
		Product: &models.Product{ID: "prod-oxford", Handle: "oxford-01"},
		Options: []models.ProductOption{
			{
				ID: "opt-color", ProductID: "prod-oxford", Code: "color", Name: "Color", Type: models.OptionTypeColor, IsActive: true,
				Values: []models.ProductOptionValue{
					{ID: "val-black", OptionID: "opt-color", Value: "black", Label: "Black", IsActive: true},
					{ID: "val-brown", OptionID: "opt-color", Value: "brown", Label: "Brown", Position: 1, IsActive: false},
				},
			},
		},
	}
}

func newRequest(method, url, body string, pathValues map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

// --- Tests ---

func TestHandleList(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := NewOptionsHandler(newRepo(), nil)
		rec := httptest.NewRecorder()

		handler.HandleList(rec, newRequest("GET", "/products/oxford-01/options", "", map[string]string{"id": "oxford-01"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []OptionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "color", resp[0].Code)
		require.Len(t, resp[0].Values, 2)
		assert.False(t, resp[0].Values[1].IsActive)
	})

	t.Run("Product not found", func(t *testing.T) {
		handler := NewOptionsHandler(newRepo(), nil)
		rec := httptest.NewRecorder()

		handler.HandleList(rec, newRequest("GET", "/products/nope/options", "", map[string]string{"id": "nope"}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := newRepo()
		repo.ListErr = errors.New("db down")
		handler := NewOptionsHandler(repo, nil)
		rec := httptest.NewRecorder()

		handler.HandleList(rec, newRequest("GET", "/products/oxford-01/options", "", map[string]string{"id": "oxford-01"}))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		createErr          error
		expectedStatusCode int
		checkRepoCall      func(t *testing.T, repo *MockOptionRepo)
	}{
		{
			name:               "Success with defaults",
			requestBody:        `{"code":"size","name":"Size","position":2}`,
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockOptionRepo) {
				assert.Equal(t, "prod-oxford", repo.SavedOption.ProductID)
				assert.Equal(t, models.OptionTypeCustom, repo.SavedOption.Type)
				assert.Equal(t, 2, repo.SavedOption.Position)
				assert.True(t, repo.SavedOption.IsActive)
			},
		},
		{
			name:               "Unknown type",
			requestBody:        `{"code":"size","name":"Size","type":"HEEL"}`,
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCall: func(t *testing.T, repo *MockOptionRepo) {
				assert.Nil(t, repo.SavedOption)
			},
		},
		{
			name:               "Duplicate code",
			requestBody:        `{"code":"color","name":"Color"}`,
			createErr:          fmt.Errorf("option code %q: %w", "color", models.ErrDuplicate),
			expectedStatusCode: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo()
			repo.CreateErr = tc.createErr
			handler := NewOptionsHandler(repo, nil)
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, newRequest("POST", "/products/oxford-01/options", tc.requestBody, map[string]string{"id": "oxford-01"}))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, repo)
			}
		})
	}
}

func TestHandleCreateValue(t *testing.T) {
	testCases := []struct {
		name               string
		optionID           string
		requestBody        string
		createErr          error
		expectedStatusCode int
		checkRepoCall      func(t *testing.T, repo *MockOptionRepo)
	}{
		{
			name:               "Success linked to a color record",
			optionID:           "opt-color",
			requestBody:        `{"value":"tan","label":"Tan","materialColorId":"mc-1","isActive":false}`,
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockOptionRepo) {
				assert.Equal(t, "opt-color", repo.SavedValue.OptionID)
				assert.False(t, repo.SavedValue.IsActive)
				if assert.NotNil(t, repo.SavedValue.MaterialColorID) {
					assert.Equal(t, "mc-1", *repo.SavedValue.MaterialColorID)
				}
			},
		},
		{
			name:               "Option of another product",
			optionID:           "opt-size",
			requestBody:        `{"value":"US8","label":"US 8"}`,
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "Missing label",
			optionID:           "opt-color",
			requestBody:        `{"value":"tan"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Linked record missing",
			optionID:           "opt-color",
			requestBody:        `{"value":"tan","label":"Tan","materialColorId":"mc-404"}`,
			createErr:          fmt.Errorf("material color %q: %w", "mc-404", models.ErrReferenceNotFound),
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Duplicate token",
			optionID:           "opt-color",
			requestBody:        `{"value":"black","label":"Black"}`,
			createErr:          models.ErrDuplicate,
			expectedStatusCode: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo()
			repo.CreateErr = tc.createErr
			handler := NewOptionsHandler(repo, nil)
			rec := httptest.NewRecorder()
			req := newRequest("POST", "/products/oxford-01/options/"+tc.optionID+"/values", tc.requestBody,
				map[string]string{"id": "oxford-01", "optionId": tc.optionID})

			handler.HandleCreateValue(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, repo)
			}
		})
	}
}

func TestHandleUpdateValue(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		updateErr          error
		expectedStatusCode int
	}{
		{name: "Activate", requestBody: `{"isActive":true}`, expectedStatusCode: http.StatusOK},
		{name: "Missing flag", requestBody: `{}`, expectedStatusCode: http.StatusBadRequest},
		{name: "Value not found", requestBody: `{"isActive":false}`, updateErr: models.ErrOptionValueNotFound, expectedStatusCode: http.StatusNotFound},
		{name: "Repository error", requestBody: `{"isActive":false}`, updateErr: errors.New("db down"), expectedStatusCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo()
			repo.UpdateErr = tc.updateErr
			handler := NewOptionsHandler(repo, nil)
			rec := httptest.NewRecorder()
			req := newRequest("PATCH", "/products/oxford-01/options/opt-color/values/val-brown", tc.requestBody,
				map[string]string{"id": "oxford-01", "optionId": "opt-color", "valueId": "val-brown"})

			handler.HandleUpdateValue(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if rec.Code == http.StatusOK {
				var resp ValueResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.True(t, resp.IsActive)
				assert.Equal(t, "val-brown", repo.lastToggleID)
			}
		})
	}
}
