package soles

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

	"github.com/italianshoes/catalog/models"
)

// --- Mock Repository ---

type MockSoleRepo struct {
	Soles          []models.Sole
	ListErr        error
	CreateErr      error
	LastSaved      *models.Sole
	lastActiveOnly bool
}

func (m *MockSoleRepo) GetAllSoles(_ context.Context, activeOnly bool) ([]models.Sole, error) {
	m.lastActiveOnly = activeOnly
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []models.Sole
	for _, s := range m.Soles {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *MockSoleRepo) CreateSole(_ context.Context, sole *models.Sole) error {
	m.LastSaved = sole
	if m.CreateErr != nil {
		return m.CreateErr
	}
	sole.ID = "sole-new"
	return nil
}

func newRepo() *MockSoleRepo {
	return &MockSoleRepo{Soles: []models.Sole{
		{ID: "sole-1", Name: "Leather", IsActive: true},
		{ID: "sole-2", Name: "Crepe", IsActive: false},
	}}
}

// --- Tests: GET /soles ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		active             bool
		repo               *MockSoleRepo
		expectedStatusCode int
		expectedCount      int
		expectedActiveOnly bool
	}{
		{name: "All soles", url: "/soles", repo: newRepo(), expectedStatusCode: http.StatusOK, expectedCount: 2},
		{name: "Active filter", url: "/soles?active=true", repo: newRepo(), expectedStatusCode: http.StatusOK, expectedCount: 1, expectedActiveOnly: true},
		{name: "Active route", url: "/soles/active", active: true, repo: newRepo(), expectedStatusCode: http.StatusOK, expectedCount: 1, expectedActiveOnly: true},
		{name: "Repository error", url: "/soles", repo: &MockSoleRepo{ListErr: errors.New("db down")}, expectedStatusCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			handler := NewSoleHandler(tc.repo, nil)
			req := httptest.NewRequest("GET", tc.url, nil)
			rec := httptest.NewRecorder()

			// Act
			if tc.active {
				handler.HandleGetActive(rec, req)
			} else {
				handler.HandleGetAll(rec, req)
			}

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if rec.Code != http.StatusOK {
				return
			}
			var resp []SoleResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Len(t, resp, tc.expectedCount)
			assert.Equal(t, tc.expectedActiveOnly, tc.repo.lastActiveOnly)
		})
	}
}

// --- Tests: POST /soles ---

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		createErr          error
		expectedStatusCode int
		checkRepoCall      func(t *testing.T, repo *MockSoleRepo)
	}{
		{
			name:               "Success",
			requestBody:        `{"name":"Rubber Commando","category":"rubber","imageUrl":"https://cdn.example.com/commando.png"}`,
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockSoleRepo) {
				assert.Equal(t, "Rubber Commando", repo.LastSaved.Name)
				assert.True(t, repo.LastSaved.IsActive)
			},
		},
		{
			name:               "Inactive",
			requestBody:        `{"name":"Blake","isActive":false}`,
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockSoleRepo) {
				assert.False(t, repo.LastSaved.IsActive)
			},
		},
		{
			name:               "Missing name",
			requestBody:        `{"category":"rubber"}`,
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCall: func(t *testing.T, repo *MockSoleRepo) {
				assert.Nil(t, repo.LastSaved)
			},
		},
		{
			name:               "Duplicate name",
			requestBody:        `{"name":"Leather"}`,
			createErr:          fmt.Errorf("sole %q: %w", "Leather", models.ErrDuplicate),
			expectedStatusCode: http.StatusConflict,
		},
		{
			name:               "Repository error",
			requestBody:        `{"name":"Leather"}`,
			createErr:          errors.New("db down"),
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockSoleRepo{CreateErr: tc.createErr}
			handler := NewSoleHandler(repo, nil)
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, httptest.NewRequest("POST", "/soles", strings.NewReader(tc.requestBody)))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, repo)
			}
		})
	}
}
