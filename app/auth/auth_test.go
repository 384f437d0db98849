package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockAuthorizer struct {
	Err error
}

func (m *MockAuthorizer) AuthorizeAdmin(*http.Request) error { return m.Err }

func TestTokenAuthorizer(t *testing.T) {
	testCases := []struct {
		name     string
		token    string
		header   string
		expected error
	}{
		{name: "Valid token", token: "s3cret", header: "Bearer s3cret", expected: nil},
		{name: "Scheme is case insensitive", token: "s3cret", header: "bearer s3cret", expected: nil},
		{name: "No header", token: "s3cret", header: "", expected: ErrUnauthenticated},
		{name: "Basic auth", token: "s3cret", header: "Basic dXNlcjpwYXNz", expected: ErrUnauthenticated},
		{name: "Empty bearer", token: "s3cret", header: "Bearer ", expected: ErrUnauthenticated},
		{name: "Wrong token", token: "s3cret", header: "Bearer guess", expected: ErrForbidden},
		{name: "No admin token configured", token: "", header: "Bearer anything", expected: ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/products", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			err := NewTokenAuthorizer(tc.token).AuthorizeAdmin(req)

			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	testCases := []struct {
		name               string
		authErr            error
		expectedStatusCode int
		expectedError      string
		reachesNext        bool
	}{
		{name: "Admin", expectedStatusCode: http.StatusNoContent, reachesNext: true},
		{name: "No credentials", authErr: ErrUnauthenticated, expectedStatusCode: http.StatusUnauthorized, expectedError: "Authentication required"},
		{name: "Not admin", authErr: ErrForbidden, expectedStatusCode: http.StatusForbidden, expectedError: "Admin access required"},
		{name: "Authorizer failure", authErr: errors.New("session store down"), expectedStatusCode: http.StatusInternalServerError, expectedError: "Failed to authorize request"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				reached = true
				w.WriteHeader(http.StatusNoContent)
			})
			handler := RequireAdmin(&MockAuthorizer{Err: tc.authErr}, nil)(next)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, httptest.NewRequest("POST", "/products", nil))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.reachesNext, reached)
			if tc.expectedError != "" {
				var errResp map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, tc.expectedError, errResp["error"])
			}
		})
	}
}
