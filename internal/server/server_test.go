// ABOUTME: End-to-end HTTP tests covering login, role gates, and customer endpoints
// ABOUTME: Exercises the full handler chain against a real SQLite store

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"

	"github.com/wrkspot/customerd/internal/config"
	"github.com/wrkspot/customerd/internal/store"
)

// testSecret is base64 of a throwaway signing key.
const testSecret = "dGVzdC1zaWduaW5nLWtleS1mb3ItY3VzdG9tZXJkISE="

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")},
		Auth: config.AuthConfig{
			JWTSecret: testSecret,
			TokenTTL:  time.Hour,
		},
		Admin: config.AdminConfig{
			Username: "admin",
			Password: "adminpass",
			Email:    "admin@example.com",
			Roles:    "ROLE_ADMIN,ROLE_USER",
		},
	}
}

func setupServer(t *testing.T) *Server {
	t.Helper()

	s, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.store.Close()
	})

	// A regular, non-admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("alicepass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.store.CreateUser(context.Background(), &store.User{
		Name:         "alice",
		PasswordHash: string(hash),
		Email:        "alice@example.com",
		Roles:        []string{"ROLE_USER"},
	}))

	return s
}

// login authenticates through the HTTP surface and returns the issued token.
func login(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()

	body, _ := json.Marshal(AuthRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/customers/authenticate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Body.String())
	return rec.Body.String()
}

func jsonRequest(method, path, token string, payload any) *http.Request {
	var body *bytes.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func sampleCustomers() []store.Customer {
	return []store.Customer{
		{
			CustomerID: "c-1",
			FirstName:  "John",
			LastName:   "Doe",
			Age:        30,
			Addresses: []store.Address{
				{Type: "Home", Address1: "123 Main St", City: "Springfield", State: "IL", ZipCode: "62704"},
			},
		},
		{
			CustomerID: "c-2",
			FirstName:  "Jane",
			LastName:   "Smith",
			Age:        25,
			Addresses: []store.Address{
				{Type: "Home", Address1: "9 Elm St", City: "Austin", State: "TX", ZipCode: "73301"},
			},
		},
	}
}

func TestLogin_Success(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()

	token := login(t, handler, "admin", "adminpass")
	assert.NotEmpty(t, token)
}

func TestLogin_BadCredentials(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()

	wrongPassword := jsonRequest(http.MethodPost, "/api/customers/authenticate", "",
		AuthRequest{Username: "alice", Password: "wrong"})
	recA := httptest.NewRecorder()
	handler.ServeHTTP(recA, wrongPassword)

	unknownUser := jsonRequest(http.MethodPost, "/api/customers/authenticate", "",
		AuthRequest{Username: "nobody", Password: "whatever"})
	recB := httptest.NewRecorder()
	handler.ServeHTTP(recB, unknownUser)

	assert.Equal(t, http.StatusUnauthorized, recA.Code)
	assert.Equal(t, http.StatusUnauthorized, recB.Code)

	// Responses must not reveal whether the username existed
	var errA, errB ErrorResponse
	require.NoError(t, json.Unmarshal(recA.Body.Bytes(), &errA))
	require.NoError(t, json.Unmarshal(recB.Body.Bytes(), &errB))
	assert.Equal(t, errA.ErrorMessage, errB.ErrorMessage)
}

func TestLogin_MissingFields(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()

	req := jsonRequest(http.MethodPost, "/api/customers/authenticate", "", AuthRequest{Username: "alice"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCustomers_AdminOnly(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()

	adminToken := login(t, handler, "admin", "adminpass")
	userToken := login(t, handler, "alice", "alicepass")

	t.Run("anonymous rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/customers/create", "", sampleCustomers()))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/customers/create", userToken, sampleCustomers()))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/customers/create", adminToken, sampleCustomers()))
		require.Equal(t, http.StatusCreated, rec.Code)

		var created []store.Customer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Len(t, created, 2)
	})
}

func TestCreateCustomers_ValidationFailure(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()
	adminToken := login(t, handler, "admin", "adminpass")

	bad := sampleCustomers()
	bad[0].FirstName = "J"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/customers/create", adminToken, bad))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCustomers(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()
	adminToken := login(t, handler, "admin", "adminpass")
	userToken := login(t, handler, "alice", "alicepass")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/customers/create", adminToken, sampleCustomers()))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("anonymous rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, jsonRequest(http.MethodGet, "/api/customers", "", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("all customers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, jsonRequest(http.MethodGet, "/api/customers", userToken, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var got []store.Customer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("filter by city and state", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, jsonRequest(http.MethodGet, "/api/customers?city=Austin&state=TX", userToken, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var got []store.Customer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "c-2", got[0].CustomerID)
	})

	t.Run("no match is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, jsonRequest(http.MethodGet, "/api/customers?name=nobody", userToken, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCompareEndpoints(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()
	userToken := login(t, handler, "alice", "alicepass")

	customers := sampleCustomers()
	lists := CustomersLists{
		ListA: customers,     // c-1, c-2
		ListB: customers[1:], // c-2
	}

	tests := []struct {
		path    string
		wantIDs []string
	}{
		{"/api/customers/only-in-a", []string{"c-1"}},
		{"/api/customers/only-in-b", []string{}},
		{"/api/customers/in-both-a-and-b", []string{"c-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, jsonRequest(http.MethodPost, tt.path, userToken, lists))
			require.Equal(t, http.StatusOK, rec.Code)

			var got []store.Customer
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.CustomerID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGarbageBearerToken_PassesThroughToRoleGate(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()

	req := jsonRequest(http.MethodGet, "/api/customers", "", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// The broken token makes the request anonymous; the role gate rejects it
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()

	for _, path := range []string{"/health", "/health/ready"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestErrorEnvelope(t *testing.T) {
	s := setupServer(t)
	handler := s.Handler()
	userToken := login(t, handler, "alice", "alicepass")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(http.MethodGet, "/api/customers?name=nobody", userToken, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "/api/customers", envelope.APIPath)
	assert.Equal(t, http.StatusNotFound, envelope.ErrorCode)
	assert.NotEmpty(t, envelope.ErrorMessage)
	assert.False(t, envelope.ErrorTime.IsZero())
}
