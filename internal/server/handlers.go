// ABOUTME: HTTP handlers for login and customer endpoints
// ABOUTME: Translates domain results and failures into API responses

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wrkspot/customerd/internal/auth"
	"github.com/wrkspot/customerd/internal/customer"
	"github.com/wrkspot/customerd/internal/store"
)

// AuthRequest is the JSON request body for POST /api/customers/authenticate.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CustomersLists is the JSON request body for the list comparison endpoints.
type CustomersLists struct {
	ListA []store.Customer `json:"listA"`
	ListB []store.Customer `json:"listB"`
}

// handleAuthenticate handles POST /api/customers/authenticate.
// On success it returns the issued token as a plain-text body with 201.
// Unknown users and wrong passwords produce the same 401 response so the
// caller cannot probe which usernames exist.
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	id, err := s.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.logger.Error("authentication error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := s.codec.Issue(id.Username, nil)
	if err != nil {
		s.logger.Error("issuing token", "username", id.Username, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info("login successful", "username", id.Username)
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(token))
}

// handleCreateCustomers handles POST /api/customers/create (admin only).
func (s *Server) handleCreateCustomers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var customers []store.Customer
	if err := json.NewDecoder(r.Body).Decode(&customers); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.customers.CreateCustomers(r.Context(), customers)
	if err != nil {
		if errors.Is(err, customer.ErrInvalidCustomer) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("creating customers", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleGetCustomers handles GET /api/customers with optional name, city,
// and state query filters.
func (s *Server) handleGetCustomers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	customers, err := s.customers.FilterCustomers(r.Context(), q.Get("name"), q.Get("city"), q.Get("state"))
	if err != nil {
		if errors.Is(err, customer.ErrNoCustomers) {
			writeError(w, r, http.StatusNotFound, "Customer not found")
			return
		}
		s.logger.Error("listing customers", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, customers)
}

// decodeLists reads the comparison request body, writing an error response
// and returning false when the body is unusable.
func (s *Server) decodeLists(w http.ResponseWriter, r *http.Request) (CustomersLists, bool) {
	var lists CustomersLists
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return lists, false
	}
	if err := json.NewDecoder(r.Body).Decode(&lists); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return lists, false
	}
	return lists, true
}

// handleOnlyInA handles POST /api/customers/only-in-a.
func (s *Server) handleOnlyInA(w http.ResponseWriter, r *http.Request) {
	lists, ok := s.decodeLists(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, customer.OnlyInA(lists.ListA, lists.ListB))
}

// handleOnlyInB handles POST /api/customers/only-in-b.
func (s *Server) handleOnlyInB(w http.ResponseWriter, r *http.Request) {
	lists, ok := s.decodeLists(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, customer.OnlyInB(lists.ListA, lists.ListB))
}

// handleInBoth handles POST /api/customers/in-both-a-and-b.
func (s *Server) handleInBoth(w http.ResponseWriter, r *http.Request) {
	lists, ok := s.decodeLists(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, customer.InBoth(lists.ListA, lists.ListB))
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady handles GET /health/ready. The server is ready once the store
// answers queries.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.CountUsers(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "store not ready")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
