// internal/auth/handler.go
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfs/internal/liberr"
)

// Handler exposes login, signup and session inspection over HTTP.
type Handler struct {
	session *Session
}

// NewHandler creates an HTTP handler around the given session.
func NewHandler(session *Session) *Handler {
	return &Handler{session: session}
}

// Mount registers the auth routes on the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/signup", h.handleSignup)
	r.Get("/session", h.handleSession)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.session.Login(r.Context(), req.Email, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	user, _ := h.session.CurrentUser()
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.session.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, liberr.ErrDuplicateKey) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	user, ok := h.session.CurrentUser()
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	json.NewEncoder(w).Encode(struct {
		User          any  `json:"user"`
		Admin         bool `json:"admin"`
		CanViewLoans  bool `json:"canViewAllLoans"`
		CanManageBook bool `json:"canManageBooks"`
	}{user, h.session.RequireAdmin(), h.session.CanViewAllLoans(), h.session.CanManageBooks()})
}
