// internal/users/handler.go
package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfs/internal/liberr"
)

// Handler exposes the user service over HTTP. It renders service results
// and failure signals; all business rules live in the service.
type Handler struct {
	service Service
}

// NewHandler creates an HTTP handler for the user service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Mount registers the user routes on the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/users", h.handleRegister)
	r.Get("/users", h.handleList)
	r.Get("/users/{id}", h.handleGet)
	r.Put("/users/{id}", h.handleUpdate)
	r.Post("/users/{id}/upgrade", h.handleUpgrade)
	r.Delete("/users/{id}", h.handleRemove)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     Role   `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = RoleMember
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.List(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Username, req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	upgraded := h.service.UpgradeToAdministrator(r.Context(), chi.URLParam(r, "id"))
	json.NewEncoder(w).Encode(map[string]bool{"upgraded": upgraded})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, liberr.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, liberr.ErrDuplicateKey):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
