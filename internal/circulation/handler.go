// internal/circulation/handler.go
package circulation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfs/internal/liberr"
)

// Handler exposes the circulation service over HTTP. Member self-service
// restrictions are enforced by the caller via auth.Session predicates; the
// handlers trust the actor id they are given.
type Handler struct {
	service Service
}

// NewHandler creates an HTTP handler for the circulation service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Mount registers the circulation routes on the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/loans", h.handleIssue)
	r.Get("/loans", h.handleList)
	r.Get("/loans/overdue", h.handleOverdue)
	r.Delete("/loans/{id}", h.handleReturn)
	r.Get("/users/{id}/loans", h.handleLoansByUser)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"user_id"`
		Barcode string `json:"barcode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := h.service.Issue(r.Context(), req.UserID, req.Barcode)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(loan)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.Loans(r.Context()))
}

func (h *Handler) handleOverdue(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.Overdue(r.Context()))
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Return(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLoansByUser(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.LoansByUser(r.Context(), chi.URLParam(r, "id")))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, liberr.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, liberr.ErrNotAvailable), errors.Is(err, liberr.ErrLoanLimitExceeded):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
