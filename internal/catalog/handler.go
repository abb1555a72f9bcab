// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfs/internal/liberr"
)

// Handler exposes the catalog service over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates an HTTP handler for the catalog service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Mount registers the catalog routes on the given router.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/books", h.handleAddBook)
	r.Get("/books", h.handleListDefinitions)
	r.Get("/books/search", h.handleSearch)
	r.Get("/books/{isbn}", h.handleGetByISBN)
	r.Put("/books/{isbn}", h.handleUpdateDefinition)
	r.Get("/books/{isbn}/available", h.handleAvailableCopies)
	r.Post("/copies", h.handleAddCopy)
	r.Get("/copies/{barcode}", h.handleGetByBarcode)
	r.Delete("/copies/{barcode}", h.handleRemoveCopy)
}

func (h *Handler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ISBN      string `json:"isbn"`
		Title     string `json:"title"`
		Author    string `json:"author"`
		Publisher string `json:"publisher"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	def, copyItem, err := h.service.AddBook(r.Context(), req.ISBN, req.Title, req.Author, req.Publisher)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Definition *BookDefinition `json:"definition"`
		Copy       *BookCopy       `json:"copy"`
	}{def, copyItem})
}

func (h *Handler) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.service.Definitions(r.Context()))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if title := r.URL.Query().Get("title"); title != "" {
		json.NewEncoder(w).Encode(h.service.SearchByTitle(r.Context(), title))
		return
	}
	if author := r.URL.Query().Get("author"); author != "" {
		json.NewEncoder(w).Encode(h.service.SearchByAuthor(r.Context(), author))
		return
	}
	http.Error(w, "missing title or author query", http.StatusBadRequest)
}

func (h *Handler) handleGetByISBN(w http.ResponseWriter, r *http.Request) {
	def, err := h.service.FindByISBN(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(def)
}

func (h *Handler) handleUpdateDefinition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		Author    string `json:"author"`
		Publisher string `json:"publisher"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateDefinition(r.Context(), chi.URLParam(r, "isbn"), req.Title, req.Author, req.Publisher); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleAvailableCopies(w http.ResponseWriter, r *http.Request) {
	available, err := h.service.AvailableCopies(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(available)
}

func (h *Handler) handleAddCopy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DefinitionID string `json:"definition_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	copyItem, err := h.service.AddCopy(r.Context(), req.DefinitionID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(copyItem)
}

func (h *Handler) handleGetByBarcode(w http.ResponseWriter, r *http.Request) {
	copyItem, err := h.service.FindByBarcode(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(copyItem)
}

func (h *Handler) handleRemoveCopy(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveCopy(r.Context(), chi.URLParam(r, "barcode")); err != nil {
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
