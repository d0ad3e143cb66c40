package receit

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

type Handler struct {
	stores        *Manager
	storeResolver func(*http.Request) *Store
}

func NewHandler(stores *Manager) *Handler {
	return &Handler{stores: stores}
}

// SetStoreResolver lets the server resolve the per-request store, e.g.
// from the authenticated user.
func (h *Handler) SetStoreResolver(fn func(*http.Request) *Store) {
	h.storeResolver = fn
}

func (h *Handler) storeForRequest(r *http.Request) *Store {
	if h.storeResolver != nil {
		if st := h.storeResolver(r); st != nil {
			return st
		}
	}
	return h.stores.ForOwner("default")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeValidationErr(w http.ResponseWriter, verr ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":      "validation failed",
		"violations": verr,
	})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func parseBool(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// GET /api/receits?status=todo|done
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	st := h.storeForRequest(r)

	records := st.ListAll()
	switch strings.TrimSpace(strings.ToLower(r.URL.Query().Get("status"))) {
	case "todo", "to-do":
		records = filterByStatus(records, model.StatusTodo)
	case "done":
		records = filterByStatus(records, model.StatusDone)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"receits": records,
		"loading": st.Loading(),
	})
}

// POST /api/receits
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	rec, err := Validate(in)
	if err != nil {
		var verr ValidationErrors
		if errors.As(err, &verr) {
			writeValidationErr(w, verr)
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.storeForRequest(r).Create(rec)
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			writeErr(w, http.StatusConflict, err.Error())
			return
		}
		writeErr(w, http.StatusInternalServerError, "could not create receit")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GET /api/receits/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.storeForRequest(r).GetByID(r.PathValue("id"))
	if !ok {
		writeErr(w, http.StatusNotFound, "receit not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// PUT /api/receits/{id}
//
// Full-replacement semantics: the payload carries every editable field;
// nothing is merged from the stored record here. Callers that want a
// partial edit spread the old record first.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	rec, err := Validate(in)
	if err != nil {
		var verr ValidationErrors
		if errors.As(err, &verr) {
			writeValidationErr(w, verr)
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	rec.ID = r.PathValue("id")

	updated, err := h.storeForRequest(r).Update(rec)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "receit not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, "could not update receit")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DELETE /api/receits/{id}?cascade=true
//
// Always succeeds: deleting an id that is already gone is a no-op so the
// operation stays safely retryable.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	cascade := parseBool(r.URL.Query().Get("cascade"))
	h.storeForRequest(r).Delete(r.PathValue("id"), cascade)
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/receits/{id}/links
func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	st := h.storeForRequest(r)
	id := r.PathValue("id")
	if _, ok := st.GetByID(id); !ok {
		writeErr(w, http.StatusNotFound, "receit not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"receits": st.ResolveLinks(id)})
}

// POST /api/receits/{id}/notes
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Note string `json:"note"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Note) == "" {
		writeErr(w, http.StatusBadRequest, "note is required")
		return
	}

	rec, err := h.storeForRequest(r).AddNote(r.PathValue("id"), in.Note)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "receit not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, "could not add note")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GET /api/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.storeForRequest(r).DerivedCategories(),
	})
}

func filterByStatus(records []model.Receit, status model.Status) []model.Receit {
	out := make([]model.Receit, 0, len(records))
	for _, rec := range records {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}
