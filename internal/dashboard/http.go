package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/Talal-Sharaa/ReceIT/internal/receit"
)

type Handler struct {
	storeResolver func(*http.Request) *receit.Store
}

func NewHandler(storeResolver func(*http.Request) *receit.Store) *Handler {
	return &Handler{storeResolver: storeResolver}
}

// GET /api/dashboard
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st := h.storeResolver(r)
	if st == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Compute(st.ListAll()))
}
