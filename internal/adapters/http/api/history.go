package api

import (
	"fmt"
	"net/http"
	"strconv"
)

const defaultHistoryLimit = 20

// HistoryHandler serves the caller's past calculations.
type HistoryHandler struct {
	deps Dependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleList handles GET /history?limit=N requests.
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := min(defaultHistoryLimit, h.deps.MaxHistoryLimit())
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, WrapKind("parse limit", KindInvalidLimit, fmt.Errorf("limit %q is not an integer", raw)))
			return
		}
		limit = n
	}

	entries, err := h.deps.History(r.Context(), r.Header.Get(HeaderUserID), limit)
	if err != nil {
		writeError(w, r, Wrap("list history", err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
