package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/retrieval"
)

// SearchResponse is the body of a search response.
type SearchResponse struct {
	Results []*core.Form `json:"results"`
}

// SearchHandler handles authenticated semantic search over an owner's forms.
type SearchHandler struct {
	searcher *retrieval.Searcher
	logger   *slog.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(searcher *retrieval.Searcher) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		logger:   slog.Default().With("component", "search-handler"),
	}
}

// RegisterRoutes registers search routes on the mux.
func (h *SearchHandler) RegisterRoutes(mux *http.ServeMux, auth middleware) {
	mux.Handle("GET /api/search", chain(http.HandlerFunc(h.search), auth))
}

func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
		return
	}

	query := r.URL.Query().Get("q")
	results, err := h.searcher.Search(r.Context(), owner, query)
	if err != nil {
		if errors.Is(err, retrieval.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "bad_request", "query parameter q must not be empty")
			return
		}
		h.logger.Error("search failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "search failed")
		return
	}

	if results == nil {
		results = []*core.Form{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
