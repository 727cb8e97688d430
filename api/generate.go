package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/pipeline"
)

// GenerateRequest is the body of a form generation request.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateHandler handles authenticated form generation requests.
type GenerateHandler struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// NewGenerateHandler creates a GenerateHandler.
func NewGenerateHandler(p *pipeline.Pipeline) *GenerateHandler {
	return &GenerateHandler{
		pipeline: p,
		logger:   slog.Default().With("component", "generate-handler"),
	}
}

// RegisterRoutes registers generation routes on the mux.
func (h *GenerateHandler) RegisterRoutes(mux *http.ServeMux, auth middleware) {
	mux.Handle("POST /api/generate", chain(http.HandlerFunc(h.generate), auth))
}

func (h *GenerateHandler) generate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	form, err := h.pipeline.Generate(r.Context(), owner, req.Prompt)
	if err != nil {
		if errors.Is(err, core.ErrEmptyPrompt) {
			writeError(w, http.StatusBadRequest, "bad_request", "prompt must not be empty")
			return
		}
		h.logger.Error("generation failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to persist form")
		return
	}

	writeJSON(w, http.StatusCreated, form)
}
