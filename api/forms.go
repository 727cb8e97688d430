package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/poiesic/formgen/core"
	"github.com/poiesic/formgen/storage"
)

// SubmitRequest is the body of a form submission.
type SubmitRequest struct {
	Responses map[string]any `json:"responses"`
}

// FormsHandler serves public form retrieval and submission endpoints.
// These routes are unauthenticated: published forms are filled out by
// end users who hold no credentials.
type FormsHandler struct {
	forms       storage.FormRepository
	submissions storage.SubmissionRepository
	logger      *slog.Logger
}

// NewFormsHandler creates a FormsHandler.
func NewFormsHandler(forms storage.FormRepository, submissions storage.SubmissionRepository) *FormsHandler {
	return &FormsHandler{
		forms:       forms,
		submissions: submissions,
		logger:      slog.Default().With("component", "forms-handler"),
	}
}

// RegisterRoutes registers public form routes on the mux.
func (h *FormsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/forms/{id}", h.getForm)
	mux.HandleFunc("POST /api/forms/{id}/submissions", h.submit)
}

func (h *FormsHandler) getForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseFormID(w, r)
	if !ok {
		return
	}

	form, err := h.forms.GetForm(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "form not found")
			return
		}
		h.logger.Error("form lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load form")
		return
	}

	writeJSON(w, http.StatusOK, form)
}

func (h *FormsHandler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseFormID(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	// The form must exist before a submission is accepted against it.
	if _, err := h.forms.GetForm(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "form not found")
			return
		}
		h.logger.Error("form lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load form")
		return
	}

	sub := &core.Submission{
		Form:      id,
		Responses: req.Responses,
	}
	if err := core.ValidateSubmission(sub); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	saved, err := h.submissions.AddSubmissions(r.Context(), sub)
	if err != nil {
		h.logger.Error("submission write failed", "form", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to save submission")
		return
	}

	writeJSON(w, http.StatusCreated, saved[0])
}

func parseFormID(w http.ResponseWriter, r *http.Request) (core.ID, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid form ID")
		return 0, false
	}
	return core.ID(id), true
}
