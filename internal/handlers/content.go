package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/content"
)

// ContentHandler generates India-centric explanations of a concept.
type ContentHandler struct {
	service *content.Service
}

// NewContentHandler creates a new content handler. A nil service answers 503.
func NewContentHandler(service *content.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// HandleGenerate handles POST /api/content/generate.
func (h *ContentHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if h.service == nil {
		WriteError(w, http.StatusServiceUnavailable, "Content generation is not configured")
		return
	}
	var req struct {
		Concept string `json:"concept"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	creq, err := content.NewRequest(req.Concept)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	out, err := h.service.Generate(r.Context(), creq)
	if err != nil {
		if errors.Is(err, content.ErrGenerationFailed) {
			WriteError(w, http.StatusBadGateway, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, out)
}
