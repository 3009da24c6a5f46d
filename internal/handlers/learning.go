package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/learning"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
	"github.com/bobmcallan/paisa-buddy/internal/models"
)

// LearningHandler serves modules, lessons and quizzes.
type LearningHandler struct {
	logger  *common.Logger
	ledgers *ledgers.Registry
}

// NewLearningHandler creates a new learning handler.
func NewLearningHandler(logger *common.Logger, reg *ledgers.Registry) *LearningHandler {
	return &LearningHandler{logger: logger, ledgers: reg}
}

type moduleView struct {
	models.Module
	Status  string            `json:"status"`
	Answers map[string]string `json:"answers,omitempty"`
}

// publicModule hides the correct answers until the attempt is submitted.
func publicModule(m models.Module, answers map[string]string) moduleView {
	if m.Attempt != models.AttemptSubmitted {
		for i := range m.Quiz {
			m.Quiz[i].Answer = ""
		}
	}
	return moduleView{Module: m, Status: m.Status(), Answers: answers}
}

// HandleModules handles GET /api/learn/modules.
func (h *LearningHandler) HandleModules(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	modules := ws.Learning.Modules()
	views := make([]moduleView, len(modules))
	for i, m := range modules {
		views[i] = publicModule(m, nil)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"modules": views,
		"summary": ws.Learning.Summary(),
	})
}

// HandleModule handles GET /api/learn/modules/{id}.
func (h *LearningHandler) HandleModule(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	id := r.PathValue("id")
	m, found := ws.Learning.Module(id)
	if !found {
		WriteError(w, http.StatusNotFound, "Module not found")
		return
	}
	WriteJSON(w, http.StatusOK, publicModule(m, ws.Learning.Answers(id)))
}

// HandleAnswer handles PUT /api/learn/modules/{id}/answers.
func (h *LearningHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	var req struct {
		QuestionID string `json:"questionId"`
		Option     string `json:"option"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	if err := ws.Learning.Answer(r.Context(), id, req.QuestionID, req.Option); err != nil {
		h.writeLearningError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"answers": ws.Learning.Answers(id)})
}

// HandleSubmit handles POST /api/learn/modules/{id}/submit.
func (h *LearningHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	result, err := ws.Learning.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeLearningError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// HandleRetake handles POST /api/learn/modules/{id}/retake.
func (h *LearningHandler) HandleRetake(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	m, err := ws.Learning.Retake(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeLearningError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, publicModule(m, nil))
}

func (h *LearningHandler) writeLearningError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, learning.ErrUnknownModule):
		WriteError(w, http.StatusNotFound, "Module not found")
	case errors.Is(err, learning.ErrUnknownQuestion), errors.Is(err, learning.ErrInvalidOption), errors.Is(err, learning.ErrIncompleteQuiz):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, learning.ErrAttemptSubmitted):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error().Err(err).Msg("learning request failed")
		WriteError(w, http.StatusInternalServerError, "Internal error")
	}
}
