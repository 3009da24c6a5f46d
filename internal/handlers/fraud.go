package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/paisa-buddy/internal/auth"
	"github.com/bobmcallan/paisa-buddy/internal/fraud"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
)

// FraudHandler serves the fraud-awareness challenges. The challenge set is
// shared by every user; signed-in users have their checks recorded against
// their workspace.
type FraudHandler struct {
	quiz    *fraud.Quiz
	ledgers *ledgers.Registry
}

// NewFraudHandler creates a new fraud handler.
func NewFraudHandler(quiz *fraud.Quiz, reg *ledgers.Registry) *FraudHandler {
	return &FraudHandler{quiz: quiz, ledgers: reg}
}

// HandleChallenges handles GET /api/fraud/challenges.
func (h *FraudHandler) HandleChallenges(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"challenges": h.quiz.Public()})
}

// HandleCheck handles POST /api/fraud/challenges/{id}/check.
func (h *FraudHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Option *int `json:"option"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Option == nil {
		WriteError(w, http.StatusBadRequest, "option is required")
		return
	}

	id := r.PathValue("id")
	var (
		verdict fraud.Verdict
		err     error
	)
	if uid, ok := auth.UserFromContext(r.Context()); ok {
		verdict, err = h.quiz.Answer(h.ledgers.Workspace(r.Context(), uid).Fraud, id, *req.Option)
	} else {
		verdict, err = h.quiz.Check(id, *req.Option)
	}
	if err != nil {
		if errors.Is(err, fraud.ErrUnknownChallenge) {
			WriteError(w, http.StatusNotFound, "Challenge not found")
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, verdict)
}

// HandleScore handles GET /api/fraud/score: the signed-in user's recorded
// checks, marked like a module quiz.
func (h *FraudHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	answers := ws.Fraud.Answers()
	score := h.quiz.Score(answers)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"score":    score,
		"progress": score.Progress(),
		"answered": len(answers),
	})
}

// HandleResetScore handles DELETE /api/fraud/score.
func (h *FraudHandler) HandleResetScore(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	ws, ok := workspace(w, r, h.ledgers)
	if !ok {
		return
	}
	ws.Fraud.Reset()
	WriteJSON(w, http.StatusOK, map[string]interface{}{"answered": 0})
}

// HandleMark handles POST /api/fraud/score with challenge id -> option
// index. Nothing is recorded.
func (h *FraudHandler) HandleMark(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Answers map[string]int `json:"answers"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	score := h.quiz.Score(req.Answers)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"score": score, "progress": score.Progress()})
}
