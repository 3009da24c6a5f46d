// Package learning scores module quizzes and tracks per-user module progress.
package learning

import (
	"math"

	"github.com/bobmcallan/paisa-buddy/internal/models"
)

// Score is the outcome of marking one quiz attempt.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Progress is the percentage of correct answers, rounded half away from zero.
func (s Score) Progress() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
}

// ScoreQuiz awards one point per question whose answer matches the key exactly.
// Unanswered questions score nothing.
func ScoreQuiz(questions []models.Question, answers map[string]string) Score {
	s := Score{Total: len(questions)}
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && a == q.Answer {
			s.Correct++
		}
	}
	return s
}
