// Package fraud runs the scam-awareness challenges.
package fraud

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bobmcallan/paisa-buddy/internal/learning"
	"github.com/bobmcallan/paisa-buddy/internal/models"
)

var (
	ErrUnknownChallenge = errors.New("unknown challenge")
	ErrInvalidOption    = errors.New("option index out of range")
)

// Option is one possible response to a scenario.
type Option struct {
	Text     string `json:"text"`
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}

// Challenge is a scam scenario with exactly one correct option.
type Challenge struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Scenario string   `json:"scenario"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// Verdict is the result of checking one option.
type Verdict struct {
	ChallengeID string `json:"challengeId"`
	Option      string `json:"option"`
	Correct     bool   `json:"correct"`
	Feedback    string `json:"feedback"`
}

// Quiz holds a fixed set of challenges. It is read-only after construction.
type Quiz struct {
	challenges []Challenge
}

func NewQuiz(challenges []Challenge) *Quiz {
	return &Quiz{challenges: append([]Challenge(nil), challenges...)}
}

// Challenges lists the challenges with the correct flags intact; callers
// that show an unanswered challenge should use Public.
func (q *Quiz) Challenges() []Challenge {
	return append([]Challenge(nil), q.challenges...)
}

// Public returns the challenges with correctness and feedback stripped.
func (q *Quiz) Public() []Challenge {
	out := make([]Challenge, len(q.challenges))
	for i, c := range q.challenges {
		opts := make([]Option, len(c.Options))
		for j, o := range c.Options {
			opts[j] = Option{Text: o.Text}
		}
		c.Options = opts
		out[i] = c
	}
	return out
}

func (q *Quiz) challenge(id string) (Challenge, bool) {
	for _, c := range q.challenges {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}

// Check reports whether option index is the right response to the challenge.
func (q *Quiz) Check(challengeID string, option int) (Verdict, error) {
	c, ok := q.challenge(challengeID)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %s", ErrUnknownChallenge, challengeID)
	}
	if option < 0 || option >= len(c.Options) {
		return Verdict{}, fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}
	o := c.Options[option]
	return Verdict{ChallengeID: c.ID, Option: o.Text, Correct: o.Correct, Feedback: o.Feedback}, nil
}

// Score marks a full set of responses (challenge id -> option index) with the
// same rule as module quizzes. Unknown or out-of-range responses score nothing.
func (q *Quiz) Score(answers map[string]int) learning.Score {
	questions := make([]models.Question, len(q.challenges))
	given := make(map[string]string, len(answers))
	for i, c := range q.challenges {
		mq := models.Question{ID: c.ID, Text: c.Question}
		for _, o := range c.Options {
			mq.Options = append(mq.Options, o.Text)
			if o.Correct {
				mq.Answer = o.Text
			}
		}
		questions[i] = mq
		if idx, ok := answers[c.ID]; ok && idx >= 0 && idx < len(c.Options) {
			given[c.ID] = c.Options[idx].Text
		}
	}
	return learning.ScoreQuiz(questions, given)
}

// Attempts is one user's latest response per challenge for the life of
// their workspace.
type Attempts struct {
	mu      sync.Mutex
	answers map[string]int
}

func NewAttempts() *Attempts {
	return &Attempts{answers: make(map[string]int)}
}

// Answers returns a copy of the recorded responses.
func (a *Attempts) Answers() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int, len(a.answers))
	for id, idx := range a.answers {
		out[id] = idx
	}
	return out
}

// Reset forgets every recorded response.
func (a *Attempts) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers = make(map[string]int)
}

// Answer checks option like Check and, when it is valid, records it as the
// user's response to the challenge.
func (q *Quiz) Answer(a *Attempts, challengeID string, option int) (Verdict, error) {
	v, err := q.Check(challengeID, option)
	if err != nil {
		return Verdict{}, err
	}
	a.mu.Lock()
	a.answers[challengeID] = option
	a.mu.Unlock()
	return v, nil
}

// ScoreAttempts marks the responses recorded so far.
func (q *Quiz) ScoreAttempts(a *Attempts) learning.Score {
	return q.Score(a.Answers())
}
