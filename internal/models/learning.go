package models

// Lesson is one reading step of a module.
type Lesson struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Question is a multiple-choice quiz question. Answer is one of Options.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// HasOption reports whether option is one of q's choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// AttemptState tracks a module's quiz attempt.
type AttemptState string

const (
	AttemptNotStarted AttemptState = "not_started"
	AttemptInProgress AttemptState = "in_progress"
	AttemptSubmitted  AttemptState = "submitted"
)

// Module status labels.
const (
	StatusCompleted  = "Completed"
	StatusInProgress = "In Progress"
	StatusStart      = "Start Learning"
)

// Module is a learning module with its lessons, quiz and the user's progress (0-100).
type Module struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Icon        string       `json:"icon,omitempty"`
	Lessons     []Lesson     `json:"lessons"`
	Quiz        []Question   `json:"quiz"`
	Progress    int          `json:"progress"`
	Attempt     AttemptState `json:"attempt"`
}

// Status derives the display label from progress.
func (m Module) Status() string {
	switch {
	case m.Progress >= 100:
		return StatusCompleted
	case m.Progress > 0:
		return StatusInProgress
	default:
		return StatusStart
	}
}

// Question returns the quiz question with the given id.
func (m Module) Question(id string) (Question, bool) {
	for _, q := range m.Quiz {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// CloneModules deep-copies a module list.
func CloneModules(in []Module) []Module {
	out := make([]Module, len(in))
	for i, m := range in {
		m.Lessons = append([]Lesson(nil), m.Lessons...)
		quiz := make([]Question, len(m.Quiz))
		for j, q := range m.Quiz {
			q.Options = append([]string(nil), q.Options...)
			quiz[j] = q
		}
		m.Quiz = quiz
		out[i] = m
	}
	return out
}
