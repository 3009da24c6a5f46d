package learning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/models"
)

var (
	ErrUnknownModule    = errors.New("unknown module")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrInvalidOption    = errors.New("option is not one of the question's choices")
	ErrAttemptSubmitted = errors.New("quiz already submitted; retake it to answer again")
	ErrIncompleteQuiz   = errors.New("answer every question before submitting")
)

// Summary is the dashboard view of the user's learning.
type Summary struct {
	AverageProgress int `json:"averageProgress"`
	Completed       int `json:"completedModules"`
	Total           int `json:"totalModules"`
}

// Result is returned by Submit. Attempt is this attempt's percentage and
// Progress the recorded (best) value.
type Result struct {
	ModuleID string `json:"moduleId"`
	Score    Score  `json:"score"`
	Attempt  int    `json:"attemptProgress"`
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

// Service owns one user's modules, answers and attempt state.
// writeMu covers a mutation and its store writes (answer keys, module
// snapshot) so a retake cannot clear an answer saved after it.
type Service struct {
	writeMu sync.Mutex
	mu      sync.Mutex
	uid     string
	modules []models.Module
	answers map[string]map[string]string
	store   interfaces.LearningStore
	logger  *common.Logger
}

// NewService wraps already loaded modules. Answers are read from the store.
func NewService(ctx context.Context, uid string, modules []models.Module, store interfaces.LearningStore, logger *common.Logger) *Service {
	if store == nil || logger == nil {
		panic("learning: store and logger are required")
	}
	s := &Service{
		uid:     uid,
		modules: models.CloneModules(modules),
		answers: make(map[string]map[string]string, len(modules)),
		store:   store,
		logger:  logger,
	}
	for _, m := range s.modules {
		got, err := store.LoadAnswers(ctx, uid, m.ID, questionIDs(m))
		if err != nil {
			logger.Warn().Str("uid", uid).Str("module", m.ID).Err(err).Msg("failed to load quiz answers")
			got = map[string]string{}
		}
		s.answers[m.ID] = got
	}
	return s
}

// Open loads the user's modules, falling back to seed() when they are missing or unreadable.
func Open(ctx context.Context, uid string, store interfaces.LearningStore, seed func() []models.Module, logger *common.Logger) *Service {
	modules, err := store.LoadModules(ctx, uid)
	if err != nil || len(modules) == 0 {
		if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			logger.Warn().Str("uid", uid).Err(err).Msg("learning snapshot unreadable, using seed data")
		}
		modules = seed()
	}
	return NewService(ctx, uid, modules, store, logger)
}

// Modules returns every module in catalogue order.
func (s *Service) Modules() []models.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneModules(s.modules)
}

// Module returns one module.
func (s *Service) Module(id string) (models.Module, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.index(id)
	if idx < 0 {
		return models.Module{}, false
	}
	return models.CloneModules(s.modules[idx : idx+1])[0], true
}

// Answers returns the options recorded for the module's current attempt.
func (s *Service) Answers(moduleID string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.answers[moduleID]))
	for k, v := range s.answers[moduleID] {
		out[k] = v
	}
	return out
}

// Summary averages progress across all modules.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{Total: len(s.modules)}
	if sum.Total == 0 {
		return sum
	}
	total := 0
	for _, m := range s.modules {
		total += m.Progress
		if m.Status() == models.StatusCompleted {
			sum.Completed++
		}
	}
	sum.AverageProgress = int(math.Round(float64(total) / float64(sum.Total)))
	return sum
}

// Answer records the selected option for one question.
func (s *Service) Answer(ctx context.Context, moduleID, questionID, option string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	idx := s.index(moduleID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	m := &s.modules[idx]
	q, ok := m.Question(questionID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if m.Attempt == models.AttemptSubmitted {
		s.mu.Unlock()
		return ErrAttemptSubmitted
	}
	if !q.HasOption(option) {
		s.mu.Unlock()
		return ErrInvalidOption
	}

	if s.answers[moduleID] == nil {
		s.answers[moduleID] = map[string]string{}
	}
	s.answers[moduleID][questionID] = option
	stateChanged := m.Attempt != models.AttemptInProgress
	m.Attempt = models.AttemptInProgress
	snap := models.CloneModules(s.modules)
	s.mu.Unlock()

	if err := s.store.SaveAnswer(ctx, s.uid, moduleID, questionID, option); err != nil {
		s.logger.Error().Str("uid", s.uid).Str("module", moduleID).Err(err).Msg("failed to save quiz answer")
	}
	if stateChanged {
		s.persist(ctx, snap)
	}
	return nil
}

// Submit scores the current attempt. The recorded progress only ever goes up
// on submit; Retake is the one way to lower it.
func (s *Service) Submit(ctx context.Context, moduleID string) (Result, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	idx := s.index(moduleID)
	if idx < 0 {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	m := &s.modules[idx]
	if m.Attempt == models.AttemptSubmitted {
		s.mu.Unlock()
		return Result{}, ErrAttemptSubmitted
	}
	answers := s.answers[moduleID]
	for _, q := range m.Quiz {
		if _, ok := answers[q.ID]; !ok {
			s.mu.Unlock()
			return Result{}, ErrIncompleteQuiz
		}
	}

	score := ScoreQuiz(m.Quiz, answers)
	attempt := score.Progress()
	if attempt > m.Progress {
		m.Progress = attempt
	}
	m.Attempt = models.AttemptSubmitted
	res := Result{ModuleID: moduleID, Score: score, Attempt: attempt, Progress: m.Progress, Status: m.Status()}
	snap := models.CloneModules(s.modules)
	s.mu.Unlock()

	s.logger.Info().
		Str("uid", s.uid).
		Str("module", moduleID).
		Int("correct", score.Correct).
		Int("total", score.Total).
		Int("progress", res.Progress).
		Msg("quiz submitted")
	s.persist(ctx, snap)
	return res, nil
}

// Retake clears the stored answers and resets the module's progress to 0.
func (s *Service) Retake(ctx context.Context, moduleID string) (models.Module, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	idx := s.index(moduleID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Module{}, fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	m := &s.modules[idx]
	m.Progress = 0
	m.Attempt = models.AttemptNotStarted
	s.answers[moduleID] = map[string]string{}
	ids := questionIDs(*m)
	out := models.CloneModules(s.modules[idx : idx+1])[0]
	snap := models.CloneModules(s.modules)
	s.mu.Unlock()

	if err := s.store.ClearAnswers(ctx, s.uid, moduleID, ids); err != nil {
		s.logger.Error().Str("uid", s.uid).Str("module", moduleID).Err(err).Msg("failed to clear quiz answers")
	}
	s.logger.Info().Str("uid", s.uid).Str("module", moduleID).Msg("quiz retake started")
	s.persist(ctx, snap)
	return out, nil
}

// index must be called with mu held.
func (s *Service) index(id string) int {
	for i, m := range s.modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persist(ctx context.Context, snap []models.Module) {
	if err := s.store.SaveModules(ctx, s.uid, snap); err != nil {
		s.logger.Error().Str("uid", s.uid).Err(err).Msg("failed to save learning modules")
	}
}

func questionIDs(m models.Module) []string {
	ids := make([]string, len(m.Quiz))
	for i, q := range m.Quiz {
		ids[i] = q.ID
	}
	return ids
}
