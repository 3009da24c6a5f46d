package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/models"
)

// ErrCorrupt wraps snapshot values that no longer decode.
var ErrCorrupt = errors.New("corrupt snapshot")

// SnapshotStore persists ledger snapshots as JSON values in a key-value store.
// It implements the portfolio, budget, learning and profile store ports.
type SnapshotStore struct {
	kv interfaces.KeyValueStorage
}

// NewSnapshotStore wraps kv.
func NewSnapshotStore(kv interfaces.KeyValueStorage) *SnapshotStore {
	return &SnapshotStore{kv: kv}
}

func portfolioKey(uid string) string { return "portfolio:" + uid }
func budgetKey(uid string) string    { return "budget:" + uid }
func modulesKey(uid string) string   { return "learning:" + uid + ":modules" }
func profileKey(uid string) string   { return "profile:" + uid }

// AnswerKey is the per-question key "quiz-{moduleId}-q-{questionId}", namespaced by user.
func AnswerKey(uid, moduleID, questionID string) string {
	return fmt.Sprintf("learning:%s:quiz-%s-q-%s", uid, moduleID, questionID)
}

func (s *SnapshotStore) load(ctx context.Context, key string, v any) error {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}
	return nil
}

func (s *SnapshotStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(data))
}

func (s *SnapshotStore) LoadPortfolio(ctx context.Context, uid string) (models.Portfolio, error) {
	var p models.Portfolio
	err := s.load(ctx, portfolioKey(uid), &p)
	return p, err
}

func (s *SnapshotStore) SavePortfolio(ctx context.Context, uid string, p models.Portfolio) error {
	return s.save(ctx, portfolioKey(uid), p)
}

func (s *SnapshotStore) LoadBudget(ctx context.Context, uid string) (models.Budget, error) {
	var b models.Budget
	err := s.load(ctx, budgetKey(uid), &b)
	return b, err
}

func (s *SnapshotStore) SaveBudget(ctx context.Context, uid string, b models.Budget) error {
	return s.save(ctx, budgetKey(uid), b)
}

func (s *SnapshotStore) LoadModules(ctx context.Context, uid string) ([]models.Module, error) {
	var modules []models.Module
	err := s.load(ctx, modulesKey(uid), &modules)
	return modules, err
}

func (s *SnapshotStore) SaveModules(ctx context.Context, uid string, modules []models.Module) error {
	return s.save(ctx, modulesKey(uid), modules)
}

func answerPrefix(uid, moduleID string) string {
	return fmt.Sprintf("learning:%s:quiz-%s-q-", uid, moduleID)
}

// LoadAnswers returns stored options for the listed questions. Answers
// for questions no longer in the module are ignored.
func (s *SnapshotStore) LoadAnswers(ctx context.Context, uid, moduleID string, questionIDs []string) (map[string]string, error) {
	prefix := answerPrefix(uid, moduleID)
	stored, err := s.kv.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}
	answers := make(map[string]string, len(stored))
	for _, qid := range questionIDs {
		if v, ok := stored[prefix+qid]; ok {
			answers[qid] = v
		}
	}
	return answers, nil
}

func (s *SnapshotStore) SaveAnswer(ctx context.Context, uid, moduleID, questionID, option string) error {
	return s.kv.Set(ctx, AnswerKey(uid, moduleID, questionID), option)
}

// ClearAnswers removes every stored answer for the module, including
// answers to questions that are no longer listed.
func (s *SnapshotStore) ClearAnswers(ctx context.Context, uid, moduleID string, questionIDs []string) error {
	stored, err := s.kv.Scan(ctx, answerPrefix(uid, moduleID))
	if err != nil {
		return err
	}
	keys := make(map[string]struct{}, len(stored)+len(questionIDs))
	for k := range stored {
		keys[k] = struct{}{}
	}
	for _, qid := range questionIDs {
		keys[AnswerKey(uid, moduleID, qid)] = struct{}{}
	}
	for k := range keys {
		if err := s.kv.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// CountProfiles reports how many accounts have a stored profile.
func (s *SnapshotStore) CountProfiles(ctx context.Context) (int, error) {
	profiles, err := s.kv.Scan(ctx, "profile:")
	if err != nil {
		return 0, err
	}
	return len(profiles), nil
}

func (s *SnapshotStore) LoadProfile(ctx context.Context, uid string) (models.Profile, error) {
	var p models.Profile
	err := s.load(ctx, profileKey(uid), &p)
	return p, err
}

func (s *SnapshotStore) SaveProfile(ctx context.Context, p models.Profile) error {
	if p.UID == "" {
		return fmt.Errorf("profile has no uid")
	}
	return s.save(ctx, profileKey(p.UID), p)
}

var (
	_ interfaces.PortfolioStore = (*SnapshotStore)(nil)
	_ interfaces.BudgetStore    = (*SnapshotStore)(nil)
	_ interfaces.LearningStore  = (*SnapshotStore)(nil)
	_ interfaces.ProfileStore   = (*SnapshotStore)(nil)
)
