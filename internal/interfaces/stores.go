package interfaces

import (
	"context"

	"github.com/bobmcallan/paisa-buddy/internal/models"
)

// PortfolioStore persists a user's portfolio snapshot.
type PortfolioStore interface {
	LoadPortfolio(ctx context.Context, uid string) (models.Portfolio, error)
	SavePortfolio(ctx context.Context, uid string, p models.Portfolio) error
}

// BudgetStore persists a user's budget snapshot.
type BudgetStore interface {
	LoadBudget(ctx context.Context, uid string) (models.Budget, error)
	SaveBudget(ctx context.Context, uid string, b models.Budget) error
}

// LearningStore persists module progress and per-question quiz answers.
type LearningStore interface {
	LoadModules(ctx context.Context, uid string) ([]models.Module, error)
	SaveModules(ctx context.Context, uid string, modules []models.Module) error
	// LoadAnswers returns the stored option for each answered question id.
	LoadAnswers(ctx context.Context, uid, moduleID string, questionIDs []string) (map[string]string, error)
	SaveAnswer(ctx context.Context, uid, moduleID, questionID, option string) error
	ClearAnswers(ctx context.Context, uid, moduleID string, questionIDs []string) error
}

// ProfileStore persists the per-user profile record.
type ProfileStore interface {
	LoadProfile(ctx context.Context, uid string) (models.Profile, error)
	SaveProfile(ctx context.Context, p models.Profile) error
}

// IdentityProvider authenticates users. Implementations may be remote; the
// bundled one stores accounts in the key-value store.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, displayName string) (models.Identity, error)
	SignIn(ctx context.Context, email, password string) (models.Identity, error)
	Lookup(ctx context.Context, uid string) (models.Identity, error)
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	SendEmailVerification(ctx context.Context, uid string) error
	VerifyEmail(ctx context.Context, uid, code string) error
}
