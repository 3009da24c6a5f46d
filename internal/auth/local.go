package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCode        = errors.New("code is invalid or has expired")
	ErrUnknownUser        = errors.New("unknown user")
)

const (
	minPasswordLen  = 6
	codeTTL         = 15 * time.Minute
	maxCodeAttempts = 5
)

// LocalProvider keeps accounts in the key-value store. One-time codes are
// logged rather than mailed.
type LocalProvider struct {
	// mu makes the email check and account write of SignUp, and the
	// read-compare-update of a code, atomic.
	mu       sync.Mutex
	kv       interfaces.KeyValueStorage
	profiles interfaces.ProfileStore
	logger   *common.Logger
	now      func() time.Time
}

func NewLocalProvider(kv interfaces.KeyValueStorage, profiles interfaces.ProfileStore, logger *common.Logger) *LocalProvider {
	return &LocalProvider{kv: kv, profiles: profiles, logger: logger, now: time.Now}
}

func userKey(email string) string { return "user:" + email }
func uidKey(uid string) string    { return "uid:" + uid }
func codeKey(p models.CodePurpose, uid string) string {
	return "code:" + string(p) + ":" + uid
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword truncates to bcrypt's 72-byte limit so long passwords still hash.
func hashPassword(password string) (string, error) {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(b, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), b) == nil
}

// SignUp creates the account and its profile record, then sends a verification code.
func (p *LocalProvider) SignUp(ctx context.Context, email, password, displayName string) (models.Identity, error) {
	email = normalizeEmail(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return models.Identity{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return models.Identity{}, ErrWeakPassword
	}
	hash, err := hashPassword(password)
	if err != nil {
		return models.Identity{}, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}
	u := models.User{
		UID:         uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
		Password:    hash,
		CreatedAt:   p.now().UTC(),
	}
	if err := p.createUser(ctx, u); err != nil {
		return models.Identity{}, err
	}

	if err := p.profiles.SaveProfile(ctx, models.Profile{
		UID:         u.UID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}); err != nil {
		p.logger.Error().Str("uid", u.UID).Err(err).Msg("failed to write profile")
	}

	p.logger.Info().Str("uid", u.UID).Str("email", email).Msg("user signed up")
	if err := p.issueCode(ctx, u, models.CodeVerifyEmail); err != nil {
		p.logger.Warn().Str("uid", u.UID).Err(err).Msg("failed to send verification code")
	}
	return u.Identity(), nil
}

// SignIn checks the password. Unknown emails and wrong passwords look the same.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	u, err := p.userByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, err
	}
	if !checkPassword(u.Password, password) {
		return models.Identity{}, ErrInvalidCredentials
	}
	return u.Identity(), nil
}

func (p *LocalProvider) Lookup(ctx context.Context, uid string) (models.Identity, error) {
	u, err := p.userByUID(ctx, uid)
	if err != nil {
		return models.Identity{}, err
	}
	return u.Identity(), nil
}

// SendPasswordReset issues a reset code. It succeeds silently for unknown emails.
func (p *LocalProvider) SendPasswordReset(ctx context.Context, email string) error {
	u, err := p.userByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil
		}
		return err
	}
	return p.issueCode(ctx, u, models.CodeResetPassword)
}

func (p *LocalProvider) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}
	u, err := p.userByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if err := p.consumeCode(ctx, u.UID, models.CodeResetPassword, code); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	if err := p.saveUser(ctx, u); err != nil {
		return err
	}
	p.logger.Info().Str("uid", u.UID).Msg("password reset")
	return nil
}

func (p *LocalProvider) SendEmailVerification(ctx context.Context, uid string) error {
	u, err := p.userByUID(ctx, uid)
	if err != nil {
		return err
	}
	if u.EmailVerified {
		return nil
	}
	return p.issueCode(ctx, u, models.CodeVerifyEmail)
}

func (p *LocalProvider) VerifyEmail(ctx context.Context, uid, code string) error {
	u, err := p.userByUID(ctx, uid)
	if err != nil {
		return err
	}
	if u.EmailVerified {
		return nil
	}
	if err := p.consumeCode(ctx, uid, models.CodeVerifyEmail, code); err != nil {
		return err
	}
	u.EmailVerified = true
	if err := p.saveUser(ctx, u); err != nil {
		return err
	}
	p.logger.Info().Str("uid", uid).Msg("email verified")
	return nil
}

func (p *LocalProvider) issueCode(ctx context.Context, u models.User, purpose models.CodePurpose) error {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	c := models.OneTimeCode{
		UID:       u.UID,
		Purpose:   purpose,
		Code:      fmt.Sprintf("%06d", n.Int64()),
		ExpiresAt: p.now().Add(codeTTL),
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, codeKey(purpose, u.UID), string(data)); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	p.logger.Info().
		Str("email", u.Email).
		Str("purpose", string(purpose)).
		Str("code", c.Code).
		Msg("one-time code issued (local provider: not mailed)")
	return nil
}

// createUser writes the account and its uid index unless the email is
// already registered.
func (p *LocalProvider) createUser(ctx context.Context, u models.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.kv.Get(ctx, userKey(u.Email)); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return fmt.Errorf("failed to look up %s: %w", u.Email, err)
	}
	if err := p.saveUser(ctx, u); err != nil {
		return err
	}
	if err := p.kv.Set(ctx, uidKey(u.UID), u.Email); err != nil {
		return fmt.Errorf("failed to index user %s: %w", u.UID, err)
	}
	return nil
}

// consumeCode deletes the code when it matches. A wrong guess is counted and
// the code is discarded after maxCodeAttempts misses or once it expires.
func (p *LocalProvider) consumeCode(ctx context.Context, uid string, purpose models.CodePurpose, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := codeKey(purpose, uid)
	raw, err := p.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	var c models.OneTimeCode
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return ErrInvalidCode
	}
	if p.now().After(c.ExpiresAt) {
		p.kv.Delete(ctx, key)
		return ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(c.Code), []byte(strings.TrimSpace(code))) != 1 {
		c.Attempts++
		if c.Attempts >= maxCodeAttempts {
			p.logger.Warn().
				Str("uid", uid).
				Str("purpose", string(purpose)).
				Msg("one-time code discarded after too many attempts")
			p.kv.Delete(ctx, key)
			return ErrInvalidCode
		}
		if data, err := json.Marshal(c); err == nil {
			p.kv.Set(ctx, key, string(data))
		}
		return ErrInvalidCode
	}
	return p.kv.Delete(ctx, key)
}

func (p *LocalProvider) userByEmail(ctx context.Context, email string) (models.User, error) {
	raw, err := p.kv.Get(ctx, userKey(email))
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return models.User{}, fmt.Errorf("corrupt user record %s: %w", email, err)
	}
	return u, nil
}

func (p *LocalProvider) userByUID(ctx context.Context, uid string) (models.User, error) {
	email, err := p.kv.Get(ctx, uidKey(uid))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: %s", ErrUnknownUser, uid)
		}
		return models.User{}, err
	}
	return p.userByEmail(ctx, email)
}

func (p *LocalProvider) saveUser(ctx context.Context, u models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := p.kv.Set(ctx, userKey(u.Email), string(data)); err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.Email, err)
	}
	return nil
}

var _ interfaces.IdentityProvider = (*LocalProvider)(nil)
