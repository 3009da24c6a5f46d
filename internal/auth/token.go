package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/models"
)

// ErrInvalidToken wraps every token validation failure.
var ErrInvalidToken = errors.New("invalid session token")

const tokenHeader = `{"alg":"HS256","typ":"JWT"}`

// Claims is the session token payload.
type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Iss   string `json:"iss"`
	Iat   int64  `json:"iat"`
	Exp   int64  `json:"exp"`
}

// Tokens mints and validates HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokens(secret []byte, ttl time.Duration, issuer string) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: secret, ttl: ttl, issuer: issuer, now: time.Now}
}

// Mint creates a signed token for the identity.
func (t *Tokens) Mint(id models.Identity) (string, error) {
	now := t.now()
	claims := Claims{
		Sub:   id.UID,
		Email: id.Email,
		Name:  id.DisplayName,
		Iss:   t.issuer,
		Iat:   now.Unix(),
		Exp:   now.Add(t.ttl).Unix(),
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token claims: %w", err)
	}

	sigInput := base64.RawURLEncoding.EncodeToString([]byte(tokenHeader)) + "." +
		base64.RawURLEncoding.EncodeToString(claimsJSON)
	return sigInput + "." + t.sign(sigInput), nil
}

// Validate checks the signature, then the expiry.
func (t *Tokens) Validate(token string) (*Claims, error) {
	parts := strings.SplitN(token, ".", 4)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 parts, got %d", ErrInvalidToken, len(parts))
	}

	actualSig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: bad signature encoding", ErrInvalidToken)
	}
	expectedSig, _ := base64.RawURLEncoding.DecodeString(t.sign(parts[0] + "." + parts[1]))
	if !hmac.Equal(expectedSig, actualSig) {
		return nil, fmt.Errorf("%w: bad signature", ErrInvalidToken)
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad payload encoding", ErrInvalidToken)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: bad payload", ErrInvalidToken)
	}

	if claims.Sub == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	if claims.Exp == 0 || claims.Exp < t.now().Unix() {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	return &claims, nil
}

func (t *Tokens) sign(input string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
