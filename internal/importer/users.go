// Package importer loads development accounts from a JSON file.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/bobmcallan/paisa-buddy/internal/auth"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
)

// User is one entry of the import file. Password is plain text.
type User struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type usersFile struct {
	Users []User `json:"users"`
}

// LoadUsers reads and parses a users file.
func LoadUsers(path string) ([]User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file %s: %w", path, err)
	}
	var f usersFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", path, err)
	}
	return f.Users, nil
}

// ImportUsers signs up every user through the identity provider. Existing
// accounts (matched by email) are skipped.
func ImportUsers(ctx context.Context, provider interfaces.IdentityProvider, logger *common.Logger, users []User) (imported int, err error) {
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		id, err := provider.SignUp(ctx, u.Email, u.Password, u.DisplayName)
		if errors.Is(err, auth.ErrEmailTaken) {
			logger.Debug().Str("email", u.Email).Msg("user already exists, skipping")
			continue
		}
		if err != nil {
			return imported, fmt.Errorf("failed to import user %s: %w", u.Email, err)
		}
		imported++
		logger.Info().Str("email", u.Email).Str("uid", id.UID).Msg("user imported")
	}
	return imported, nil
}
