// Package seed holds the starter datasets every new workspace begins with
// and imports development accounts.
package seed

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/importer"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
)

const usersFileName = "import/users.json"

// DevUsers imports accounts from import/users.json. Non-fatal: problems are
// logged and startup continues.
func DevUsers(ctx context.Context, provider interfaces.IdentityProvider, logger *common.Logger) {
	path := findUsersFile()
	if path == "" {
		logger.Warn().Msg("seed: import/users.json not found, skipping dev user seeding")
		return
	}

	users, err := importer.LoadUsers(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("seed: failed to load users file")
		return
	}
	if len(users) == 0 {
		logger.Warn().Msg("seed: users file is empty, skipping dev user seeding")
		return
	}

	n, err := importer.ImportUsers(ctx, provider, logger, users)
	if err != nil {
		logger.Warn().Err(err).Int("imported", n).Msg("seed: dev user import stopped early")
		return
	}
	logger.Info().Int("users", n).Msg("seed: dev users imported")
}

// findUsersFile searches for import/users.json relative to the executable
// directory first, then falls back to the current working directory.
func findUsersFile() string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), usersFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if _, err := os.Stat(usersFileName); err == nil {
		return usersFileName
	}
	return ""
}
