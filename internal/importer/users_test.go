package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/paisa-buddy/internal/auth"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/storage"
	"github.com/bobmcallan/paisa-buddy/internal/storage/memory"
)

func writeUsers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadUsers(t *testing.T) {
	path := writeUsers(t, `{"users":[{"email":"dev@example.com","password":"devpass1","display_name":"Dev"}]}`)

	users, err := LoadUsers(path)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(users) != 1 || users[0].Email != "dev@example.com" || users[0].DisplayName != "Dev" {
		t.Errorf("unexpected users %+v", users)
	}
}

func TestLoadUsers_Errors(t *testing.T) {
	if _, err := LoadUsers("/nonexistent/users.json"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadUsers(writeUsers(t, "not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestImportUsers_SkipsExisting(t *testing.T) {
	kv := memory.NewKVStorage()
	logger := common.NewSilentLogger()
	provider := auth.NewLocalProvider(kv, storage.NewSnapshotStore(kv), logger)
	ctx := context.Background()

	users := []User{
		{Email: "a@example.com", Password: "password1"},
		{Email: "b@example.com", Password: "password2", DisplayName: "Bee"},
	}
	n, err := ImportUsers(ctx, provider, logger, users)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 imported, got %d (%v)", n, err)
	}

	n, err = ImportUsers(ctx, provider, logger, users)
	if err != nil || n != 0 {
		t.Errorf("second import should skip everyone, got %d (%v)", n, err)
	}

	if _, err := provider.SignIn(ctx, "b@example.com", "password2"); err != nil {
		t.Errorf("imported user cannot sign in: %v", err)
	}
}

func TestImportUsers_StopsOnInvalidUser(t *testing.T) {
	kv := memory.NewKVStorage()
	logger := common.NewSilentLogger()
	provider := auth.NewLocalProvider(kv, storage.NewSnapshotStore(kv), logger)

	n, err := ImportUsers(context.Background(), provider, logger, []User{
		{Email: "ok@example.com", Password: "password1"},
		{Email: "bad", Password: "password1"},
	})
	if err == nil || n != 1 {
		t.Errorf("expected error after 1 import, got %d (%v)", n, err)
	}
}

func TestImportUsers_StopsWhenCancelled(t *testing.T) {
	kv := memory.NewKVStorage()
	logger := common.NewSilentLogger()
	provider := auth.NewLocalProvider(kv, storage.NewSnapshotStore(kv), logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := ImportUsers(ctx, provider, logger, []User{{Email: "a@example.com", Password: "password1"}})
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Errorf("expected context.Canceled before any import, got %d (%v)", n, err)
	}
}
