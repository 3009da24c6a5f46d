package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/config"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
)

func newDevApp(t *testing.T) *App {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Environment = "dev"
	cfg.Storage.Backend = "memory"

	a, err := New(t.Context(), cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestClose_WaitsForBackgroundWork(t *testing.T) {
	a := newDevApp(t)

	started := make(chan struct{})
	finished := make(chan struct{})
	a.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		// storage must still be open while background work winds down
		if _, err := a.Storage.KeyValueStorage().Get(context.Background(), "uid:nobody"); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("storage closed under background work: %v", err)
		}
		close(finished)
	})
	<-started

	done := make(chan error, 1)
	go func() { done <- a.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	select {
	case <-finished:
	default:
		t.Error("Close returned before background work finished")
	}
}

func TestNew_DoesNotStartSeeding(t *testing.T) {
	a := newDevApp(t)

	// nothing is tracked until the server asks for seeding
	waited := make(chan struct{})
	go func() {
		a.bg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Error("New left background work running")
	}

	a.SeedDevUsers()
	if err := a.Close(); err != nil {
		t.Errorf("Close after seeding: %v", err)
	}
}
