package auth

import (
	"encoding/base64"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/models"
)

func TestTokens_ConcurrentMintValidate(t *testing.T) {
	tokens := NewTokens([]byte("stress-secret"), time.Hour, "paisa-buddy")

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uid := fmt.Sprintf("uid-%d", i)
			tok, err := tokens.Mint(models.Identity{UID: uid})
			if err != nil {
				errs <- err
				return
			}
			claims, err := tokens.Validate(tok)
			if err != nil {
				errs <- err
				return
			}
			if claims.Sub != uid {
				errs <- fmt.Errorf("expected %s, got %s", uid, claims.Sub)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestTokens_ForgedHeaders(t *testing.T) {
	tokens := NewTokens([]byte("stress-secret"), time.Hour, "")
	good, _ := tokens.Mint(testIdentity)
	parts := strings.Split(good, ".")

	enc := base64.RawURLEncoding.EncodeToString
	forged := []string{
		enc([]byte(`{"alg":"none","typ":"JWT"}`)) + "." + parts[1] + ".",
		enc([]byte(`{"alg":"none","typ":"JWT"}`)) + "." + parts[1] + "." + parts[2],
		parts[0] + "." + parts[1] + "." + strings.ToUpper(parts[2]),
		parts[0] + "." + enc([]byte(`{"sub":"","exp":9999999999}`)) + "." + parts[2],
		strings.Repeat("a", 4096) + "." + parts[1] + "." + parts[2],
	}
	for i, tok := range forged {
		if _, err := tokens.Validate(tok); err == nil {
			t.Errorf("forged token %d accepted", i)
		}
	}
}

func TestSessions_HostileAuthorizationHeaders(t *testing.T) {
	s := NewSessions(NewTokens([]byte("stress-secret"), time.Hour, ""), "", false)

	headers := []string{
		"Bearer",
		"Bearer ",
		"bearer abc",
		"Basic dXNlcjpwYXNz",
		"Bearer " + strings.Repeat("x", 1<<16),
		"Bearer a.b.c\r\nX-Injected: 1",
	}
	for _, h := range headers {
		req := httptest.NewRequest("GET", "/api/portfolio", nil)
		req.Header["Authorization"] = []string{h}
		if uid, ok := s.Resolve(req); ok || uid != "" {
			t.Errorf("header %.20q resolved to %q", h, uid)
		}
	}
}
