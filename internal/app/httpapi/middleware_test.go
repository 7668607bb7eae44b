package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestWrapWithAuthJWT(t *testing.T) {
	secret := []byte("super-secret")
	handler := WrapWithAuth(okHandler(), nil, secret)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alex",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/score", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid jwt: got %d, want 200", rec.Code)
	}

	// A token signed with another key fails.
	bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alex"}).SignedString([]byte("other"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/score", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged jwt: got %d, want 401", rec.Code)
	}
}

func TestWrapWithAuthQueryToken(t *testing.T) {
	handler := WrapWithAuth(okHandler(), []string{"ws-token"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/chat?token=ws-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query token: got %d, want 200", rec.Code)
	}
}

func TestWithRateLimitThrottlesAIRoutes(t *testing.T) {
	handler := WithRateLimit(okHandler(), 1, 1)

	// First model-backed call passes, the immediate second is throttled.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/avatar", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first call: got %d, want 200", rec.Code)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/avatar", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second call: got %d, want 429", rec.Code)
	}

	// Plain routes are never throttled.
	for i := 0; i < 10; i++ {
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/score", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("plain route throttled on attempt %d", i)
		}
	}
}

func TestWithCORS(t *testing.T) {
	handler := WithCORS(okHandler(), []string{"https://app.example.edu"})

	req := httptest.NewRequest(http.MethodOptions, "/score", nil)
	req.Header.Set("Origin", "https://app.example.edu")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: got %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.edu" {
		t.Fatalf("allow origin: %q", got)
	}

	// Unlisted origins get no allow header.
	req = httptest.NewRequest(http.MethodGet, "/score", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}
