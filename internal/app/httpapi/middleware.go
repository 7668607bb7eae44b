package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/aurawell/aura/internal/app/metrics"
)

// openPaths skip authentication: probes and scrapes carry no credentials.
var openPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// WrapWithAuth enforces bearer authentication. A request passes with either a
// token from the static allow-list or a valid HS256 JWT signed with secret.
// Either mechanism may be disabled by passing an empty list or nil secret;
// with both disabled every request passes.
func WrapWithAuth(next http.Handler, staticTokens []string, secret []byte) http.Handler {
	allowed := make(map[string]struct{}, len(staticTokens))
	for _, t := range staticTokens {
		t = strings.TrimSpace(t)
		if t != "" {
			allowed[t] = struct{}{}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, open := openPaths[r.URL.Path]; open {
			next.ServeHTTP(w, r)
			return
		}
		if len(allowed) == 0 && len(secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, ok := allowed[token]; ok {
			next.ServeHTTP(w, r)
			return
		}
		if len(secret) > 0 && validJWT(token, secret) {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid bearer token")
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		// Browsers cannot set headers on websocket dials; allow the token as
		// a query parameter for the chat endpoint.
		return r.URL.Query().Get("token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func validJWT(token string, secret []byte) bool {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	return err == nil && parsed.Valid
}

// WithCORS answers preflight requests and stamps the allow headers. An empty
// origin list allows any origin.
func WithCORS(next http.Handler, origins []string) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if len(allowed) == 0 {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isAIPath reports whether the route fans out to the model backend, which is
// both slow and billed per call.
func isAIPath(path string) bool {
	switch {
	case strings.HasSuffix(path, "/tasks/generate"),
		strings.HasSuffix(path, "/stats/import"),
		strings.Contains(path, "/submit"),
		path == "/report/summary",
		path == "/avatar":
		return true
	}
	return false
}

// WithRateLimit throttles model-backed routes with a shared token bucket.
// Other routes pass through untouched.
func WithRateLimit(next http.Handler, rps float64, burst int) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAIPath(r.URL.Path) && !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithMetrics instruments requests with the registry's HTTP collectors. The
// chat endpoint is skipped; hijacked websocket connections cannot go through
// the recording writer.
func WithMetrics(next http.Handler, m *metrics.Metrics) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/chat") {
			next.ServeHTTP(w, r)
			return
		}

		m.HTTPInflight.Inc()
		defer m.HTTPInflight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
