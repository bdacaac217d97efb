package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/contact-harvester/internal/auth"
	"github.com/octobees/contact-harvester/internal/config"
)

func newContext(t *testing.T, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	c, rec := newContext(t, nil)

	if err := RequestID()(okHandler)(c); err != nil {
		t.Fatalf("middleware failed: %v", err)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("response should carry a generated request id")
	}
	if RequestIDFromContext(c) != rec.Header().Get("X-Request-ID") {
		t.Fatal("context and response header should agree")
	}
}

func TestRequestIDEchoedWhenProvided(t *testing.T) {
	c, rec := newContext(t, map[string]string{"X-Request-ID": "caller-id-1"})

	if err := RequestID()(okHandler)(c); err != nil {
		t.Fatalf("middleware failed: %v", err)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "caller-id-1" {
		t.Fatalf("caller id not preserved: %q", got)
	}
}

func TestJWTMiddleware(t *testing.T) {
	manager := authpkg.NewJWTManager("unit-test-secret", time.Hour)
	token, err := manager.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.authHeader != "" {
				headers["Authorization"] = tt.authHeader
			}
			c, rec := newContext(t, headers)

			if err := JWT(manager)(okHandler)(c); err != nil {
				t.Fatalf("middleware failed: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if role, _ := c.Get(ContextKeyUserRole).(string); role != "admin" {
					t.Fatalf("role not stored in context: %q", role)
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       interface{}
		wantStatus int
	}{
		{"matching role", "admin", http.StatusOK},
		{"wrong role", "viewer", http.StatusForbidden},
		{"missing role", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(t, nil)
			if tt.role != nil {
				c.Set(ContextKeyUserRole, tt.role)
			}

			if err := RequireRole("admin")(okHandler)(c); err != nil {
				t.Fatalf("middleware failed: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestControlRateLimiterRejectsBurstOverflow(t *testing.T) {
	mw := ControlRateLimiter(config.RateLimitConfig{Requests: 2, Interval: time.Minute})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		c, rec := newContext(t, nil)
		if err := mw(okHandler)(c); err != nil {
			t.Fatalf("middleware failed: %v", err)
		}
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("burst within budget rejected: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited, got %v", statuses)
	}
}

func TestControlRateLimiterDisabledWithoutConfig(t *testing.T) {
	mw := ControlRateLimiter(config.RateLimitConfig{})
	for i := 0; i < 5; i++ {
		c, rec := newContext(t, nil)
		if err := mw(okHandler)(c); err != nil {
			t.Fatalf("middleware failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("unconfigured limiter should pass everything, got %d", rec.Code)
		}
	}
}
