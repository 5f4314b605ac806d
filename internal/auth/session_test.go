package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
)

func TestIssueAndResolve(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour, false)

	rec := httptest.NewRecorder()
	identity := domain.Identity{ID: "u1", Email: "u1@example.com"}
	if err := sessions.Issue(rec, identity); err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie {
		t.Fatalf("Issue() set cookies %v, want one %s cookie", cookies, SessionCookie)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])

	resolved, err := sessions.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if resolved != identity {
		t.Errorf("Resolve() = %+v, want %+v", resolved, identity)
	}
}

func TestResolveRejections(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour, false)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{
			name:  "no cookie",
			setup: func(*http.Request) {},
		},
		{
			name: "garbage token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-jwt"})
			},
		},
		{
			name: "wrong signing key",
			setup: func(r *http.Request) {
				other := NewSessions("other-secret", time.Hour, false)
				rec := httptest.NewRecorder()
				if err := other.Issue(rec, domain.Identity{ID: "u1"}); err != nil {
					t.Fatalf("Issue() failed: %v", err)
				}
				r.AddCookie(rec.Result().Cookies()[0])
			},
		},
		{
			name: "expired token",
			setup: func(r *http.Request) {
				expired := NewSessions("test-secret", -time.Minute, false)
				rec := httptest.NewRecorder()
				if err := expired.Issue(rec, domain.Identity{ID: "u1"}); err != nil {
					t.Fatalf("Issue() failed: %v", err)
				}
				r.AddCookie(rec.Result().Cookies()[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			tt.setup(req)
			if _, err := sessions.Resolve(req); !errors.Is(err, ErrNoSession) {
				t.Errorf("Resolve() error = %v, want ErrNoSession", err)
			}
		})
	}
}

func TestClearExpiresCookie(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour, false)
	rec := httptest.NewRecorder()
	sessions.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Clear() set %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge >= 0 && !cookies[0].Expires.Before(time.Now()) {
		t.Error("Clear() did not expire the session cookie")
	}
}
