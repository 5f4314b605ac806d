package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session_token"

// ErrNoSession signals an absent or invalid session; callers decide
// between a login redirect and a 401 depending on the surface.
var ErrNoSession = errors.New("no valid session")

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies the HS256 session tokens that stand in
// for the identity provider's ambient session.
type Sessions struct {
	secret        []byte
	ttl           time.Duration
	secureCookies bool
}

func NewSessions(secret string, ttl time.Duration, secureCookies bool) *Sessions {
	return &Sessions{
		secret:        []byte(secret),
		ttl:           ttl,
		secureCookies: secureCookies,
	}
}

// Issue signs a token for the identity and sets the session cookie.
func (s *Sessions) Issue(w http.ResponseWriter, identity domain.Identity) error {
	claims := &sessionClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.ttl),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Resolve returns the identity held by the request's session cookie,
// or ErrNoSession when absent, expired or tampered with.
func (s *Sessions) Resolve(r *http.Request) (domain.Identity, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return domain.Identity{}, ErrNoSession
	}
	return s.Verify(cookie.Value)
}

// Verify parses and validates a raw session token.
func (s *Sessions) Verify(raw string) (domain.Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return domain.Identity{}, ErrNoSession
	}
	return domain.Identity{ID: claims.Subject, Email: claims.Email}, nil
}

// Clear signs the user out by expiring the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
