package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/MrSnakeDoc/smartmark/internal/domain"
	"github.com/MrSnakeDoc/smartmark/internal/utils"
)

const (
	// StateCookie carries the CSRF token across the OAuth round trip.
	StateCookie = "oauthstate"

	userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuth drives the Google sign-in round trip: redirect out with a
// state cookie, exchange the returned code, resolve the identity.
type OAuth struct {
	config        *oauth2.Config
	secureCookies bool
	httpClient    *http.Client
}

type Options struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	SecureCookies bool
}

func NewOAuth(opts Options) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		secureCookies: opts.SecureCookies,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// LoginURL generates a fresh state token, sets it as a short-lived
// cookie and returns the provider URL to redirect the browser to.
func (o *OAuth) LoginURL(w http.ResponseWriter) string {
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   o.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return o.config.AuthCodeURL(state)
}

// Exchange validates the state echoed by the provider, trades the code
// for a token and resolves the authenticated identity.
func (o *OAuth) Exchange(ctx context.Context, r *http.Request) (domain.Identity, error) {
	stateCookie, err := r.Cookie(StateCookie)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("missing oauth state cookie: %w", err)
	}
	if r.FormValue("state") != stateCookie.Value {
		return domain.Identity{}, fmt.Errorf("oauth state mismatch")
	}

	token, err := o.config.Exchange(ctx, r.FormValue("code"))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("code exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint+"?access_token="+token.AccessToken, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer utils.Close(resp.Body)

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return domain.Identity{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if user.ID == "" {
		return domain.Identity{}, fmt.Errorf("userinfo response missing user id")
	}

	return domain.Identity{ID: user.ID, Email: user.Email}, nil
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
