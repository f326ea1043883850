package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleOAuth holds the Google sign-in configuration. Guardians can sign in
// with Google instead of the OTP flow; Google has already verified the email.
type googleOAuth struct {
	config          *oauth2.Config
	redirectBaseURL string
}

// NewGoogleOAuth builds the Google sign-in configuration. Returns nil when
// no client credentials are configured, which disables the flow.
func NewGoogleOAuth(clientID, clientSecret, redirectBaseURL string) *googleOAuth {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &googleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		redirectBaseURL: redirectBaseURL,
	}
}

// StartGoogleOAuth handles GET /auth/google/start
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		respondWithError(w, http.StatusBadRequest, "Google sign-in is not configured", nil)
		return
	}

	state := uuid.NewString()
	setTempCookie(w, "oauth_state", state, 10*time.Minute)

	config := *h.oauth.config
	config.RedirectURL = h.oauth.redirectURL(r)

	http.Redirect(w, r, config.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// GoogleOAuthCallback handles GET /auth/google/callback
func (h *AuthHandler) GoogleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		respondWithError(w, http.StatusBadRequest, "Google sign-in is not configured", nil)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", nil)
		return
	}
	clearTempCookie(w, "oauth_state")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.oauth.config
	config.RedirectURL = h.oauth.redirectURL(r)

	oauthToken, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", err)
		return
	}

	userInfo, err := fetchGoogleUser(ctx, oauthToken)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to fetch Google user info", err)
		return
	}

	account, err := h.accountService.SignInWithGoogle(ctx, userInfo.Email, userInfo.GivenName, userInfo.FamilyName)
	if err != nil {
		respondWithError(w, http.StatusForbidden, err.Error(), nil)
		return
	}

	token, err := h.tokens.Issue(account.Email, account.Role)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"account": accountView(account),
	})
}

type googleUserInfo struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if strings.TrimSpace(info.Email) == "" {
		return nil, fmt.Errorf("user info has no email")
	}
	return &info, nil
}

func (g *googleOAuth) redirectURL(r *http.Request) string {
	base := strings.TrimRight(strings.TrimSpace(g.redirectBaseURL), "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return base + "/auth/google/callback"
}

func setTempCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTempCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
