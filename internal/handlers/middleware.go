package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fhamyla/LexiLearn/internal/models"
	"github.com/fhamyla/LexiLearn/internal/security"
	"github.com/fhamyla/LexiLearn/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const AccountContextKey ContextKey = "account"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens   *security.TokenManager
	accounts service.AccountStore
	limiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenManager, accounts service.AccountStore, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		tokens:   tokens,
		accounts: accounts,
		limiter:  limiter,
	}
}

// RequireAuth requires a valid bearer token and loads the account it names.
// The account is re-read on every request so a disable or delete takes
// effect immediately, not at token expiry.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.verifyBearer(w, r)
		if !ok {
			return
		}

		account, err := m.accounts.GetByEmail(claims.Subject)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
			return
		}
		if account == nil || account.Status != models.StatusActive || !account.EmailVerified {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, nil)
			return
		}

		ctx := context.WithValue(r.Context(), AccountContextKey, account)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole is RequireAuth plus a role check
func (m *Middleware) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		account := GetAccountFromContext(r.Context())
		if account == nil || account.Role != role {
			respondWithError(w, http.StatusForbidden, ErrForbidden, nil)
			return
		}
		next(w, r)
	})
}

// RateLimit rejects clients that exceed the per-IP request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.ClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, nil)
			return
		}
		next(w, r)
	}
}

func (m *Middleware) verifyBearer(w http.ResponseWriter, r *http.Request) (*security.Claims, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return nil, false
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return nil, false
	}
	return claims, true
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetAccountFromContext retrieves the authenticated account from the request context
func GetAccountFromContext(ctx context.Context) *models.Account {
	account, ok := ctx.Value(AccountContextKey).(*models.Account)
	if !ok {
		return nil
	}
	return account
}
