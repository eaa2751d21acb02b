package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/model"
)

// accountKey is the gin context key under which the authenticated account is stored.
const accountKey = "account"

// AccountLoader loads an account by its id.
type AccountLoader interface {
	AccountById(ctx context.Context, id int64) (model.Account, error)
}

// Authenticator turns bearer tokens into accounts.
type Authenticator struct {
	tokens   *TokenService
	accounts AccountLoader
	cache    TokenCache
	cacheTTL time.Duration
}

// NewAuthenticator creates an Authenticator. The cache may be nil, in which case every request
// loads the account from the database.
func NewAuthenticator(tokens *TokenService, accounts AccountLoader, cache TokenCache, cacheTTL time.Duration) *Authenticator {
	return &Authenticator{tokens: tokens, accounts: accounts, cache: cache, cacheTTL: cacheTTL}
}

// Resolve validates the token and returns the account it belongs to. The signature and expiry
// are checked on every call, also for cached tokens.
func (a *Authenticator) Resolve(ctx context.Context, token string) (model.Account, error) {
	id, err := a.tokens.AccountId(token)
	if err != nil {
		return model.Account{}, err
	}
	if a.cache != nil {
		account, found, err := a.cache.Get(ctx, token)
		if err != nil {
			slog.Warn("token cache lookup failed", "error", err)
		} else if found && account.Id == id {
			return account, nil
		}
	}
	account, err := a.accounts.AccountById(ctx, id)
	if err != nil {
		return model.Account{}, err
	}
	if a.cache != nil {
		if err := a.cache.Set(ctx, token, account, a.cacheTTL); err != nil {
			slog.Warn("token cache update failed", "error", err)
		}
	}
	return account, nil
}

// Middleware rejects requests without a valid bearer token or with an unconfirmed account, and
// stores the account in the gin context otherwise.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		account, err := a.Resolve(c.Request.Context(), token)
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrUnknownAccount) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		if err != nil {
			slog.Error("could not resolve account", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "account lookup failed"})
			return
		}
		if !account.Confirmed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "email not confirmed"})
			return
		}
		c.Set(accountKey, account)
		c.Next()
	}
}

// RequireRole only lets accounts with one of the given roles pass. It must be registered after
// Middleware.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok || !slices.Contains(roles, account.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "operation not permitted"})
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the account stored by Middleware.
func CurrentAccount(c *gin.Context) (model.Account, bool) {
	value, exists := c.Get(accountKey)
	if !exists {
		return model.Account{}, false
	}
	account, ok := value.(model.Account)
	return account, ok
}
