package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/model"
)

// tokenKeyPrefix namespaces the cache entries in Redis.
const tokenKeyPrefix = "contacts:token:"

// TokenCache remembers which account a token was resolved to, so that repeated requests with the
// same token do not hit the users table. A cached account keeps its role and confirmed flag until
// the entry expires: a change to either takes effect for that token only after the TTL passed
// (TOKEN_CACHE_TTL). Keep the TTL short where role changes must be effective immediately.
type TokenCache interface {
	// Get returns the cached account and true, or false if there is no entry.
	Get(ctx context.Context, token string) (model.Account, bool, error)
	Set(ctx context.Context, token string, account model.Account, ttl time.Duration) error
}

// RedisTokenCache is a TokenCache backed by Redis. Tokens are stored as SHA-256 hashes only.
type RedisTokenCache struct {
	client *redis.Client
}

func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisTokenCache) Get(ctx context.Context, token string) (model.Account, bool, error) {
	data, err := c.client.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Account{}, false, nil
	}
	if err != nil {
		return model.Account{}, false, fmt.Errorf("read token cache: %w", err)
	}
	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return model.Account{}, false, fmt.Errorf("decode cached account: %w", err)
	}
	return account, true, nil
}

func (c *RedisTokenCache) Set(ctx context.Context, token string, account model.Account, ttl time.Duration) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	return c.client.Set(ctx, tokenKey(token), data, ttl).Err()
}
