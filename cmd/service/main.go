package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/auth"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/config"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/repository"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/service"
)

// Usage example on the command line:
// > PORT=8080 DBUSER=dirk DBPWD=bullo92 JWT_SECRET=... REDIS_ADDR=localhost:6379 GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	sqlDB, err := service.CreateDatabase(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	contacts, err := repository.NewContactRepository(db)
	if err != nil {
		slog.Error("failed to prepare contact statements", "error", err)
		os.Exit(1)
	}
	defer contacts.Close()

	accounts, err := auth.NewAccountStore(db)
	if err != nil {
		slog.Error("failed to prepare account statements", "error", err)
		os.Exit(1)
	}
	defer accounts.Close()

	var cache auth.TokenCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		cache = auth.NewRedisTokenCache(client)
	} else {
		slog.Info("REDIS_ADDR not set, token cache disabled")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
	authenticator := auth.NewAuthenticator(tokens, accounts, cache, cfg.TokenCacheTTL)
	router := service.New(contacts).SetupHttpRouter(authenticator, cfg.GinLogging)

	addr := ":" + strconv.Itoa(cfg.Port)
	slog.Info("contacts service listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
