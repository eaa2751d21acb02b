// Package config reads the service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all settings of the contacts service.
type Config struct {
	Port          int
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	GinLogging    bool
	JWTSecret     string
	JWTIssuer     string
	RedisAddr     string
	TokenCacheTTL time.Duration
}

// DSN returns the data source name for the MySQL driver.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBName)
}

// newViper sets up the defaults and binds the environment.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("DBHOST", "localhost:3306")
	v.SetDefault("DBNAME", "test")
	v.SetDefault("GIN_LOGGING", "on")
	v.SetDefault("JWT_ISSUER", "contacts-service")
	v.SetDefault("TOKEN_CACHE_TTL", "15m")
	v.AutomaticEnv()
	return v
}

// read copies the settings out of v.
func read(v *viper.Viper) Config {
	return Config{
		Port:          v.GetInt("PORT"),
		DBHost:        v.GetString("DBHOST"),
		DBUser:        v.GetString("DBUSER"),
		DBPassword:    v.GetString("DBPWD"),
		DBName:        v.GetString("DBNAME"),
		GinLogging:    !strings.EqualFold(v.GetString("GIN_LOGGING"), "off"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTIssuer:     v.GetString("JWT_ISSUER"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		TokenCacheTTL: v.GetDuration("TOKEN_CACHE_TTL"),
	}
}

// LoadDatabase reads the configuration without checking the settings that only the service
// needs. Tools that merely talk to the database use it.
func LoadDatabase() Config {
	return read(newViper())
}

// Load reads the configuration from the environment. JWT_SECRET is mandatory; REDIS_ADDR is
// optional and turns off the token cache when empty.
func Load() (Config, error) {
	v := newViper()
	cfg := read(v)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", v.GetString("PORT"))
	}
	if len(cfg.JWTSecret) < 32 {
		return Config{}, errors.New("JWT_SECRET must be at least 32 characters")
	}
	if cfg.TokenCacheTTL <= 0 {
		return Config{}, fmt.Errorf("invalid TOKEN_CACHE_TTL %q", v.GetString("TOKEN_CACHE_TTL"))
	}
	return cfg, nil
}
