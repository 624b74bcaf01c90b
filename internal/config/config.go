package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrConfigurationMissing = errors.New("configuration missing")

type Config struct {
	Env  string
	Port int

	DBURL string

	// Token signing. Both are required; Validate refuses to let the
	// process serve requests without them.
	SecretKey     string
	Algorithm     string
	JWTTTLMinutes int

	AdminUsername string
	AdminPassword string
	AdminEmail    string
	AdminFullName string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint string

	AllowedOrigins []string
}

func Load() Config {
	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		SecretKey:     os.Getenv("SECRET_KEY"),
		Algorithm:     os.Getenv("ALGORITHM"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 20),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminFullName: getEnv("ADMIN_FULL_NAME", "Administrator"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}

	var out []string

	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)

		if part != "" {
			out = append(out, part)
		}
	}

	return out
}

// Validate enforces the settings the process cannot run without. Serving
// requests with no signing secret would mean serving them unauthenticated.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: SECRET_KEY is not set", ErrConfigurationMissing)
	}

	if c.Algorithm == "" {
		return fmt.Errorf("%w: ALGORITHM is not set", ErrConfigurationMissing)
	}

	return nil
}

func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "taskhub")
	pass := getEnv("DB_PASSWORD", "taskhub")
	name := getEnv("DB_NAME", "taskhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
