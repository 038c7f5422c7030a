package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPAddr string

	DatabaseDriver string
	DatabaseDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTIssuer        string
	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	BlacklistTTL     time.Duration

	CookieSecure bool
	CORSOrigins  []string

	APIRateLimitRPM  int
	AuthRateLimitRPM int

	OTELEnabled               bool
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELServiceName           string
	OTELEnvironment           string
	OTELMetricsExportInterval time.Duration

	ShutdownTimeout          time.Duration
	ShutdownHTTPDrainTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      envString("APP_ENV", "development"),
		HTTPAddr: envString("HTTP_ADDR", ":8080"),

		DatabaseDriver: envString("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:    envString("DATABASE_DSN", ""),

		RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		JWTIssuer:        envString("JWT_ISSUER", "commerce-backend"),
		JWTAccessSecret:  envString("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret: envString("JWT_REFRESH_SECRET", ""),
		AccessTokenTTL:   envDuration("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTokenTTL:  envDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		BlacklistTTL:     envDuration("TOKEN_BLACKLIST_TTL", 24*time.Hour),

		CookieSecure: envBool("COOKIE_SECURE", false),
		CORSOrigins:  envStrings("CORS_ORIGINS", []string{"http://localhost:3000"}),

		APIRateLimitRPM:  envInt("API_RATE_LIMIT_RPM", 300),
		AuthRateLimitRPM: envInt("AUTH_RATE_LIMIT_RPM", 30),

		OTELEnabled:               envBool("OTEL_ENABLED", false),
		OTELExporterOTLPEndpoint:  envString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure:  envBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:           envString("OTEL_SERVICE_NAME", "commerce-backend"),
		OTELEnvironment:           envString("OTEL_ENVIRONMENT", "development"),
		OTELMetricsExportInterval: envDuration("OTEL_METRICS_EXPORT_INTERVAL", 30*time.Second),

		ShutdownTimeout:          envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		ShutdownHTTPDrainTimeout: envDuration("SHUTDOWN_HTTP_DRAIN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		recordConfigValidationEvent(context.Background(), cfg.Env, "failure", classifyConfigLoadError(err))
		return nil, err
	}
	recordConfigValidationEvent(context.Background(), cfg.Env, "success", "none")
	return cfg, nil
}

// validate rejects configurations the server cannot safely start with. Missing
// signing secrets are fatal here rather than surfacing as per-request errors.
func (c *Config) validate() error {
	var problems []string
	if c.JWTAccessSecret == "" {
		problems = append(problems, "JWT_ACCESS_SECRET is required")
	}
	if c.JWTRefreshSecret == "" {
		problems = append(problems, "JWT_REFRESH_SECRET is required")
	}
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		problems = append(problems, fmt.Sprintf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if c.DatabaseDriver == "postgres" && c.DatabaseDSN == "" {
		problems = append(problems, "DATABASE_DSN is required for postgres")
	}
	if len(problems) > 0 {
		return fmt.Errorf("validate config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envStrings(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
