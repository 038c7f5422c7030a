package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"commerce-backend/internal/config"
	"commerce-backend/internal/domain"
	"commerce-backend/internal/health"
	"commerce-backend/internal/http/handler"
	"commerce-backend/internal/http/router"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/security"
	"commerce-backend/internal/service"
)

const tokenBlacklistPrefix = "token_blacklist"

func ProvideDatabase(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	logger.Info("database connected", "driver", cfg.DatabaseDriver)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Category{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func ProvideRedis(cfg *config.Config) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func ProvideJWTManager(cfg *config.Config) (*security.JWTManager, error) {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

func ProvideTokenBlacklist(cfg *config.Config, client redis.UniversalClient) service.TokenBlacklist {
	return service.NewRedisTokenBlacklist(client, tokenBlacklistPrefix, cfg.BlacklistTTL)
}

func ProvideReadiness(db *gorm.DB, client redis.UniversalClient) *health.ProbeRunner {
	return health.NewProbeRunner(5*time.Second, 2*time.Second,
		health.DatabaseChecker{DB: db},
		health.RedisChecker{Client: client},
	)
}

func ProvideRouter(cfg *config.Config, deps HandlerSet, jwtMgr *security.JWTManager, blacklist service.TokenBlacklist, users repository.UserRepository, readiness *health.ProbeRunner) http.Handler {
	return router.NewRouter(router.Dependencies{
		AuthHandler:      deps.Auth,
		UserHandler:      deps.User,
		CartHandler:      deps.Cart,
		OrderHandler:     deps.Order,
		ProductHandler:   deps.Product,
		CategoryHandler:  deps.Category,
		JWTManager:       jwtMgr,
		TokenBlacklist:   blacklist,
		Users:            users,
		CORSOrigins:      cfg.CORSOrigins,
		AuthRateLimitRPM: cfg.AuthRateLimitRPM,
		APIRateLimitRPM:  cfg.APIRateLimitRPM,
		Readiness:        readiness,
		EnableOTelHTTP:   cfg.OTELEnabled,
	})
}

type HandlerSet struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
}

func ProvideAuthHandler(auth *service.AuthService, jwtMgr *security.JWTManager, cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(auth, jwtMgr, cfg.CookieSecure)
}

func ProvideServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// ProvideRefreshTokenJanitor returns a stop function for the periodic sweep
// of expired refresh tokens.
func ProvideRefreshTokenJanitor(refreshTokens repository.RefreshTokenRepository, logger *slog.Logger) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				removed, err := refreshTokens.CleanupExpired()
				if err != nil {
					logger.Warn("refresh token cleanup failed", "error", err)
				} else if removed > 0 {
					logger.Info("expired refresh tokens removed", "count", removed)
				}
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func ProvideObservability(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*observability.Runtime, error) {
	return observability.InitRuntime(ctx, cfg, logger)
}
