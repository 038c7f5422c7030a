//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"commerce-backend/internal/config"
	"commerce-backend/internal/http/handler"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/service"
)

func InitializeApp(ctx context.Context) (*App, error) {
	wire.Build(
		config.Load,
		observability.NewLogger,
		ProvideObservability,
		ProvideDatabase,
		ProvideRedis,
		ProvideJWTManager,
		ProvideTokenBlacklist,
		ProvideReadiness,
		ProvideRefreshTokenJanitor,
		repository.NewUserRepository,
		repository.NewRefreshTokenRepository,
		repository.NewProductRepository,
		repository.NewCategoryRepository,
		repository.NewCartRepository,
		repository.NewOrderRepository,
		service.NewAuthService,
		service.NewUserService,
		service.NewCartService,
		service.NewCatalogService,
		service.NewOrderService,
		ProvideAuthHandler,
		handler.NewUserHandler,
		handler.NewCartHandler,
		handler.NewOrderHandler,
		handler.NewProductHandler,
		handler.NewCategoryHandler,
		wire.Struct(new(HandlerSet), "*"),
		ProvideRouter,
		ProvideServer,
		New,
	)
	return nil, nil
}
