package bootstrap

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vibhusapra/phoenix/internal/config"
	"github.com/vibhusapra/phoenix/internal/infra/cache"
	"github.com/vibhusapra/phoenix/internal/infra/db"
	"github.com/vibhusapra/phoenix/internal/infra/httpclient"
	"github.com/vibhusapra/phoenix/internal/infra/logger"
	"github.com/vibhusapra/phoenix/internal/infra/queue"
	"github.com/vibhusapra/phoenix/internal/modules/handler"
	"github.com/vibhusapra/phoenix/internal/modules/model"
	"github.com/vibhusapra/phoenix/internal/modules/repo"
	"github.com/vibhusapra/phoenix/internal/modules/service"
	"github.com/vibhusapra/phoenix/internal/pkg/auth"
)

// Filter validator names accepted by filter.validator.
const (
	ValidatorCore   = "core"
	ValidatorSyntax = "syntax"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			if err := d.AutoMigrate(&model.Project{}, &model.User{}, &model.SavedView{}); err != nil {
				return nil, fmt.Errorf("auto migrate: %w", err)
			}
		}
		return d, nil
	})

	do.Provide(inj, func(i *do.Injector) (*db.WriteLock, error) {
		return db.NewWriteLock(do.MustInvoke[*config.Config](i).Database.Locked), nil
	})

	// Redis, nil when redis.addr is empty
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})
	do.Provide(inj, func(i *do.Injector) (*cache.ValidationCache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.NewValidationCache(do.MustInvoke[*redis.Client](i), cfg.Filter.CacheTTL()), nil
	})

	// RabbitMQ, events are dropped when rabbitmq.url is empty
	do.Provide(inj, func(i *do.Injector) (service.EventPublisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RabbitMQ.URL == "" {
			return nil, nil
		}
		conn, err := amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		p, err := queue.NewPublisher(conn, cfg.RabbitMQ.Exchange, do.MustInvoke[*zap.Logger](i))
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return p, nil
	})

	// Filter validation
	do.Provide(inj, func(i *do.Injector) (*httpclient.CoreClient, error) {
		return httpclient.NewCoreClient(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FilterValidator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		switch cfg.Filter.Validator {
		case ValidatorCore:
			if cfg.Core.BaseURL == "" {
				return nil, fmt.Errorf("filter.validator is %q but core.baseURL is empty", ValidatorCore)
			}
			return service.NewCoreFilterValidator(do.MustInvoke[*httpclient.CoreClient](i)), nil
		case ValidatorSyntax, "":
			return service.NewSyntaxFilterValidator(), nil
		default:
			return nil, fmt.Errorf("unsupported filter validator %q", cfg.Filter.Validator)
		}
	})
	do.Provide(inj, func(i *do.Injector) (*service.FilterGateway, error) {
		return service.NewFilterGateway(
			do.MustInvoke[service.FilterValidator](i),
			do.MustInvoke[*cache.ValidationCache](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Auth
	do.Provide(inj, func(i *do.Injector) (*auth.Tokens, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL())
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.SavedViewRepo, error) {
		return repo.NewSavedViewRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.SavedViewService, error) {
		return service.NewSavedViewService(
			do.MustInvoke[repo.SavedViewRepo](i),
			do.MustInvoke[*service.FilterGateway](i),
			do.MustInvoke[service.EventPublisher](i),
			do.MustInvoke[*zap.Logger](i),
			service.WithWriteLock(do.MustInvoke[*db.WriteLock](i)),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.SavedViewHandler, error) {
		return handler.NewSavedViewHandler(do.MustInvoke[service.SavedViewService](i)), nil
	})

	return inj
}
