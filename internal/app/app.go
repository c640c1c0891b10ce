// Package app assembles the store, cache, token issuer and services from
// config. Both binaries start from here.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-account-service/internal/core/auth"
	"go-gin-account-service/internal/core/cache"
	"go-gin-account-service/internal/core/config"
	"go-gin-account-service/internal/core/database"
	"go-gin-account-service/internal/repo"
	"go-gin-account-service/internal/service"
	"go-gin-account-service/internal/transport/http/router"
	"go-gin-account-service/pkg/utils"
)

const redisPingTimeout = 2 * time.Second

type App struct {
	DB       *gorm.DB
	Cache    *cache.Cache // nil when redis is not configured or unreachable
	JWT      *auth.JWTer
	Accounts *service.AccountService
	Admin    *service.AdminService

	log *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                log,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	a := &App{DB: db, log: log}
	var principals service.PrincipalCache
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		err := c.Ping(ctx)
		cancel()
		if err != nil {
			log.Warn("redis unreachable, principal cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
			principals = cache.NewPrincipalCache(c, time.Duration(cfg.Redis.PrincipalTTLSec)*time.Second)
			log.Info("principal cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	users := repo.NewUserRepo(db)
	opts := []service.Option{service.WithLogger(log)}
	if principals != nil {
		opts = append(opts, service.WithPrincipalCache(principals))
	}
	a.Accounts = service.NewAccountService(users, utils.BcryptHasher{Cost: cfg.Bcrypt.Cost}, a.JWT, opts...)
	a.Admin = service.NewAdminService(users, principals, log)
	return a, nil
}

// Limits converts the http section into per-request bounds.
func Limits(h config.HTTP) router.Limits {
	return router.Limits{
		MaxInFlight:    h.MaxInFlight,
		MaxBodyBytes:   h.MaxBodyBytes,
		RequestTimeout: time.Duration(h.RequestTimeoutSec) * time.Second,
	}
}

// Close releases the cache and the database handle.
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.log.Warn("redis close", zap.Error(err))
		}
	}
	if err := database.Close(a.DB); err != nil {
		a.log.Warn("database close", zap.Error(err))
	}
}
