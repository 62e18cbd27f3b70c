package http

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	rbacapp "github.com/wardgate/wardgate/internal/application/permission"
	"github.com/wardgate/wardgate/internal/infrastructure/cache"
	"github.com/wardgate/wardgate/internal/infrastructure/config"
	"github.com/wardgate/wardgate/internal/infrastructure/metrics"
	infraPermission "github.com/wardgate/wardgate/internal/infrastructure/permission"
	"github.com/wardgate/wardgate/internal/infrastructure/persistence/seeds"
	"github.com/wardgate/wardgate/internal/infrastructure/ratelimit"
	"github.com/wardgate/wardgate/internal/infrastructure/repository"
	"github.com/wardgate/wardgate/internal/shared/db"
	"github.com/wardgate/wardgate/internal/shared/logger"
	"github.com/wardgate/wardgate/internal/shared/services/markdown"
)

// Services groups the application services the HTTP layer and the CLI share.
type Services struct {
	Authorizer *rbacapp.Authorizer
	Grants     *rbacapp.GrantService
	Admin      *rbacapp.AdminService
	Templates  *rbacapp.TemplateService
	Seeder     *rbacapp.Seeder
}

// Container wires configuration, storage, caches and services together and owns the
// connections it opened.
type Container struct {
	db    *gorm.DB
	cfg   *config.Config
	log   logger.Interface
	redis *redis.Client

	metricsRegistry *prometheus.Registry
	collectors      *metrics.Collectors

	services    *Services
	enforcer    *infraPermission.Enforcer
	rateLimiter *ratelimit.RedisRateLimiter
}

func NewContainer(cfg *config.Config, gdb *gorm.DB, log logger.Interface) (*Container, error) {
	c := &Container{
		db:              gdb,
		cfg:             cfg,
		log:             log,
		metricsRegistry: prometheus.NewRegistry(),
	}
	c.collectors = metrics.NewCollectors(c.metricsRegistry)

	if cfg.NeedsRedis() {
		client, err := initRedis(cfg, log)
		if err != nil {
			return nil, err
		}
		c.redis = client
	}
	if cfg.Server.RateLimit.Enabled {
		c.rateLimiter = ratelimit.NewRedisRateLimiter(c.redis, cfg.Server.RateLimit)
	}

	registry, err := seeds.LoadRegistry(cfg.RBAC.TemplatesFile)
	if err != nil {
		c.Shutdown()
		return nil, fmt.Errorf("failed to load permission templates: %w", err)
	}
	log.Infow("permission templates loaded", "templates", registry.Len(), "file", cfg.RBAC.TemplatesFile)

	roleRepo := repository.NewRoleRepository(gdb)
	grantRepo := repository.NewRolePermissionRepository(gdb)
	txMgr := db.NewTransactionManager(gdb)
	checkCache := cache.NewCheckCache(cfg.RBAC.Cache, c.redis, log.Named("cache"))

	grantSvc := rbacapp.NewGrantService(roleRepo, grantRepo, txMgr, checkCache, c.collectors, log.Named("grants"))
	c.services = &Services{
		Authorizer: rbacapp.NewAuthorizer(roleRepo, grantRepo, checkCache, c.collectors, log.Named("authorizer")),
		Grants:     grantSvc,
		Admin:      rbacapp.NewAdminService(roleRepo, grantRepo, registry, grantSvc, txMgr, checkCache, markdown.NewMarkdownService(), log.Named("admin")),
		Templates:  rbacapp.NewTemplateService(registry),
		Seeder:     rbacapp.NewSeeder(roleRepo, grantRepo, registry, txMgr, c.collectors, log.Named("seeder")),
	}

	if cfg.RBAC.Casbin.Enabled {
		enforcer, err := infraPermission.NewEnforcer(gdb, log.Named("casbin"))
		if err != nil {
			c.Shutdown()
			return nil, err
		}
		c.enforcer = enforcer
	}

	return c, nil
}

func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return client, nil
}

func (c *Container) Services() *Services {
	return c.services
}

// Enforcer is nil unless rbac.casbin.enabled is set.
func (c *Container) Enforcer() *infraPermission.Enforcer {
	return c.enforcer
}

func (c *Container) Collectors() *metrics.Collectors {
	return c.collectors
}

// Shutdown releases the connections the container opened. The database is owned by
// the caller.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close Redis client", "error", err)
		}
	}
}
