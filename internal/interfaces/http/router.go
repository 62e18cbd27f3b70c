package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/wardgate/wardgate/docs"
	"github.com/wardgate/wardgate/internal/infrastructure/auth"
	"github.com/wardgate/wardgate/internal/infrastructure/metrics"
	"github.com/wardgate/wardgate/internal/interfaces/http/handlers/rbac"
	"github.com/wardgate/wardgate/internal/interfaces/http/middleware"
	"github.com/wardgate/wardgate/internal/interfaces/http/routes"
	"github.com/wardgate/wardgate/internal/interfaces/http/validators"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

// Router represents the HTTP router configuration
type Router struct {
	engine    *gin.Engine
	container *Container
}

func NewRouter(container *Container) (*Router, error) {
	if err := validators.Register(); err != nil {
		return nil, err
	}

	return &Router{
		engine:    gin.New(),
		container: container,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	cfg := r.container.cfg
	log := r.container.log

	r.engine.Use(middleware.Recovery(log))
	r.engine.Use(middleware.RequestLogger(log.Named("http"), r.container.collectors))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/healthz", r.health)
	r.engine.GET("/metrics", gin.WrapH(metrics.Handler(r.container.metricsRegistry)))

	svc := r.container.services
	routeCfg := &routes.RBACRouteConfig{
		Handler: rbac.NewHandler(svc.Admin, svc.Grants, svc.Authorizer, svc.Templates, log.Named("rbac")),
	}
	if r.container.enforcer != nil {
		routeCfg.PolicyHandler = rbac.NewPolicyHandler(r.container.enforcer, log.Named("policy"))
	}
	if r.container.rateLimiter != nil {
		routeCfg.RateLimit = middleware.RateLimit(r.container.rateLimiter, log.Named("ratelimit"))
	}
	if cfg.Auth.Enabled {
		routeCfg.AuthMiddleware = middleware.NewAuthMiddleware(auth.NewJWTVerifier(cfg.Auth.JWT), log.Named("auth"))
		routeCfg.PermissionMiddleware = middleware.NewPermissionMiddleware(svc.Authorizer, log.Named("auth"))
	} else {
		log.Warnw("authentication is disabled; the administration API is open")
	}

	routes.SetupRBACRoutes(r.engine, routeCfg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := r.container.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		r.container.log.Warnw("health check failed", "error", err)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "healthy"})
}
