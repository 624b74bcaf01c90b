package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/cache"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/redisclient"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type loginLimiter interface {
	Middleware(keyFn func(*gin.Context) string) gin.HandlerFunc
}

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, tokens *auth.Manager, rdb *redisclient.Client) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(otelgin.Middleware("taskhub"))
	r.Use(prom.GinHandleMiddleware())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	}

	// health

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories

	usersRepo := postgres.NewUsersRepo(pool, prom)
	tasksRepo := postgres.NewTasksRepo(pool, prom)

	usersHandler := handlers.NewUsersHandler(usersRepo, usersRepo, tokens, log, prom)
	tasksHandler := handlers.NewTasksHandler(tasksRepo, cache.New(5*time.Second))
	adminHandler := handlers.NewAdminHandler(tasksRepo, usersRepo)

	authMW := middlewares.NewAuthMiddleware(tokens)

	// login abuse protection: shared counters when redis is configured,
	// per-process otherwise
	var limiter loginLimiter = middlewares.NewRateLimiter(10, time.Minute)

	if rdb != nil {
		limiter = middlewares.NewRedisRateLimiter(rdb.Raw(), 10, time.Minute)
	}

	users := r.Group("/users")
	{
		users.POST("/", middlewares.RequireJSON(), usersHandler.CreateUser)
		users.POST("/token", limiter.Middleware(middlewares.KeyByIP), usersHandler.Login)
		users.GET("/me", authMW.RequireAuth(), usersHandler.Me)
		users.GET("/health", usersHandler.Health)
	}

	tasks := r.Group("/tasks", authMW.RequireAuth(), middlewares.RequireJSON())
	{
		tasks.GET("/", tasksHandler.ListTasks)
		tasks.GET("/:id", tasksHandler.GetTask)
		tasks.POST("/", tasksHandler.CreateTask)
		tasks.PUT("/:id", tasksHandler.UpdateTask)
		tasks.DELETE("/:id", tasksHandler.DeleteTask)
	}

	admin := r.Group("/admin", authMW.RequireAuth(), authMW.RequireRole("admin"))
	{
		admin.GET("/tasks", adminHandler.ListAllTasks)
		admin.GET("/users", adminHandler.ListUsers)
		admin.DELETE("/tasks/:id", adminHandler.DeleteAnyTask)
	}

	return r
}
