package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/petmarket/internal/auth"
	"github.com/geocoder89/petmarket/internal/cache"
	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/http/handlers"
	"github.com/geocoder89/petmarket/internal/http/middlewares"
	"github.com/geocoder89/petmarket/internal/observability"
	"github.com/geocoder89/petmarket/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the long-lived collaborators the router wires into handlers.
// Cache and Registry are optional.
type Deps struct {
	Pool     *pgxpool.Pool
	Cache    cache.Store
	Registry *prometheus.Registry
}

type pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	var prom *observability.Prom
	if deps.Registry != nil {
		prom = observability.NewProm(deps.Registry)
	}

	// middleware
	r.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.ErrorContext(c.Request.Context(), "panic recovered", "panic", rec, "route", c.FullPath())
		handlers.RespondInternal(c, "Internal server error")
	}))
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	checks := []handlers.Check{{Name: "db", Ping: func(ctx context.Context) error {
		if deps.Pool == nil {
			return nil
		}
		return deps.Pool.Ping(ctx)
	}}}
	if p, ok := deps.Cache.(pinger); ok {
		checks = append(checks, handlers.Check{Name: "cache", Ping: p.Ping})
	}

	h := handlers.NewHealthHandler(checks...)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(deps.Pool, prom)
	categoriesRepo := postgres.NewCategoriesRepo(deps.Pool, prom)
	petsRepo := postgres.NewPetsRepo(deps.Pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := middlewares.NewAuthMiddleware(jwtManager)
	authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	adminLimiter := middlewares.NewRateLimiter(cfg.WriteRateLimitRPS, cfg.WriteRateLimitBurst)

	lists := handlers.NewListCache(deps.Cache, prom)

	// Wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, prom)
	petsHandler := handlers.NewPetsHandlerWithCache(petsRepo, lists)
	adminPetsHandler := handlers.NewAdminPetsHandler(petsRepo, lists)
	categoriesHandler := handlers.NewCategoriesHandler(categoriesRepo, lists)
	usersHandler := handlers.NewUsersHandler(usersRepo)

	authGroup := r.Group("/auth")
	authGroup.POST("/signup", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.SignUp)
	authGroup.POST("/login", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	authGroup.GET("/user/role", authMiddleware.RequireAuth(), authHandler.Role)

	r.GET("/pets", petsHandler.ListPets)
	r.GET("/pets/:id", petsHandler.GetPetByID)
	r.POST("/pets", petsHandler.CreatePet)
	r.PUT("/pets/:id", petsHandler.UpdatePet)
	r.DELETE("/pets/:id", petsHandler.DeletePet)

	r.GET("/categories", categoriesHandler.ListCategories)
	r.GET("/categories/:id", categoriesHandler.GetCategoryByID)

	r.GET("/users/:id", usersHandler.GetUserByID)

	admin := r.Group("/admin",
		authMiddleware.RequireAuth(),
		adminLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP),
		authMiddleware.ResolveRole(usersRepo),
	)
	{
		admin.GET("/pets", adminPetsHandler.ListPets)
		admin.POST("/pets", adminPetsHandler.CreatePet)
		admin.GET("/pets/:id", adminPetsHandler.GetPet)
		admin.PUT("/pets/:id", adminPetsHandler.UpdatePet)
		admin.PATCH("/pets/:id", adminPetsHandler.PatchPet)
		admin.DELETE("/pets/:id", adminPetsHandler.DeletePet)

		admin.POST("/categories", authMiddleware.RequireAdmin(), categoriesHandler.CreateCategory)
		admin.DELETE("/categories/:id", authMiddleware.RequireAdmin(), categoriesHandler.DeleteCategory)
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, http.StatusNotFound, "not_found", "Route not found", nil)
	})

	return r
}
