package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/epoch-io/epoch/internal/auth"
	"github.com/epoch-io/epoch/internal/config"
	"github.com/epoch-io/epoch/internal/middleware"
	"github.com/epoch-io/epoch/internal/repository"
)

type Router struct {
	engine         *gin.Engine
	db             *sqlx.DB
	jwtManager     *auth.JWTManager
	authMiddleware *middleware.AuthMiddleware
	authHandler    *AuthHandler
	entryHandler   *EntryHandler
}

func NewRouter(db *sqlx.DB, cfg *config.Config) *Router {
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration, cfg.Auth.RefreshDuration)

	userRepo := repository.NewSQLUserRepository(db)
	entryRepo := repository.NewSQLTimeEntryRepository(db)

	authService := auth.NewAuthService(userRepo, jwtManager)

	authHandler := NewAuthHandler(authService, cfg.Auth.TokenDuration)
	entryHandler := NewEntryHandler(entryRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	return &Router{
		engine:         gin.Default(),
		db:             db,
		jwtManager:     jwtManager,
		authMiddleware: authMiddleware,
		authHandler:    authHandler,
		entryHandler:   entryHandler,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())

	r.engine.GET("/health", r.healthCheck)

	v1 := r.engine.Group("/api/v1")
	{
		// Public auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", r.authHandler.Register)
			authGroup.POST("/login", r.authHandler.Login)
			authGroup.POST("/refresh", r.authHandler.RefreshToken)
			authGroup.POST("/logout", r.authHandler.Logout)
		}

		// Protected auth routes
		authProtected := v1.Group("/auth")
		authProtected.Use(r.authMiddleware.RequireAuth())
		{
			authProtected.GET("/me", r.authHandler.GetCurrentUser)
		}

		// Time entry routes
		entryGroup := v1.Group("/entries")
		entryGroup.Use(r.authMiddleware.RequireAuth())
		{
			entryGroup.GET("", r.entryHandler.List)
			entryGroup.POST("", r.entryHandler.Create)
			entryGroup.DELETE("/:id", r.entryHandler.Delete)
			entryGroup.GET("/export", r.entryHandler.Export)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) healthCheck(c *gin.Context) {
	if err := r.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
