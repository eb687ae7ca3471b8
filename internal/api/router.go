package api

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/uninorte/feria-gamer/internal/api/handlers"
	"github.com/uninorte/feria-gamer/internal/api/middleware"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/auth"
	"github.com/uninorte/feria-gamer/internal/config"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/uninorte/feria-gamer/internal/queue"
	"github.com/uninorte/feria-gamer/internal/service"
	"github.com/uninorte/feria-gamer/internal/validation"
	"gorm.io/gorm"

	_ "github.com/uninorte/feria-gamer/docs" // swagger spec
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *gorm.DB, q queue.Queue, tokens *auth.TokenIssuer, authSvc *service.AuthService) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.Mode = cfg.Server.Mode
	validation.Register(cfg.Mail.AllowedDomain)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))

	router.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "Cannot "+c.Request.Method+" "+c.Request.URL.Path)
	})

	// Every protected request checks that the account is still active. With
	// refresh_roles the gate also consults current assignments instead of the
	// roles frozen into the token.
	var resolver middleware.RoleResolver
	if cfg.Auth.RefreshRoles {
		resolver = authSvc
	}
	authenticate := middleware.Authenticate(tokens, authSvc)
	adminOnly := middleware.RequireRoles(resolver, models.RoleAdmin)
	staff := middleware.RequireRoles(resolver, models.RoleAdmin, models.RoleJurado, models.RoleProfesor)
	adminOrProfesor := middleware.RequireRoles(resolver, models.RoleAdmin, models.RoleProfesor)

	authHandler := handlers.NewAuthHandler(authSvc)
	catalogHandler := handlers.NewCatalogHandler(service.NewCatalogService(db))
	invitationHandler := handlers.NewInvitationHandler(service.NewInvitationService(db, q))

	router.GET("/health", handlers.HealthCheck(db))
	router.GET("/version", handlers.GetVersion)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(db))
		v1.GET("/version", handlers.GetVersion)
		v1.POST("/auth/login", authHandler.Login)
	}

	protected := v1.Group("")
	protected.Use(authenticate)
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/register", adminOnly, authHandler.Register)

		materias := protected.Group("/materias")
		{
			materias.GET("", staff, catalogHandler.ListMaterias)
			materias.GET("/:id", staff, catalogHandler.GetMateria)
			materias.POST("", adminOnly, catalogHandler.CreateMateria)
			materias.PATCH("/:id", adminOnly, catalogHandler.UpdateMateria)
			materias.DELETE("/:id", adminOnly, catalogHandler.DeleteMateria)
		}

		nrc := protected.Group("/nrc")
		{
			nrc.GET("", staff, catalogHandler.ListNrcs)
			nrc.GET("/:id", staff, catalogHandler.GetNrc)
			nrc.POST("", adminOnly, catalogHandler.CreateNrc)
			nrc.PATCH("/:id", adminOnly, catalogHandler.UpdateNrc)
			nrc.DELETE("/:id", adminOnly, catalogHandler.DeleteNrc)
		}

		games := protected.Group("/videojuegos")
		{
			games.GET("", staff, catalogHandler.ListVideojuegos)
			games.GET("/:id", staff, catalogHandler.GetVideojuego)
			games.POST("", adminOnly, catalogHandler.CreateVideojuego)
			games.PATCH("/:id", adminOnly, catalogHandler.UpdateVideojuego)
			games.DELETE("/:id", adminOnly, catalogHandler.DeleteVideojuego)
		}

		teams := protected.Group("/equipos")
		{
			teams.GET("", staff, catalogHandler.ListEquipos)
			teams.GET("/:id", staff, catalogHandler.GetEquipo)
			teams.POST("", adminOrProfesor, catalogHandler.CreateEquipo)
			teams.PATCH("/:id", adminOrProfesor, catalogHandler.UpdateEquipo)
			teams.DELETE("/:id", adminOrProfesor, catalogHandler.DeleteEquipo)
		}

		students := protected.Group("/estudiantes")
		{
			students.GET("", staff, catalogHandler.ListEstudiantes)
			students.GET("/:id", staff, catalogHandler.GetEstudiante)
			students.POST("", adminOrProfesor, catalogHandler.CreateEstudiante)
			students.PATCH("/:id", adminOrProfesor, catalogHandler.UpdateEstudiante)
			students.DELETE("/:id", adminOrProfesor, catalogHandler.DeleteEstudiante)
		}

		email := protected.Group("/email", staff)
		{
			email.POST("/team-invitation", invitationHandler.SendTeamInvitation)
			email.GET("/jobs/:id", invitationHandler.GetJob)
		}
	}

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	slog.Info("API router initialized", "mode", cfg.Server.Mode, "refresh_roles", cfg.Auth.RefreshRoles)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers. "*" in origins allows any origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", strings.Join([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}, ", "))

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
