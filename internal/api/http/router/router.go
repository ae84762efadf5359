package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/adelaidehub/studyhub-server/internal/api/http/handler"
	"github.com/adelaidehub/studyhub-server/internal/api/http/middleware"
)

// Config collects the handlers and middleware the router mounts.
type Config struct {
	Auth           *handler.Auth
	Resource       *handler.Resource
	StudyGroup     *handler.StudyGroup
	Authenticate   *middleware.Authenticate
	Logging        *middleware.Logging
	AllowedOrigins []string
}

// New builds the gin engine with all API routes mounted under /api/v1,
// wrapped in the CORS handler.
func New(cfg Config) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cfg.Logging.Handle)

	v1 := engine.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", cfg.Auth.Register)
		auth.POST("/login", cfg.Auth.Login)

		authed := auth.Group("", cfg.Authenticate.Handle)
		authed.GET("/me", cfg.Auth.Me)
		authed.POST("/logout", cfg.Auth.Logout)
		authed.PUT("/updatedetails", cfg.Auth.UpdateDetails)
		authed.PUT("/updatepassword", cfg.Auth.UpdatePassword)
		authed.PUT("/photo", cfg.Auth.UploadPhoto)
	}

	resources := v1.Group("/resources")
	{
		resources.GET("", cfg.Resource.List)
		resources.GET("/:id", cfg.Resource.Get)

		authed := resources.Group("", cfg.Authenticate.Handle)
		authed.POST("", cfg.Resource.Create)
		authed.GET("/user", cfg.Resource.ListMine)
		authed.GET("/:id/download", cfg.Resource.Download)
		authed.DELETE("/:id", cfg.Resource.Delete)
		authed.POST("/:id/ratings", cfg.Resource.Rate)
	}

	groups := v1.Group("/studygroups", cfg.Authenticate.Handle)
	{
		groups.GET("", cfg.StudyGroup.List)
		groups.POST("", cfg.StudyGroup.Create)
		groups.GET("/user", cfg.StudyGroup.ListMine)
		groups.GET("/sessions/upcoming", cfg.StudyGroup.Upcoming)
		groups.GET("/:id", cfg.StudyGroup.Get)
		groups.DELETE("/:id", cfg.StudyGroup.Delete)
		groups.POST("/:id/join", cfg.StudyGroup.Join)
		groups.DELETE("/:id/leave", cfg.StudyGroup.Leave)
		groups.POST("/:id/sessions", cfg.StudyGroup.AddSession)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(engine)
}
