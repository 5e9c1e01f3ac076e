package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayhub/internal/domain/user"
	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
)

type SearchHTTP interface {
	Search(c *gin.Context)
}

type CatalogHTTP interface {
	Property(c *gin.Context)
	Vocabulary(c *gin.Context)
	RoomCalendar(c *gin.Context)
}

type AuthHTTP interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type HostHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
	AddRoomType(c *gin.Context)
	AddMedia(c *gin.Context)
	AddRoom(c *gin.Context)
	SetRoomStatus(c *gin.Context)
	SetNightStatus(c *gin.Context)
}

type AdminHTTP interface {
	CreateVocabulary(c *gin.Context)
	CreateHost(c *gin.Context)
	SeedRoom(c *gin.Context)
	SeedRoomType(c *gin.Context)
}

type Handlers struct {
	Search         SearchHTTP
	Catalog        CatalogHTTP
	Auth           AuthHTTP
	Host           HostHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine behind NewServer.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Search != nil {
		api.GET("/properties/search", h.Search.Search)
	}
	if h.Catalog != nil {
		api.GET("/properties/:id", h.Catalog.Property)
		api.GET("/vocabulary/:kind", h.Catalog.Vocabulary)
		api.GET("/rooms/:id/calendar", h.Catalog.RoomCalendar)
	}
	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Host != nil {
		host := api.Group("/host", requireRole(user.RoleHost, user.RoleAdmin))
		host.GET("/properties", h.Host.List)
		host.POST("/properties", h.Host.Create)
		host.DELETE("/properties/:id", h.Host.Delete)
		host.POST("/properties/:id/room-types", h.Host.AddRoomType)
		host.POST("/properties/:id/media", h.Host.AddMedia)
		host.POST("/room-types/:id/rooms", h.Host.AddRoom)
		host.PATCH("/rooms/:id/status", h.Host.SetRoomStatus)
		host.POST("/rooms/:id/availability", h.Host.SetNightStatus)
	}
	if h.Admin != nil {
		admin := api.Group("/admin", requireRole(user.RoleAdmin))
		admin.POST("/vocabulary", h.Admin.CreateVocabulary)
		admin.POST("/hosts", h.Admin.CreateHost)
		admin.POST("/rooms/:id/seed", h.Admin.SeedRoom)
		admin.POST("/room-types/:id/seed", h.Admin.SeedRoomType)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
