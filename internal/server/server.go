package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hannahhealth/sms-gateway/backend/config"
	"github.com/hannahhealth/sms-gateway/backend/internal/api"
	"github.com/hannahhealth/sms-gateway/backend/internal/middleware"
	"github.com/hannahhealth/sms-gateway/backend/internal/service"
	"github.com/hannahhealth/sms-gateway/backend/internal/sms"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance with all routes wired
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, gateway *service.GatewayService, messenger sms.Messenger) *Server {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	router.Use(cors.New(corsConfig))

	limiter := middleware.NewSMSRateLimiter(redisClient)
	smsHandler := api.NewSMSHandler(gateway, messenger, cfg, limiter)
	healthHandler := api.NewHealthHandler(db, redisClient)

	api.RegisterRoutes(router, smsHandler, healthHandler)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
