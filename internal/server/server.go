package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/config"
	"github.com/ezchef/ezchef/backend/internal/api"
	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/middleware"
	"github.com/ezchef/ezchef/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	cfg    *config.Config
}

// New wires middleware, services and routes. redisClient and store are optional:
// without Redis no rate limits apply, without a store image routes answer 503.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store service.ObjectStore) *Server {
	router := gin.New()
	router.Use(
		requestid.New(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.ErrorHandler(),
	)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var limiters api.Limiters
	if redisClient != nil {
		limiters.Login = middleware.NewLoginRateLimiter(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow)
		limiters.RecipeCreation = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeRateLimit, cfg.RecipeRateWindow)
	} else {
		logger.Warn("redis not configured, rate limiting disabled")
	}

	api.RegisterRoutes(router, db, api.NewServices(db, cfg, store), limiters)

	return &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
