package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/openalpha/farmd/api/handlers"
	"github.com/openalpha/farmd/api/middleware"
	"github.com/openalpha/farmd/api/types"
	"github.com/openalpha/farmd/api/websocket"
	"github.com/openalpha/farmd/metrics"
)

// Server is the farming REST and WebSocket API
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	config     *Config
	logger     zerolog.Logger

	service        types.FarmingService
	farmingHandler *handlers.FarmingHandler

	rateLimiter *middleware.RateLimiter
}

// Config contains server configuration
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string

	// Zero disables automatic block production
	BlockInterval time.Duration

	DisableRateLimit bool
	RateLimit        *middleware.RateLimitConfig
	Hub              *websocket.HubConfig
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		AllowedOrigins: []string{"*"},
		BlockInterval:  time.Second,
		RateLimit:      middleware.DefaultRateLimitConfig(),
		Hub:            websocket.DefaultHubConfig(),
	}
}

// NewServer creates an API server over svc
func NewServer(config *Config, svc types.FarmingService, logger zerolog.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		config:         config,
		logger:         logger.With().Str("component", "api").Logger(),
		service:        svc,
		wsServer:       websocket.NewServer(config.Hub),
		farmingHandler: handlers.NewFarmingHandler(svc),
	}
	if !config.DisableRateLimit {
		s.rateLimiter = middleware.NewRateLimiter(config.RateLimit)
	}

	if ks, ok := svc.(*KeeperService); ok {
		ks.OnEvents(s.publish)
	}
	return s
}

// publish forwards delivered events and the new chain status to WebSocket subscribers
func (s *Server) publish(height int64, events sdk.Events) {
	hub := s.wsServer.Hub()
	hub.PublishEvents(height, events)

	status := s.service.Status(context.Background())
	hub.UpdateStatus(&websocket.StatusMessage{
		Height: status.Height,
		Time:   status.Time,
		Paused: status.Paused,
	})
}

// Handler builds the routed handler with the middleware chain
// CORS -> logging -> rate limit -> route
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.wsServer.HandleWebSocket)
	router.HandleFunc("/ws/stats", s.wsServer.HandleStats).Methods(http.MethodGet)

	s.farmingHandler.RegisterRoutes(router)

	router.Use(middleware.RequestLogger(s.logger))
	if s.rateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(s.rateLimiter))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(router)
}

// Start serves until Stop is called. Block production and the hub loop run
// until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go s.wsServer.Run()

	if ks, ok := s.service.(*KeeperService); ok && s.config.BlockInterval > 0 {
		go ks.Run(ctx, s.config.BlockInterval)
		s.logger.Info().Dur("interval", s.config.BlockInterval).Msg("block production enabled")
	}

	s.logger.Info().
		Str("addr", addr).
		Bool("rate_limit", s.rateLimiter != nil).
		Msg("API server starting")

	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.service.Status(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          "healthy",
		"timestamp":       time.Now().Unix(),
		"height":          status.Height,
		"paused":          status.Paused,
		"ws_connections":  s.wsServer.GetActiveConnections(),
		"simulated_clock": isSimulator(s.service),
	})
}

func isSimulator(svc types.FarmingService) bool {
	_, ok := svc.(types.SimulatorService)
	return ok
}
