// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"uav-maintenance-service/internal/blob"
	"uav-maintenance-service/internal/config"
	"uav-maintenance-service/internal/db"
	"uav-maintenance-service/internal/domain/procedure"
	"uav-maintenance-service/internal/fleet"
	authHandler "uav-maintenance-service/internal/handlers/auth"
	procedureHandler "uav-maintenance-service/internal/handlers/procedure"
	statsHandler "uav-maintenance-service/internal/handlers/stats"
	uavHandler "uav-maintenance-service/internal/handlers/uav"
	wsHandler "uav-maintenance-service/internal/handlers/websocket"
	"uav-maintenance-service/internal/middleware"
	"uav-maintenance-service/internal/pkg/jwt"
	"uav-maintenance-service/internal/pkg/metrics"
	"uav-maintenance-service/internal/pkg/session"
	"uav-maintenance-service/internal/repository"
	"uav-maintenance-service/internal/repository/cache"
	authUsecase "uav-maintenance-service/internal/service/auth"
	procedureUsecase "uav-maintenance-service/internal/service/procedure"
	"uav-maintenance-service/internal/service/signature"
	"uav-maintenance-service/internal/websocket"
	wsHandlers "uav-maintenance-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg        config.AppConfig
	engine     *gin.Engine
	logger     *zap.Logger
	httpServer *http.Server

	backend     *repository.Backend
	redisClient redis.UniversalClient
	store       *fleet.Store
	authService *authUsecase.AuthService
	stopHub     context.CancelFunc
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	gin.SetMode(cfg.GinMode)
	return &Server{
		cfg:    cfg,
		engine: gin.New(),
		logger: logger,
	}
}

// Build connects every backend and wires services, handlers and routes
func (s *Server) Build(ctx context.Context) error {
	logger := s.logger

	// ----- Metrics -----
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(s.cfg.Metrics.Namespace, registry)

	// ----- Record store -----
	backend, err := repository.Open(ctx, s.cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", s.cfg.Store.Driver, err)
	}
	s.backend = backend
	if err := backend.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s store: %w", backend.Driver, err)
	}
	logger.Info("record store ready", zap.String("driver", backend.Driver))

	// ----- Redis -----
	redisClient, err := db.NewRedis(ctx, db.RedisConfig{
		ClusterMode: s.cfg.Redis.ClusterMode,
		Addresses:   s.cfg.Redis.Addresses(),
		Password:    s.cfg.Redis.Pass,
		DB:          s.cfg.Redis.DB,
		PoolSize:    s.cfg.Redis.PoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.redisClient = redisClient
	logger.Info("redis connected", zap.Strings("addresses", s.cfg.Redis.Addresses()))

	// ----- JWT Manager -----
	var jwtManager *jwt.Manager
	if jwt.KeysMissing(s.cfg.JWT) {
		logger.Warn("jwt key files not found, using an ephemeral key; tokens will not survive a restart",
			zap.String("private_key_path", s.cfg.JWT.PrivPath),
		)
		jwtManager, err = jwt.NewEphemeral(s.cfg.JWT)
	} else {
		jwtManager, err = jwt.LoadAndBuild(s.cfg.JWT)
	}
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Blob archive -----
	archive, err := blob.Open(ctx, blob.Config{
		Driver: s.cfg.Blob.Driver,
		FSRoot: s.cfg.Blob.FSRoot,
		S3: blob.S3Config{
			Region:          s.cfg.Blob.S3.Region,
			Bucket:          s.cfg.Blob.S3.Bucket,
			Endpoint:        s.cfg.Blob.S3.Endpoint,
			AccessKeyID:     s.cfg.Blob.S3.AccessKeyID,
			SecretAccessKey: s.cfg.Blob.S3.SecretAccessKey,
			PathStyle:       s.cfg.Blob.S3.UsePathStyle,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}
	if archive == nil {
		logger.Info("signature archive disabled")
	} else {
		logger.Info("signature archive ready", zap.String("driver", string(archive.Driver())))
	}

	// ----- Fleet store -----
	store := fleet.NewStore(backend.Records, logger.Named("fleet"), fleet.WithMetrics(m))
	s.store = store

	// ----- WebSocket Hub -----
	sessionManager := session.NewManager(redisClient, logger)
	rateLimiter := session.NewRateLimiter(redisClient)

	var authService *authUsecase.AuthService
	hub := websocket.NewHub(tokenValidatorFunc(func(ctx context.Context, token string) (*jwt.Claims, error) {
		return authService.ValidateToken(ctx, token)
	}), logger.Named("ws"))
	hub.RegisterHandler(wsHandlers.NewFleetHandler(store, logger))
	store.Subscribe(hub.FleetListener(store.Now))

	hubCtx, stopHub := context.WithCancel(context.Background())
	s.stopHub = stopHub
	go hub.Run(hubCtx)

	// ----- Services (Usecases) -----
	authService = authUsecase.NewAuthService(
		backend.Users,
		jwtManager,
		sessionManager,
		rateLimiter,
		hub,
		logger,
	)
	s.authService = authService

	signatureService := signature.NewSignatureService(store, archive, logger)
	procedureService := procedureUsecase.NewProcedureService(
		procedure.Catalog(),
		cache.NewProgressRepository(redisClient),
		logger,
	)

	// ----- Bootstrap operator -----
	if err := s.initializeOperator(ctx); err != nil {
		logger.Error("failed to initialize bootstrap operator", zap.Error(err))
	}

	// ----- Initial load -----
	if s.cfg.Fleet.ReloadOnStart {
		if err := store.Reload(ctx); err != nil {
			logger.Error("initial fleet load failed", zap.Error(err))
		}
	}

	// ----- Handlers -----
	statsLimits := statsHandler.Limits{
		WindowDays:    s.cfg.Fleet.WindowDays,
		TopLimit:      s.cfg.Fleet.TopLimit,
		MaxWindowDays: s.cfg.Fleet.MaxWindowDays,
		MaxLimit:      s.cfg.Fleet.MaxLimit,
	}
	handlers := &Handlers{
		AuthHandler:      authHandler.NewAuthHandler(authService, logger),
		UAVHandler:       uavHandler.NewUAVHandler(store, signatureService, logger),
		StatsHandler:     statsHandler.NewStatsHandler(store, statsLimits, logger),
		ProcedureHandler: procedureHandler.NewProcedureHandler(procedureService, logger),
		WSHandler:        wsHandler.NewWebSocketHandler(hub, s.cfg.CORSOrigins, logger),
		AuthMiddleware:   middleware.NewAuthMiddleware(authService),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
		middleware.MetricsMiddleware(m),
	)

	SetupRouter(s.engine, registry, handlers)

	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run serves HTTP until Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP, stops the hub and closes backends
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if s.stopHub != nil {
		s.stopHub()
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if s.backend != nil {
		if err := s.backend.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("store close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// initializeOperator creates the bootstrap account when configured
func (s *Server) initializeOperator(ctx context.Context) error {
	email := s.cfg.BootstrapEmail
	password := s.cfg.BootstrapPassword
	if email == "" {
		return nil
	}
	if len(password) < 8 {
		return fmt.Errorf("bootstrap password must be at least 8 characters")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.authService.EnsureUser(ctx, email, password); err != nil {
		return fmt.Errorf("failed to ensure bootstrap operator exists: %w", err)
	}
	return nil
}

// tokenValidatorFunc lets the hub be built before the auth service it calls
type tokenValidatorFunc func(ctx context.Context, token string) (*jwt.Claims, error)

func (f tokenValidatorFunc) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	return f(ctx, token)
}
