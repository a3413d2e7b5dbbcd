package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	apihttp "inkwell/internal/controller/http"
	"inkwell/internal/repo/persistent"
	"inkwell/internal/usecase"
	"inkwell/pkg/cache"
	"inkwell/pkg/config"
	"inkwell/pkg/jwt"
	"inkwell/pkg/logger"
	"inkwell/pkg/middleware"
	"inkwell/pkg/upload"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "inkwell/docs" // Swagger docs
)

// State is the explicit server lifecycle. Start and Stop are guarded by
// state transitions, never by free-floating booleans.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateListening
	StateStopping
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	cacheClient *cache.Client
	jwtService  *jwt.Service
	router      *gin.Engine
	httpServer  *http.Server

	mu    sync.Mutex
	state State
}

type dbConnector func(cfg *config.Config) (*gorm.DB, error)

// New wires every component and builds the route table exactly once,
// before Start is ever possible.
func New(cfg *config.Config, connect dbConnector) (*App, error) {
	log := logger.New()

	db, err := connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	cacheClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		// Redis is optional; the profile cache degrades to a no-op.
		log.Warn("Redis unavailable, running without profile cache: %v", err)
		cacheClient = nil
	}

	uploads, err := upload.New(cfg.UploadDir, cfg.UploadBaseURL, cfg.UploadMaxBytes, log)
	if err != nil {
		log.Error("Failed to prepare upload directory: %v", err)
		return nil, err
	}

	tokenTTL := time.Duration(cfg.JWTTTLHours) * time.Hour
	if tokenTTL <= 0 {
		log.Warn("JWT_TTL_HOURS=%d is not positive, using default of %s", cfg.JWTTTLHours, jwt.DefaultTTL)
		tokenTTL = jwt.DefaultTTL
	}
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, tokenTTL)

	userRepo := persistent.NewUserRepository(db)
	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, log)
	userUseCase := usecase.NewUserUseCase(userRepo, uploads, cacheClient, log)

	a := &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		cacheClient: cacheClient,
		jwtService:  jwtService,
		state:       StateStopped,
	}
	a.router = a.buildRouter(
		apihttp.NewAuthHandler(authUseCase),
		apihttp.NewUserHandler(userUseCase),
	)
	return a, nil
}

func (a *App) buildRouter(authHandler *apihttp.AuthHandler, userHandler *apihttp.UserHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static(a.cfg.UploadBaseURL, a.cfg.UploadDir)

	api := r.Group("/api/v1")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.GET("/me", userHandler.Me)
			protected.GET("/users/:id", userHandler.GetUser)
			protected.PUT("/users/:id", userHandler.UpdateUser)
			protected.DELETE("/users/:id", userHandler.DeleteUser)
			protected.POST("/users/:id/avatar", userHandler.UploadAvatar)

			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", userHandler.ListUsers)
				admin.POST("/users", userHandler.CreateUser)
			}
		}
	}

	return r
}

func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Start transitions Stopped -> Starting -> Listening. Calling it while
// the server is starting or already listening is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	if a.state != StateStopped {
		a.mu.Unlock()
		return nil
	}
	a.state = StateStarting
	a.mu.Unlock()

	listener, err := net.Listen("tcp", ":"+a.cfg.ServerPort)
	if err != nil {
		a.mu.Lock()
		a.state = StateStopped
		a.mu.Unlock()
		return fmt.Errorf("failed to listen on port %s: %w", a.cfg.ServerPort, err)
	}

	a.mu.Lock()
	a.httpServer = &http.Server{Handler: a.router}
	a.state = StateListening
	a.mu.Unlock()

	go func() {
		a.log.Info("Server listening on %s", listener.Addr())
		if err := a.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Server error: %v", err)
		}
	}()

	return nil
}

// Stop transitions Listening -> Stopping -> Stopped and drains in-flight
// requests. Calling it on a stopped server is a no-op.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	if a.state != StateListening {
		a.mu.Unlock()
		return nil
	}
	a.state = StateStopping
	server := a.httpServer
	a.mu.Unlock()

	var shutdownErr error
	if err := server.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		shutdownErr = err
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.Error("Error closing database: %v", err)
			}
		}
	}

	if a.cacheClient != nil {
		if err := a.cacheClient.Close(); err != nil {
			a.log.Error("Error closing redis: %v", err)
		}
	}

	a.mu.Lock()
	a.state = StateStopped
	a.mu.Unlock()

	a.log.Info("Server stopped")
	return shutdownErr
}
