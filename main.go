package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bellapacxx/bingo-caller/config"
	"github.com/bellapacxx/bingo-caller/controllers"
	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/routes"
	"github.com/bellapacxx/bingo-caller/services"
	"github.com/bellapacxx/bingo-caller/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupStore uses postgres when DATABASE_URL is set, otherwise keeps games in memory.
func setupStore(cfg *config.Config) services.Store {
	if cfg.DatabaseURL == "" {
		logger.Warnf("[Init] DATABASE_URL not set, games and ledger are kept in memory only")
		return services.NewMemoryStore()
	}
	db, err := config.SetupDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("[Init] database: %v", err)
	}
	logger.Infof("[Init] database connected and migrated")
	return services.NewGormStore(db)
}

func setupRegistry(cfg *config.Config, store services.Store, hub *services.Hub) *services.Registry {
	pattern, err := game.NamedPattern(cfg.DefaultPattern)
	if err != nil {
		logger.Fatalf("[Init] DEFAULT_PATTERN: %v", err)
	}
	defaults := services.Settings{BetAmount: cfg.DefaultBet, HouseEdge: cfg.DefaultEdge, Pattern: pattern}
	if err := defaults.Validate(); err != nil {
		logger.Fatalf("[Init] default settings: %v", err)
	}

	opts := []services.Option{
		services.WithDefaults(defaults),
		services.WithAutoCreate(cfg.AutoCreate),
		services.WithHistorySize(cfg.HistorySize),
		services.WithNotifier(hub.Broadcast),
	}
	if cfg.CardsFile != "" {
		catalog, err := services.LoadCardCatalog(cfg.CardsFile)
		if err != nil {
			logger.Fatalf("[Init] cards: %v", err)
		}
		logger.Infof("[Init] loaded %d bingo cards", catalog.Len())
		opts = append(opts, services.WithCardCatalog(catalog))
	}

	registry := services.NewRegistry(store, opts...)
	if err := registry.Restore(context.Background()); err != nil {
		logger.Fatalf("[Init] restore open game: %v", err)
	}
	return registry
}

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg *config.Config, ctl *controllers.Controller) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", controllers.CallerHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, ctl)
	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("[Init] config: %v", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFile); err != nil {
		logger.Fatalf("[Init] logger: %v", err)
	}
	defer logger.Sync()

	hub := services.NewHub()
	store := setupStore(cfg)
	registry := setupRegistry(cfg, store, hub)

	drawer, err := services.NewAutoDrawer(registry, cfg.DrawInterval)
	if err != nil {
		logger.Fatalf("[Init] auto draw: %v", err)
	}

	ctl := controllers.New(registry, drawer, hub)
	ctl.AllowedOrigins = cfg.AllowedOrigins

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(cfg, ctl),
	}
	go func() {
		logger.Infof("🚀 Bingo caller starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("[FATAL] Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("Shutting down...")

	if err := drawer.Shutdown(); err != nil {
		logger.Errorf("auto draw shutdown: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
}
