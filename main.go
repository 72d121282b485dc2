package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/cache"
	"github.com/DhananjayDev21/task-management-system/internal/client"
	"github.com/DhananjayDev21/task-management-system/internal/config"
	"github.com/DhananjayDev21/task-management-system/internal/database"
	"github.com/DhananjayDev21/task-management-system/internal/handlers"
	"github.com/DhananjayDev21/task-management-system/internal/loader"
	"github.com/DhananjayDev21/task-management-system/internal/middleware"
	"github.com/DhananjayDev21/task-management-system/internal/monitoring"
	"github.com/DhananjayDev21/task-management-system/internal/notify"
	"github.com/DhananjayDev21/task-management-system/internal/services"
	"github.com/DhananjayDev21/task-management-system/internal/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Application holds all application dependencies and state
type Application struct {
	Config  *config.Config
	DB      *database.DatabasePool
	Cache   *cache.MultiLevelCache
	Redis   *cache.RedisCache
	Monitor *monitoring.Monitor
	Router  *gin.Engine
	Server  *http.Server

	// Embedded /tasks store
	TaskService   services.TaskService
	CachedService *services.CachedTaskService

	// Views
	Store     *client.TaskStore
	Toasts    *notify.Center
	List      *views.ListView
	Analytics *views.AnalyticsView
	Insights  *views.InsightsView
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize application: %v", err)
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config:  cfg,
		Monitor: monitoring.New(),
	}

	log.Println("🚀 Initializing Task Tracker...")
	log.Printf("📋 Environment: %s", cfg.Server.Environment)

	if cfg.Store.Embedded {
		if err := app.initStore(); err != nil {
			return nil, err
		}
	}

	store, err := client.NewTaskStore(client.Config{
		BaseURL: cfg.Store.URL,
		Timeout: cfg.Store.Timeout,
		Breaker: &client.BreakerConfig{
			MaxFailures:      cfg.Breaker.MaxFailures,
			Timeout:          cfg.Breaker.Timeout,
			HalfOpenMaxCalls: cfg.Breaker.HalfOpenMaxCalls,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("task store client: %w", err)
	}
	app.Store = store.WithObserver(app.Monitor.RecordStoreCall)
	log.Printf("✅ Task store client ready (%s)", cfg.Store.URL)

	app.Toasts = notify.NewCenter(cfg.UI.ToastDuration)
	deps := views.Deps{
		Store:    app.Store,
		Loader:   loader.Default,
		Notifier: app.Toasts,
	}
	app.List = views.NewListView(deps)
	app.Analytics = views.NewAnalyticsView(deps)
	app.Insights = views.NewInsightsView(deps)
	log.Println("✅ Views initialized")

	app.registerHealthChecks()
	return app, nil
}

// initStore opens the database and cache behind the embedded /tasks resource.
func (app *Application) initStore() error {
	cfg := app.Config

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        database.ParseLogLevel(cfg.Database.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	app.DB = pool

	if err := pool.Migrate(); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	log.Println("✅ Database connected and migrated")

	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(&cache.RedisConfig{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisCache.Health(ctx); err != nil {
			log.Printf("⚠️  Redis unavailable: %v (continuing with memory cache only)", err)
			redisCache.Close()
		} else {
			app.Redis = redisCache
			log.Println("✅ Redis connected")
		}
	}

	app.Cache = cache.NewMultiLevelCache(app.Redis, cfg.Store.CacheTTL)
	if app.Redis != nil {
		log.Println("✅ Multi-level cache initialized (Memory L1 + Redis L2)")
	} else {
		log.Println("✅ Memory cache initialized")
	}

	app.CachedService = services.NewCachedTaskService(services.NewTaskService(pool.DB), app.Cache, cfg.Store.CacheTTL)
	app.TaskService = app.CachedService
	log.Println("✅ Cached task service initialized")
	return nil
}

func (app *Application) registerHealthChecks() {
	if app.DB != nil {
		app.Monitor.RegisterHealthCheck("database", app.DB.Health)
	}
	if app.Cache != nil {
		app.Monitor.RegisterHealthCheck("cache", app.Cache.Health)
	}
	app.Monitor.RegisterHealthCheck("task_store", func(context.Context) error {
		if app.Store.Breaker().State() == client.BreakerOpen {
			return client.ErrCircuitOpen
		}
		return nil
	})
}

func (app *Application) setupRoutes() {
	r := gin.New()

	// Global middleware stack (order matters!)
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryWithLog())
	r.Use(app.Monitor.Middleware())

	if app.Config.RateLimit.Enabled {
		if app.Redis != nil {
			limiter := middleware.NewDistributedRateLimiter(app.Redis.Client(), app.Config.RateLimit.RequestsPerMin, time.Minute)
			r.Use(limiter.Middleware("api"))
		} else {
			r.Use(middleware.RateLimiter(app.Config.RateLimit.RequestsPerMin, app.Config.RateLimit.BurstSize))
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.UI.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", app.Monitor.HealthHandler())
	r.GET("/ready", app.Monitor.ReadinessHandler())
	r.GET("/metrics", app.Monitor.MetricsHandler())

	if app.TaskService != nil {
		handlers.NewTaskHandler(app.TaskService).RegisterRoutes(r)
	}

	v1 := r.Group("/api/v1")
	handlers.NewViewHandler(app.List, app.Analytics, app.Insights, loader.Default, app.Toasts).RegisterRoutes(v1)

	if app.CachedService != nil {
		handlers.NewCacheHandler(app.CachedService).RegisterRoutes(v1)
	}

	app.Router = r
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	// The views may load from the embedded store, so listen before loading.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}

	go app.loadViews()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")

		app.closeViews()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}

		app.cleanup()
		log.Println("✅ Server stopped gracefully")
	}()

	log.Printf("🚀 Server starting on %s", addr)
	log.Printf("📊 Metrics available at http://%s/metrics", addr)
	log.Printf("💚 Health check at http://%s/health", addr)

	if err := app.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// loadViews fills every view once at startup. Failures surface as toasts.
func (app *Application) loadViews() {
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Store.Timeout)
	defer cancel()

	for name, load := range map[string]func(context.Context) error{
		"my tasks":  app.List.Load,
		"analytics": app.Analytics.Load,
		"insights":  app.Insights.Load,
	} {
		if err := load(ctx); err != nil {
			log.Printf("⚠️  Initial %s load failed: %v", name, err)
		}
	}
	log.Println("✅ Views loaded")
}

func (app *Application) closeViews() {
	app.List.Close()
	app.Analytics.Close()
	app.Insights.Close()
}

func (app *Application) cleanup() {
	log.Println("🧹 Cleaning up resources...")

	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			log.Printf("⚠️  Error closing cache: %v", err)
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			log.Printf("⚠️  Error closing database: %v", err)
		}
	}

	log.Println("✅ Cleanup complete")
}
