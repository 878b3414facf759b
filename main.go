package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-reminder/backend/internal/cache"
	"task-reminder/backend/internal/config"
	"task-reminder/backend/internal/database"
	"task-reminder/backend/internal/handlers"
	"task-reminder/backend/internal/middleware"
	"task-reminder/backend/internal/monitoring"
	"task-reminder/backend/internal/services"
	"task-reminder/backend/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm/logger"
)

// Application holds all application dependencies and state
type Application struct {
	Config   *config.Config
	DB       *database.DatabasePool
	Redis    *redis.Client
	Cache    *cache.RedisCache
	Worker   *worker.Worker
	JobQueue *worker.JobQueue
	Router   *gin.Engine
	Server   *http.Server

	// Services
	TaskService     services.TaskService
	AuthService     services.AuthService
	RegisterService services.RegisterService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.setupRoutes()
	app.startWorker()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
	}

	log.Println("Initializing task reminder backend...")
	log.Printf("Environment: %s", cfg.Server.Environment)

	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	app.DB = pool

	if err := database.Migrate(pool.DB); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	log.Println("Database connected and migrated")

	redisClient := redis.NewClient(&redis.Options{
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

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable: %v (caching and background jobs disabled)", err)
		redisClient.Close()
		redisClient = nil
	} else {
		app.Redis = redisClient
		log.Println("Redis connected")
	}

	app.AuthService = services.NewAuthService()
	app.RegisterService = services.NewRegisterService()

	taskServiceImpl := services.NewTaskService()
	if app.Redis != nil {
		app.Cache = cache.NewRedisCacheFromClient(app.Redis)
		app.TaskService = services.NewCachedTaskService(taskServiceImpl, app.Cache)
		log.Println("Cached task service initialized")
	} else {
		app.TaskService = taskServiceImpl
		log.Println("Task service initialized")
	}

	if app.Redis != nil {
		app.Worker = worker.NewWorker(worker.WorkerConfig{
			RedisClient: app.Redis,
			Queues:      cfg.Worker.Queues,
		})
		app.Worker.RegisterHandler(worker.JobTypeTokenCleanup, worker.TokenCleanupHandler(pool.DB))
		app.JobQueue = worker.NewJobQueue(app.Redis)
	}

	log.Println("All services initialized")

	return app, nil
}

func (app *Application) setupRoutes() {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(middleware.RecoveryWithLog())
	r.Use(monitoring.MetricsMiddleware())

	if app.Config.RateLimit.Enabled {
		rateLimit := rate.Limit(float64(app.Config.RateLimit.RequestsPerMin) / 60.0)
		r.Use(middleware.RateLimiter(rateLimit, app.Config.RateLimit.BurstSize))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", app.healthHandler())
	r.GET("/metrics", monitoring.MetricsHandler())

	// Public authentication routes
	authRoutes := r.Group("/auth")
	{
		authHandler := handlers.NewAuthHandler(app.DB.DB, app.AuthService)
		refreshHandler := handlers.NewRefreshHandler(app.DB.DB, app.AuthService)
		registerHandler := handlers.NewRegisterHandler(app.DB.DB, app.RegisterService)
		logoutHandler := handlers.NewLogoutHandler(app.DB.DB, app.AuthService)

		authRoutes.POST("/signup", registerHandler.Registration)
		authRoutes.POST("/login", authHandler.Token)
		authRoutes.POST("/refresh", refreshHandler.Refresh)
		authRoutes.POST("/logout", logoutHandler.Logout)
	}

	// Protected task routes
	protected := r.Group("")
	protected.Use(middleware.AuthzMiddleware())
	{
		taskHandler := handlers.NewTaskHandler(app.DB.DB, app.TaskService)
		taskRoutes := protected.Group("/tasks")
		{
			taskRoutes.POST("", taskHandler.CreateTask)
			taskRoutes.PUT("/:id", taskHandler.UpdateTask)
			taskRoutes.DELETE("/:id", taskHandler.DeleteTask)
			taskRoutes.GET("/:id", taskHandler.GetTaskByID)
			taskRoutes.GET("/user/:email", taskHandler.GetTasksByOwner)
		}
	}

	app.Router = r
}

func (app *Application) startWorker() {
	if app.Worker == nil {
		return
	}

	app.Worker.Start(app.Config.Worker.Concurrency)

	// Periodically enqueue the refresh token cleanup job.
	go func() {
		ticker := time.NewTicker(app.Config.Worker.CleanupInterval)
		defer ticker.Stop()

		for range ticker.C {
			if err := app.JobQueue.Enqueue("maintenance", worker.JobTypeTokenCleanup, nil); err != nil {
				log.Printf("Failed to enqueue token cleanup: %v", err)
			}
		}
	}()
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

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}

		app.cleanup()
		log.Println("Server stopped gracefully")
	}()

	log.Printf("Server starting on %s", addr)

	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func (app *Application) cleanup() {
	if app.Worker != nil {
		app.Worker.Stop()
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

func (app *Application) healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "task-reminder-backend",
		}

		if err := app.DB.Health(); err != nil {
			health["status"] = "unhealthy"
			health["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
		health["database"] = "up"

		if app.Cache != nil {
			if err := app.Cache.Health(); err != nil {
				health["redis"] = "down"
			} else {
				health["redis"] = "up"
			}
		}

		c.JSON(http.StatusOK, health)
	}
}
