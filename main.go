package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stephan2025u/FMS-NEW/consumer"
	"github.com/Stephan2025u/FMS-NEW/handlers"
	"github.com/Stephan2025u/FMS-NEW/middleware"
	"github.com/Stephan2025u/FMS-NEW/models"
	"github.com/Stephan2025u/FMS-NEW/monitoring"
	"github.com/Stephan2025u/FMS-NEW/stats"
	"github.com/Stephan2025u/FMS-NEW/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	logger := log.New(os.Stdout, "FMS: ", log.LstdFlags|log.Lshortfile)

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := utils.InitSentry(dsn); err != nil {
			logger.Printf("Sentry disabled: %v", err)
		}
	}

	repo := newRepository(logger)
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Printf("Error closing repository: %v", err)
		}
	}()

	// Redis с ретраями; сервис работает и без кэша
	var redisClient utils.RedisClient
	var err error
	maxRetries := 5
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		redisClient, err = utils.NewRedisClient()
		if err == nil {
			break
		}
		logger.Printf("Attempt %d: Failed to connect to Redis: %v", i+1, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		logger.Printf("Running without Redis cache after %d attempts: %v", maxRetries, err)
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Printf("Error closing Redis connection: %v", err)
			}
		}()
	}

	kafkaProducer, err := utils.NewKafkaProducer()
	if err != nil {
		logger.Printf("Running without Kafka: %v", err)
		kafkaProducer = nil
	} else {
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				logger.Printf("Error closing Kafka producer: %v", err)
			}
		}()
	}

	var esClient utils.ElasticsearchClient
	if os.Getenv("ELASTICSEARCH_URL") != "" {
		esClient, err = utils.NewElasticsearchClient()
		if err != nil {
			logger.Printf("Running without Elasticsearch: %v", err)
			esClient = nil
		}
	}

	monitoring.Init()

	reconciler := stats.NewReconciler(repo)
	clientHandler := handlers.NewClientHandler(repo, redisClient, kafkaProducer, esClient)
	testResultHandler := handlers.NewTestResultHandler(repo, reconciler, redisClient, kafkaProducer)
	exerciseHandler := handlers.NewExerciseHandler()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SentryMiddleware(), middleware.ErrorHandler())
	router.Use(middleware.PrometheusMetrics())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "FMS Assessment Service API"})
	})
	router.GET("/metrics", gin.WrapH(monitoring.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if redisClient != nil {
				if err := redisClient.SetToCache(ctx, "healthcheck", "ping", 10*time.Second); err != nil {
					c.JSON(http.StatusServiceUnavailable, gin.H{
						"status":  "degraded",
						"details": gin.H{"redis": "unavailable"},
						"error":   err.Error(),
					})
					return
				}
			}

			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"details": gin.H{"redis": redisStatus(redisClient)},
			})
		})

		api.GET("/fms-exercises", exerciseHandler.ListExercises)
		api.GET("/fms-exercises/:id", exerciseHandler.GetExercise)

		api.POST("/clients", clientHandler.CreateClient)
		api.GET("/clients", clientHandler.ListClients)
		api.GET("/clients/search", clientHandler.SearchClients)
		api.GET("/clients/:id", clientHandler.GetClient)
		api.PUT("/clients/:id", clientHandler.UpdateClient)
		api.DELETE("/clients/:id", clientHandler.DeleteClient)

		api.POST("/test-results", testResultHandler.CreateTestResult)
		api.GET("/test-results/client/:client_id", testResultHandler.ListClientResults)
		api.GET("/test-results/:id", testResultHandler.GetTestResult)
		api.DELETE("/test-results/:id", testResultHandler.DeleteTestResult)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if kafkaProducer != nil {
		assessmentConsumer := consumer.NewAssessmentConsumer(redisClient, esClient)
		assessmentConsumer.Start(ctx)
		defer assessmentConsumer.Stop()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Printf("Server is running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Server shutdown error: %v", err)
	}
}

// newRepository выбирает хранилище: Postgres в проде, in-memory когда
// DB_HOST не задан (локальная разработка).
func newRepository(logger *log.Logger) models.Repository {
	if os.Getenv("DB_HOST") == "" {
		logger.Println("DB_HOST is not set, using in-memory repository")
		return models.NewMemoryRepository()
	}

	maxRetries := 5
	retryDelay := 3 * time.Second

	var repo *models.PostgresRepository
	var err error
	for i := 0; i < maxRetries; i++ {
		repo, err = models.NewPostgresRepository()
		if err == nil {
			return repo
		}
		logger.Printf("Attempt %d: Failed to connect to Postgres: %v", i+1, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	logger.Fatalf("Failed to initialize Postgres after %d attempts: %v", maxRetries, err)
	return nil
}

func redisStatus(client utils.RedisClient) string {
	if client == nil {
		return "disabled"
	}
	return "available"
}
