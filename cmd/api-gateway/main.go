package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gradeseer/gradeseer-api/api/swagger"
	"github.com/gradeseer/gradeseer-api/internal/advisor"
	"github.com/gradeseer/gradeseer-api/internal/handler"
	authmw "github.com/gradeseer/gradeseer-api/internal/middleware"
	"github.com/gradeseer/gradeseer-api/internal/repository"
	"github.com/gradeseer/gradeseer-api/internal/service"
	"github.com/gradeseer/gradeseer-api/pkg/cache"
	"github.com/gradeseer/gradeseer-api/pkg/config"
	"github.com/gradeseer/gradeseer-api/pkg/database"
	"github.com/gradeseer/gradeseer-api/pkg/jobs"
	"github.com/gradeseer/gradeseer-api/pkg/logger"
	"github.com/gradeseer/gradeseer-api/pkg/mailer"
	corsmiddleware "github.com/gradeseer/gradeseer-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gradeseer/gradeseer-api/pkg/middleware/requestid"
)

// @title GradeSeer API
// @version 1.0.0
// @description Grade tracking, projection, and advisory API for students
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
		defer cacheRepo.Close() //nolint:errcheck
	}

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	componentRepo := repository.NewComponentRepository(db)
	itemRepo := repository.NewItemRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var sender mailer.Sender = mailer.NopSender{}
	if cfg.Mail.Enabled {
		client, err := mailer.NewClient(cfg.Mail, logr)
		if err != nil {
			logr.Sugar().Warnw("mail disabled, falling back to nop sender", "error", err)
		} else {
			sender = client
		}
	}

	emailQueue := jobs.NewQueue("notification-emails", service.NewEmailHandler(sender, logr), jobs.QueueConfig{
		Workers:    cfg.Notifications.EmailWorkers,
		MaxRetries: cfg.Notifications.EmailMaxRetries,
		RetryDelay: cfg.Notifications.EmailRetryDelay,
		Logger:     logr,
	})
	emailQueue.Start(context.Background())
	defer emailQueue.Stop()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "gradeseer",
	})
	subjectSvc := service.NewSubjectService(subjectRepo, cacheSvc, validate, logr)
	componentSvc := service.NewComponentService(componentRepo, subjectRepo, cacheSvc, validate, logr)
	itemSvc := service.NewItemService(itemRepo, componentRepo, subjectRepo, cacheSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(subjectRepo, cacheSvc, logr)
	historySvc := service.NewHistoryService(historyRepo, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, emailQueue, validate, logr)
	exportSvc := service.NewExportService(historyRepo, subjectSvc, logr, cfg.Exports.Enabled)

	var advisorClient service.AdvisorClient
	if cfg.Advisor.Enabled && cfg.Advisor.APIKey != "" {
		client, err := advisor.NewClient(advisor.ClientConfig{
			APIKey:  cfg.Advisor.APIKey,
			BaseURL: cfg.Advisor.BaseURL,
			Models:  cfg.Advisor.Models,
			Timeout: cfg.Advisor.Timeout,
		})
		if err != nil {
			logr.Sugar().Warnw("advisor client unavailable, chats will use local fallback", "error", err)
		} else {
			advisorClient = client
		}
	}
	advisorSvc := service.NewAdvisorService(subjectSvc, dashboardSvc, advisorClient, validate, logr, cfg.Advisor.Enabled)

	authHandler := handler.NewAuthHandler(authSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	componentHandler := handler.NewComponentHandler(componentSvc)
	itemHandler := handler.NewItemHandler(itemSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	historyHandler := handler.NewHistoryHandler(historySvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	advisorHandler := handler.NewAdvisorHandler(advisorSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(authmw.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(authmw.JWT(authSvc))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.POST("/auth/change-password", authHandler.ChangePassword)
	protected.GET("/auth/me", authHandler.Me)

	subjects := protected.Group("/subjects")
	subjects.GET("", subjectHandler.List)
	subjects.POST("", subjectHandler.Create)
	subjects.GET("/:id", subjectHandler.Get)
	subjects.PUT("/:id", subjectHandler.Update)
	subjects.DELETE("/:id", subjectHandler.Delete)
	subjects.GET("/:id/overview", subjectHandler.Overview)
	subjects.POST("/:id/finish", subjectHandler.Finish)
	subjects.GET("/:id/components", componentHandler.List)
	subjects.POST("/:id/components", componentHandler.Create)
	subjects.PUT("/:id/components/:componentId", componentHandler.Update)
	subjects.DELETE("/:id/components/:componentId", componentHandler.Delete)

	items := protected.Group("/components/:componentId/items")
	items.GET("", itemHandler.List)
	items.POST("", itemHandler.Create)
	items.PUT("/:itemId", itemHandler.Update)
	items.DELETE("/:itemId", itemHandler.Delete)

	if cfg.Dashboard.Enabled {
		protected.GET("/dashboard", dashboardHandler.Overview)
	}

	history := protected.Group("/history")
	history.GET("", historyHandler.List)
	history.GET("/:id", historyHandler.Get)
	history.DELETE("/:id", historyHandler.Delete)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.POST("", notificationHandler.Create)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.Delete)

	protected.POST("/advisor/chat", advisorHandler.Chat)

	if cfg.Exports.Enabled {
		exports := protected.Group("/exports")
		exports.GET("/transcript", exportHandler.Transcript)
		exports.GET("/subjects/:id", exportHandler.SubjectReport)
	}

	protected.GET("/metrics/snapshot", metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
