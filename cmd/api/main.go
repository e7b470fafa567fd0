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

	_ "github.com/slotwise/slotwise-api/api/swagger"
	"github.com/slotwise/slotwise-api/internal/email"
	"github.com/slotwise/slotwise-api/internal/handler"
	"github.com/slotwise/slotwise-api/internal/middleware"
	"github.com/slotwise/slotwise-api/internal/repository"
	"github.com/slotwise/slotwise-api/internal/service"
	"github.com/slotwise/slotwise-api/pkg/cache"
	"github.com/slotwise/slotwise-api/pkg/config"
	"github.com/slotwise/slotwise-api/pkg/database"
	"github.com/slotwise/slotwise-api/pkg/logger"
	corsmiddleware "github.com/slotwise/slotwise-api/pkg/middleware/cors"
	reqidmiddleware "github.com/slotwise/slotwise-api/pkg/middleware/requestid"
)

// @title SlotWise API
// @version 0.1.0
// @description Appointment availability and booking engine
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, availability caching disabled", "error", err)
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	calendarRepo := repository.NewCalendarRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	sender := email.NewSMTPSender(cfg.Notifications.SMTPHost, cfg.Notifications.SMTPPort, cfg.Notifications.FromAddress)
	notificationSvc := service.NewNotificationService(sender, cfg.Notifications, logr)
	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	calendarSvc := service.NewCalendarService(calendarRepo, ruleRepo, cacheRepo, validate, logr)
	availabilitySvc := service.NewAvailabilityService(calendarRepo, ruleRepo, bookingRepo, cacheRepo, metricsSvc, cfg.Booking, logr)
	bookingSvc := service.NewBookingService(bookingRepo, calendarRepo, cacheRepo, notificationSvc, metricsSvc, cfg.Booking, validate, logr)
	exportSvc := service.NewExportService(bookingSvc, logr)

	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
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

	// Public booking surface, reachable without a tenant header.
	api.GET("/calendars/:id/availability", availabilityHandler.Get)
	api.POST("/calendars/:id/bookings", bookingHandler.Create)

	admin := api.Group("", middleware.RequireTenant())
	admin.GET("/calendars", calendarHandler.List)
	admin.POST("/calendars", calendarHandler.Create)
	admin.GET("/calendars/:id", calendarHandler.Get)
	admin.PUT("/calendars/:id", calendarHandler.Update)
	admin.DELETE("/calendars/:id", calendarHandler.Deactivate)
	admin.GET("/calendars/:id/rules", calendarHandler.ListRules)
	admin.PUT("/calendars/:id/rules", calendarHandler.ReplaceRules)
	admin.GET("/calendars/:id/bookings", bookingHandler.List)
	if cfg.Exports.Enabled {
		admin.GET("/calendars/:id/bookings/export", exportHandler.Bookings)
	}
	admin.GET("/bookings/:id", bookingHandler.Get)
	admin.POST("/bookings/:id/accept", bookingHandler.Accept)
	admin.POST("/bookings/:id/decline", bookingHandler.Decline)
	admin.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	admin.POST("/bookings/:id/complete", bookingHandler.Complete)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
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
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
