package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"schoolbell/internal/auth"
	"schoolbell/internal/cloudinary"
	"schoolbell/internal/config"
	"schoolbell/internal/handler"
	"schoolbell/internal/httpmiddleware"
	"schoolbell/internal/portal"
	"schoolbell/internal/queue"
	"schoolbell/internal/records"
	"schoolbell/internal/sheet"
	"schoolbell/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	values, err := openValues(ctx, cfg)
	if err != nil {
		return err
	}
	if err := records.EnsureHeaders(ctx, values); err != nil {
		log.Printf("warning: could not check sheet headers: %v", err)
	}

	health := store.NewHealth(3 * time.Second)
	health.Add("sheet", store.SheetCheck(values))

	var redisClient *redis.Client
	if cfg.QueueBackend != "memory" || cfg.RateLimitBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		health.Add("redis", store.RedisCheck(redisClient))
	}

	// Cloudinary client (nil when not configured)
	var cdnClient *cloudinary.Client
	if cfg.CloudinaryEnabled() {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set), photos are dropped")
	}

	var photos queue.Queue
	switch {
	case cdnClient == nil:
	case cfg.QueueBackend == "memory":
		photos = queue.NewInMemory(64)
	default:
		photos = queue.NewRedis(redisClient, "")
	}

	svc := portal.NewService(records.New(values), portal.Options{
		TeacherEmail:        cfg.TeacherEmail,
		TeacherPasswordHash: cfg.TeacherPasswordHash,
		Location:            cfg.Location(),
		Photos:              photos,
	})
	if cfg.TeacherEmail == "" || cfg.TeacherPasswordHash == "" {
		log.Println("warning: TEACHER_EMAIL / TEACHER_PASSWORD_HASH not set, teacher login disabled")
	}

	// the in-memory queue has no other consumer
	if mem, ok := photos.(*queue.InMemory); ok {
		go func() {
			if err := svc.ProcessPhotos(ctx, mem, cdnClient); err != nil {
				log.Printf("photo worker stopped: %v", err)
			}
		}()
	}

	var limiter httpmiddleware.Limiter = httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	if cfg.RateLimitBackend == "redis" {
		limiter = httpmiddleware.NewRedisWindow(redisClient, cfg.RateLimitPerMin)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.Logger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", httpmiddleware.RequestIDHeader},
		ExposeHeaders:    []string{httpmiddleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.RateLimit(limiter))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	signer := auth.NewSigner(cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
	handler.New(svc, signer, health).Register(r)

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}
	log.Println("Server exited")
	return nil
}

// openValues connects the configured sheet backend, instrumented for /metrics.
func openValues(ctx context.Context, cfg config.App) (sheet.Values, error) {
	if cfg.SheetBackend == "memory" {
		log.Println("warning: SHEET_BACKEND=memory, records are lost on restart")
		return sheet.Instrument(sheet.NewMemory()), nil
	}
	g, err := sheet.NewGoogle(ctx, sheet.Credentials{
		SpreadsheetID: cfg.SpreadsheetID,
		Email:         cfg.ServiceAccountMail,
		PrivateKey:    cfg.PrivateKey,
	})
	if err != nil {
		return nil, err
	}
	return sheet.Instrument(g), nil
}
