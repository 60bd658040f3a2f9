package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"schoolbell/internal/cloudinary"
	"schoolbell/internal/config"
	"schoolbell/internal/portal"
	"schoolbell/internal/queue"
	"schoolbell/internal/records"
	"schoolbell/internal/sheet"
	"schoolbell/internal/store"
)

// Worker consumes photo jobs, uploads them to Cloudinary and stores the photo
// URL on the attendance record.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	if cfg.QueueBackend == "memory" {
		log.Fatalf("QUEUE_BACKEND=memory: photos are processed inside the api process, nothing to do")
	}
	if !cfg.CloudinaryEnabled() {
		log.Fatalf("cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	values, err := sheet.NewGoogle(ctx, sheet.Credentials{
		SpreadsheetID: cfg.SpreadsheetID,
		Email:         cfg.ServiceAccountMail,
		PrivateKey:    cfg.PrivateKey,
	})
	if err != nil {
		log.Fatalf("sheet connect failed: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	svc := portal.NewService(records.New(sheet.Instrument(values)), portal.Options{Location: cfg.Location()})
	cdn := cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)

	log.Println("worker started, waiting for photo jobs...")
	if err := svc.ProcessPhotos(ctx, queue.NewRedis(redisClient, ""), cdn); err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}
	log.Println("worker stopped")
}
