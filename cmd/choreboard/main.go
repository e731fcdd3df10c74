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

	"github.com/petravell/choreboard/internal/database"
	"github.com/petravell/choreboard/internal/logging"
	"github.com/petravell/choreboard/internal/photo"
	"github.com/petravell/choreboard/internal/scheduler"
	"github.com/petravell/choreboard/internal/server"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := logging.Setup(os.Getenv("CHOREBOARD_LOG_LEVEL"), os.Getenv("CHOREBOARD_LOG_FORMAT"))

	port := envOr("CHOREBOARD_PORT", "8080")
	dbPath := envOr("CHOREBOARD_DB_PATH", "choreboard.db")

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Photos go to S3 when a bucket is configured, local disk otherwise.
	var photos photo.Store
	if bucket := os.Getenv("CHOREBOARD_S3_BUCKET"); bucket != "" {
		photos = photo.NewS3Store(photo.S3Config{
			Endpoint:  os.Getenv("CHOREBOARD_S3_ENDPOINT"),
			Bucket:    bucket,
			Region:    envOr("CHOREBOARD_S3_REGION", "auto"),
			AccessKey: os.Getenv("CHOREBOARD_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("CHOREBOARD_S3_SECRET_KEY"),
			Prefix:    "chore_photos",
		})
	} else {
		photos, err = photo.NewDirStore(envOr("CHOREBOARD_PHOTO_DIR", "chore_photos"))
		if err != nil {
			log.Fatalf("failed to create photo dir: %v", err)
		}
	}

	srv := server.New(db, photos, server.Config{
		VAPIDPublicKey:  os.Getenv("CHOREBOARD_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("CHOREBOARD_VAPID_PRIVATE_KEY"),
	}, logger)

	// Daily generation defaults to five past midnight.
	cronExpr := envOr("CHOREBOARD_GENERATE_CRON", "5 0 * * *")
	sched, err := scheduler.New(cronExpr, srv.Generator().Generate, logger.With("component", "scheduler"))
	if err != nil {
		log.Fatalf("invalid generation schedule: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Choreboard running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
