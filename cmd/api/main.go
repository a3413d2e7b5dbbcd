package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/app"
	"inkwell/pkg/config"
	"inkwell/pkg/database"
)

// @title           Inkwell API
// @version         1.0
// @description     User accounts, JWT authentication and avatar uploads.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(cfg, database.NewPostgresDB)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Stop(ctx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
}
