package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hemkey/internal/config"
	"hemkey/internal/counter"
	"hemkey/internal/email"
	"hemkey/internal/metrics"
	"hemkey/internal/server"
)

func main() {
	ctx := context.Background()

	// .env.local wins over .env; real environment wins over both
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	cfg := config.Load()

	site, err := config.LoadSiteContent(cfg.SiteConfigFile)
	if err != nil {
		log.Fatalf("Failed to load site content: %v", err)
	}

	// Initialize the visitor counter store
	store, err := counter.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open visitor counter: %v", err)
	}
	defer store.Close()

	metrics.Init(store)

	relay := email.NewRelay(cfg, site)

	srv := server.New(cfg, site)
	srv.RegisterRoutes(store, relay)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
