package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hannahhealth/sms-gateway/backend/config"
	"github.com/hannahhealth/sms-gateway/backend/internal/conversation"
	"github.com/hannahhealth/sms-gateway/backend/internal/database"
	"github.com/hannahhealth/sms-gateway/backend/internal/server"
	"github.com/hannahhealth/sms-gateway/backend/internal/service"
	"github.com/hannahhealth/sms-gateway/backend/internal/sms"
)

func main() {
	// Missing credentials are a fatal startup condition, never a
	// per-request surprise
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	store := conversation.NewStore(redisClient, conversation.DefaultTTL)
	chatClient := service.NewAIChatClient(cfg.AIBackendURL)
	extractor := service.NewExtractorService(chatClient)
	foodLog := service.NewFoodLogService(db, cfg.AutoProvisionUsers)
	gateway := service.NewGatewayService(store, extractor, foodLog, cfg.ServicePhoneNumber)
	messenger := sms.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.ServicePhoneNumber)

	srv := server.New(cfg, db, redisClient, gateway, messenger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
