package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"medtrack-server/internal/config"
	"medtrack-server/internal/handlers"
	"medtrack-server/internal/notify"
	"medtrack-server/internal/routes"
	"medtrack-server/internal/session"
	"medtrack-server/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// Load environment variables; a missing .env file is fine in production.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx := context.Background()

	// Initialize the document store clients
	dynamoClient, err := store.NewDynamoClient(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("Error creating DynamoDB client: %v", err)
	}
	users := store.NewDynamoUserStore(dynamoClient, cfg.UsersTable)
	appointments := store.NewDynamoAppointmentStore(dynamoClient, cfg.AppointmentsTable)

	// Initialize notification channels
	mailer := notify.NewSMTPMailer(cfg.Email)
	broadcaster, err := notify.NewSNSBroadcaster(ctx, cfg.AWSRegion, cfg.SNSTopicARN, cfg.EnableSNS)
	if err != nil {
		log.Fatalf("Error creating SNS broadcaster: %v", err)
	}

	// Initialize Gin router
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(handlers.Recovery))
	router.Use(cors.Default())

	router.LoadHTMLGlob("templates/*.html")
	session.Setup(router, cfg.SecretKey)

	// Set up routes
	routes.SetupRoutes(router, users, appointments, mailer, broadcaster)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
