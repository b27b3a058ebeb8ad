package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/api"
	"github.com/BigManDrewskii/greekgpt/cache"
	"github.com/BigManDrewskii/greekgpt/config"
	"github.com/BigManDrewskii/greekgpt/database"
	"github.com/BigManDrewskii/greekgpt/middleware"
	"github.com/BigManDrewskii/greekgpt/models"
	"github.com/BigManDrewskii/greekgpt/repository"
	"github.com/BigManDrewskii/greekgpt/services"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Optional chatbot cache; nil when Redis is disabled or unreachable.
	botCache := cache.New(config.AppConfig.Redis)

	// Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	chatbotRepo := repository.NewChatbotRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize Services
	completionClient := services.NewCompletionClient(config.AppConfig.OpenAI)
	chatbotService := services.NewChatbotService(chatbotRepo, botCache)
	conversationService := services.NewConversationService(conversationRepo, messageRepo)
	analyticsService := services.NewAnalyticsService(chatbotRepo, conversationRepo, messageRepo)
	chatService := services.NewChatService(
		chatbotService,
		conversationService,
		completionClient,
		messageRepo,
		conversationRepo,
		userRepo,
		analyticsRepo,
	)
	log.Println("INFO: [Main] Services initialized.")

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(
		chatService,
		chatbotService,
		analyticsService,
		conversationRepo,
		messageRepo,
		userRepo,
		paymentRepo,
	)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Chatbot{},
		&models.Conversation{},
		&models.Message{},
		&models.AnalyticsEvent{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	r.GET("/", handler.RootHandler)

	// API route group
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/chat", handler.ChatHandler)
		apiGroup.GET("/sessions/:session_id/messages", handler.SessionMessagesHandler)

		chatbotGroup := apiGroup.Group("/chatbots")
		{
			chatbotGroup.POST("", handler.CreateChatbotHandler)
			chatbotGroup.GET("", handler.ListChatbotsHandler)
			chatbotGroup.GET("/:chatbotID", handler.GetChatbotHandler)
			chatbotGroup.PUT("/:chatbotID", handler.UpdateChatbotHandler)
			chatbotGroup.GET("/:chatbotID/analytics", handler.AnalyticsHandler)
		}

		userGroup := apiGroup.Group("/users")
		{
			userGroup.POST("", handler.RegisterUserHandler)
			userGroup.GET("/:userID", handler.GetUserHandler)
			userGroup.GET("/:userID/payments", handler.ListPaymentsHandler)
		}

		paymentGroup := apiGroup.Group("/payments")
		{
			paymentGroup.POST("", handler.CreatePaymentHandler)
			paymentGroup.POST("/:paymentID/status", handler.UpdatePaymentStatusHandler)
		}
	}

	// Compatibility aliases matching the original public contract.
	r.POST("/chat", handler.ChatHandler)
	r.GET("/sessions/:session_id/messages", handler.SessionMessagesHandler)
}
