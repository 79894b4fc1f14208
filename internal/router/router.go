package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/aichat"
	"github.com/uniconnect-hub/backend/internal/email"
	"github.com/uniconnect-hub/backend/internal/handlers"
	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/realtime"
	"github.com/uniconnect-hub/backend/internal/repositories"
	"github.com/uniconnect-hub/backend/internal/storage"
	"github.com/uniconnect-hub/backend/internal/viewmodel"
	"github.com/uniconnect-hub/backend/pkg/config"
)

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.UserRole{},
		&models.Post{},
		&models.PostMedia{},
		&models.Like{},
		&models.Comment{},
		&models.SavedPost{},
		&models.Story{},
		&models.StoryLike{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.Notification{},
		&models.Follow{},
		&models.Confession{},
		&models.VerificationRequest{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Change bus and SSE broker ---
	bus := realtime.NewBus()
	broker := realtime.NewBroker()
	realtime.StartPump(bus, broker,
		map[string]bool{repositories.TableNotifications: true},
		repositories.TablePosts,
		repositories.TablePostMedia,
		repositories.TableLikes,
		repositories.TableComments,
		repositories.TableStories,
		repositories.TableStoryLikes,
		repositories.TableConversations,
		repositories.TableMessages,
		repositories.TableNotifications,
		repositories.TableFollows,
		repositories.TableConfessions,
		repositories.TableProfiles,
	)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	profileRepo := repositories.NewPostgresProfileRepository(pgdb, bus)
	roleRepo := repositories.NewPostgresRoleRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb, bus)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb, bus)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb, bus)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(pgdb, bus)
	storyRepo := repositories.NewPostgresStoryRepository(pgdb, bus)
	conversationRepo := repositories.NewPostgresConversationRepository(pgdb, bus)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb, bus)
	followRepo := repositories.NewPostgresFollowRepository(pgdb, bus)
	confessionRepo := repositories.NewPostgresConfessionRepository(pgdb, bus)
	verificationRepo := repositories.NewPostgresVerificationRepository(pgdb, bus)
	auditRepo := repositories.NewPostgresAuditRepository(pgdb, bus)
	chatRepo := repositories.NewMongoChatRepository(mgClient.Database("uniconnect"))

	// --- Media storage ---
	store, err := storage.NewS3Store(context.Background(), storage.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Endpoint:  cfg.S3Endpoint,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	// --- View models and services ---
	postsVM, err := viewmodel.NewPostsViewModel(postRepo, profileRepo, likeRepo, commentRepo, savedPostRepo, store, bus)
	if err != nil {
		log.Fatalf("Failed to build posts view model: %v", err)
	}
	storiesVM, err := viewmodel.NewStoriesViewModel(storyRepo, profileRepo, store, bus)
	if err != nil {
		log.Fatalf("Failed to build stories view model: %v", err)
	}
	messagesVM, err := viewmodel.NewMessagesViewModel(conversationRepo, profileRepo, bus)
	if err != nil {
		log.Fatalf("Failed to build messages view model: %v", err)
	}
	notificationsVM := viewmodel.NewNotificationsViewModel(notificationRepo, bus)

	mailer := email.NewSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})

	followSvc := viewmodel.NewFollowService(followRepo, profileRepo, notificationsVM)
	confessionSvc := viewmodel.NewConfessionService(confessionRepo, auditRepo)
	verificationSvc := viewmodel.NewVerificationService(verificationRepo, profileRepo, userRepo, auditRepo, mailer)

	aiClient := aichat.NewClient(aichat.Config{
		BaseURL: cfg.AIGatewayURL,
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
	})
	aiService := aichat.NewService(aiClient, chatRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, profileRepo, roleRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	api.Use(middleware.BlockSuspended(profileRepo))

	userHandler := handlers.NewUserHandler(profileRepo, followSvc, store)
	userHandler.RegisterUserRoutes(api)

	postHandler := handlers.NewPostHandler(postsVM)
	postHandler.RegisterPostRoutes(api)

	storyHandler := handlers.NewStoryHandler(storiesVM)
	storyHandler.RegisterStoryRoutes(api)

	messageHandler := handlers.NewMessageHandler(messagesVM)
	messageHandler.RegisterMessageRoutes(api)

	followHandler := handlers.NewFollowHandler(followSvc)
	followHandler.RegisterFollowRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationsVM)
	notificationHandler.RegisterNotificationRoutes(api)

	confessionHandler := handlers.NewConfessionHandler(confessionSvc)
	confessionHandler.RegisterConfessionRoutes(api)

	verificationHandler := handlers.NewVerificationHandler(verificationSvc)
	verificationHandler.RegisterVerificationRoutes(api)

	realtimeHandler := handlers.NewRealtimeHandler(broker)
	realtimeHandler.RegisterRealtimeRoutes(api)

	// Assistant routes carry their own rate limit; every call spends
	// upstream credits.
	aiGroup := e.Group("/api/v1")
	aiGroup.Use(middleware.JWTAuthMiddleware())
	aiGroup.Use(middleware.BlockSuspended(profileRepo))
	aiGroup.Use(middleware.RateLimit(20, time.Minute))
	aiHandler := handlers.NewAIChatHandler(aiService, roleRepo)
	aiHandler.RegisterAIChatRoutes(aiGroup)

	// --- Admin routes ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware())
	admin.Use(middleware.RequireAdmin(roleRepo))

	adminHandler := handlers.NewAdminHandler(profileRepo, auditRepo, notificationsVM)
	adminHandler.RegisterAdminRoutes(admin)
	confessionHandler.RegisterAdminConfessionRoutes(admin)
	verificationHandler.RegisterAdminVerificationRoutes(admin)

	log.Println("All routes configured.")
}
