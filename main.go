package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"george/config"
	"george/database"
	conversationRepo "george/database/repository/conversation"
	reservationRepo "george/database/repository/reservation"
	roomRepo "george/database/repository/room"
	"george/handlers"
	"george/middleware"
	"george/models"
	"george/routes"
	"george/services/booking"
	ai "george/services/intelligence"
	"george/services/notification"
	"george/services/retrieval"
	"george/services/tasks"
	"george/services/tools"
	"george/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitPostgres()
	database.InitMongo()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Collaborators.
	llm, err := ai.NewGeminiClient(
		context.Background(),
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiModel,
		config.AppConfig.EmbeddingModel,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
	}

	facts, err := tools.LoadHotelFacts(config.AppConfig.HotelFactsPath)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// Repositories.
	rooms := roomRepo.NewPostgresRoomRepo(database.PgPool)
	reservations := reservationRepo.NewPostgresReservationRepo(database.PgPool)
	archive := conversationRepo.NewMongoConversationRepo(database.MongoClient, "george")

	// Per-session stores.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	cache := utils.GetCacheClient()
	memory := ai.NewRedisMemoryStore(cache, sessionTTL, config.AppConfig.MemoryWindow)
	contexts := ai.NewRedisContextStore(cache, sessionTTL)
	drafts := booking.NewRedisDraftStore(cache, sessionTTL)

	// Services.
	searcher := retrieval.NewPgVectorIndex(database.PgPool, llm, logger)
	engine := booking.NewEngine(rooms, reservations, config.AppConfig.WeekendSurchargeRate)
	mailer := notification.NewSMTPService(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPassword,
		logger,
	)

	// Mail queue: confirmation retries and check-in reminders.
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisMailQueueDB,
	}
	taskClient := asynq.NewClient(redisOpt)
	notifier := notification.NewQueuedService(mailer, taskClient, logger)
	mailWorker := tasks.InitMailWorker(redisOpt, tasks.NewHandler(reservations, mailer, logger), logger)

	// Tools.
	chatTool := tools.NewChatTool(llm, facts, logger)
	toolSet := map[models.ToolLabel]ai.Tool{
		models.ToolChat:            chatTool,
		models.ToolKnowledge:       tools.NewKnowledgeTool(searcher, llm, chatTool, logger),
		models.ToolStructuredQuery: tools.NewStructuredQueryTool(database.PgPool, llm, logger),
		models.ToolBooking:         booking.NewWorkflow(llm, drafts, rooms, engine, notifier, contexts, logger),
		models.ToolFollowUp:        tools.NewFollowUpTool(llm, searcher, contexts, logger),
	}

	dispatcher := ai.NewDispatcher(
		ai.NewClassifier(llm),
		toolSet,
		memory,
		contexts,
		archive,
		logger,
		config.AppConfig.MemoryWindow,
	)

	// Wire handlers.
	handlers.Dispatcher = dispatcher
	handlers.Engine = engine
	handlers.Drafts = drafts
	handlers.Notifier = notifier

	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	mailWorker.Shutdown()
	if err := taskClient.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close task client: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
