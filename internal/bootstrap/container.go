package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"homefinder-be/internal/config"
	"homefinder-be/internal/constant"
	"homefinder-be/internal/controller"
	"homefinder-be/internal/handler"
	"homefinder-be/internal/pkg/logger"
	"homefinder-be/internal/pkg/mailer"
	"homefinder-be/internal/repository/implementation"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/internal/service"
	"homefinder-be/internal/websocket"
	"homefinder-be/pkg/embedding"
	"homefinder-be/pkg/llm/factory"
	"homefinder-be/pkg/rag/gate"
	"homefinder-be/pkg/rag/orchestrator"
	"homefinder-be/pkg/rag/retrieval"
	"homefinder-be/pkg/rag/rewrite"
	"homefinder-be/pkg/rag/session"

	pktNats "homefinder-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController        controller.IAuthController
	UserController        controller.IUserController
	ListingController     controller.IListingController
	KnowledgeController   controller.IKnowledgeController
	FavoriteController    controller.IFavoriteController
	AppointmentController controller.IAppointmentController
	ChatController        controller.IChatController
	AdminController       controller.IAdminController

	// Background Services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus (in-process jobs)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. RAG chat pipeline
	ragLogger := initRagLogger()
	sessionStore := session.NewStore(constant.ChatSystemPrompt)
	intentGate := gate.NewGate(llmProvider, ragLogger)
	rewriter := rewrite.NewRewriter(llmProvider, ragLogger)

	listingRetrieval := retrieval.NewService(
		"listings",
		embeddingProvider,
		service.NewListingSource(uowFactory),
		service.RenderListingDocument,
		ragLogger,
	)
	knowledgeRetrieval := retrieval.NewService(
		"knowledge",
		embeddingProvider,
		service.NewKnowledgeSource(uowFactory),
		service.RenderKnowledgeChunk,
		ragLogger,
	)

	chatOrchestrator := orchestrator.NewOrchestrator(
		sessionStore,
		intentGate,
		rewriter,
		listingRetrieval,
		knowledgeRetrieval,
		llmProvider,
		cfg.Chat.RetrievalFanout,
		ragLogger,
	)

	// 5. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.EmbedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider,
	)

	authService := service.NewAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)
	listingService := service.NewListingService(uowFactory, publisherService, natsPub, embeddingProvider)
	knowledgeService := service.NewKnowledgeService(uowFactory, embeddingProvider)
	reindexService := service.NewReindexService(uowFactory, embeddingProvider)
	favoriteService := service.NewFavoriteService(uowFactory)
	appointmentService := service.NewAppointmentService(uowFactory, emailService, natsPub)
	chatService := service.NewChatService(chatOrchestrator, llmProvider)
	adminService := service.NewAdminService(uowFactory, sysLogger.GetFilePath())

	// 7. Notifications
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	sysLogger.Info("Bootstrap", "Container initialized", map[string]interface{}{
		"embedding_provider": cfg.Ai.EmbeddingProvider,
		"llm_provider":       cfg.Ai.LLMProvider,
		"retrieval_fanout":   cfg.Chat.RetrievalFanout,
	})

	return &Container{
		AuthController:        controller.NewAuthController(authService),
		UserController:        controller.NewUserController(userService),
		ListingController:     controller.NewListingController(listingService),
		KnowledgeController:   controller.NewKnowledgeController(knowledgeService),
		FavoriteController:    controller.NewFavoriteController(favoriteService),
		AppointmentController: controller.NewAppointmentController(appointmentService),
		ChatController:        controller.NewChatController(chatService),
		AdminController:       controller.NewAdminController(adminService, listingService, reindexService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
