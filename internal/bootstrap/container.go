package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-companion-be/internal/config"
	"ai-companion-be/internal/constant"
	"ai-companion-be/internal/controller"
	"ai-companion-be/internal/pkg/logger"
	"ai-companion-be/internal/pkg/mailer"
	"ai-companion-be/internal/pkg/serverutils"
	"ai-companion-be/internal/repository/memory"
	"ai-companion-be/internal/repository/unitofwork"
	"ai-companion-be/internal/service"
	"ai-companion-be/pkg/affect"
	"ai-companion-be/pkg/companion"
	"ai-companion-be/pkg/llm/factory"

	pktNats "ai-companion-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	ChatController controller.IChatController
	UserController controller.IUserController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	JwtMiddleware fiber.Handler
	Logger        logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. AI Components
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	guidance := constant.SystemGuidance
	if cfg.Ai.SystemGuidance != "" {
		guidance = cfg.Ai.SystemGuidance
	}
	generator := companion.NewGenerator(llmProvider, guidance, time.Duration(cfg.Ai.ReplyTimeoutS)*time.Second)

	classifier := affect.NewClassifier(loadAffectConfig(uowFactory))

	// Initialize In-Memory Session State
	sessionStates := memory.NewSessionStateRepository()

	// 4. Services
	publisherService := service.NewPublisherService(constant.TurnTopic, pubSub)
	summarizerLogger := logger.NewIsolatedLogger("logs/summarizer.log")
	consumerService := service.NewConsumerService(
		pubSub,
		constant.TurnTopic,
		uowFactory,
		llmProvider,
		summarizerLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, cfg.App.JWTSecret)
	chatService := service.NewChatService(
		uowFactory,
		generator,
		classifier,
		sessionStates,
		publisherService,
		natsPub,
		sysLogger,
	)
	historyService := service.NewHistoryService(uowFactory, llmProvider)

	// 5. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		ChatController:  controller.NewChatController(chatService),
		UserController:  controller.NewUserController(historyService),
		ConsumerService: consumerService,
		JwtMiddleware:   serverutils.NewJwtMiddleware(cfg.App.JWTSecret),
		Logger:          sysLogger,
	}
}

// loadAffectConfig overlays keyword lists stored in the database onto the
// built-in defaults. A missing or failing table keeps the defaults.
func loadAffectConfig(uowFactory unitofwork.RepositoryFactory) affect.Config {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := affect.DefaultConfig()

	uow := uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.AffectConfigRepository().FindAllActive(ctx)
	if err != nil {
		log.Printf("[WARN] Failed to load affect configuration, using defaults: %v", err)
		return cfg
	}

	lists := make(map[string][]string, len(rows))
	for _, row := range rows {
		lists[row.Key] = row.Words
	}
	return cfg.Merge(lists)
}
