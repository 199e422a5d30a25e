package bootstrap

import (
	"context"
	"log"
	"time"

	"rag-chat-be/internal/config"
	"rag-chat-be/internal/controller"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/implementation"
	"rag-chat-be/internal/repository/memory"
	"rag-chat-be/internal/service"
	"rag-chat-be/internal/websocket"
	"rag-chat-be/pkg/genai"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	AdminController controller.IAdminController

	// Background Services (Exposed for main.go to run)
	HistoryFlusher service.IHistoryFlusher

	// WebSockets
	ChatGateway  *websocket.ChatGateway
	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Redis
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

	// Generation Provider
	genaiClient := genai.NewClient(cfg.Keys.GoogleGemini)

	// 3. Repositories
	settingsRepo := implementation.NewSettingsRepository(cfg.Ai.SettingsFilePath, cfg.Ai.Model)
	historyRepo := implementation.NewChatHistoryRepository(
		rdb,
		cfg.Chat.HistoryKeyPrefix,
		time.Duration(cfg.Chat.HistoryTTLHours)*time.Hour,
	)
	timelineRepo := memory.NewTimelineRepository()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Chat.PersistTopicName, pubSub)
	chatService := service.NewChatService(genaiClient, settingsRepo, sysLogger)
	streamService := service.NewStreamService(genaiClient, settingsRepo, sysLogger)
	conversationService := service.NewConversationService(
		timelineRepo,
		historyRepo,
		chatService,
		streamService,
		publisherService,
		sysLogger,
	)
	historyFlusher := service.NewHistoryFlusher(
		cfg.Chat.PersistTopicName,
		pubSub,
		timelineRepo,
		historyRepo,
		time.Duration(cfg.Chat.PersistDebounceMs)*time.Millisecond,
		sysLogger,
	)

	// 5. WebSocket Gateway
	gatewayLogger := logger.NewIsolatedLogger(cfg.Chat.GatewayLogFilePath)
	wsHub := websocket.NewHub(gatewayLogger)
	go wsHub.Run()
	chatGateway := websocket.NewChatGateway(wsHub, conversationService, gatewayLogger)

	// 6. Controllers
	chatController := controller.NewChatController(chatService, streamService, historyRepo)
	adminController := controller.NewAdminController(cfg, settingsRepo)

	return &Container{
		ChatController:  chatController,
		AdminController: adminController,
		HistoryFlusher:  historyFlusher,
		ChatGateway:     chatGateway,
		WebSocketHub:    wsHub,
	}
}
