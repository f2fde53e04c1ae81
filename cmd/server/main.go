// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"meetmind-go/internal/config"
	"meetmind-go/internal/handler"
	"meetmind-go/internal/middleware"
	"meetmind-go/internal/model"
	"meetmind-go/internal/pipeline"
	"meetmind-go/internal/repository"
	"meetmind-go/internal/search"
	"meetmind-go/internal/service"
	"meetmind-go/pkg/database"
	"meetmind-go/pkg/embedding"
	"meetmind-go/pkg/es"
	"meetmind-go/pkg/imagegen"
	"meetmind-go/pkg/kafka"
	"meetmind-go/pkg/llm"
	"meetmind-go/pkg/log"
	"meetmind-go/pkg/speech"
	"meetmind-go/pkg/storage"
	"meetmind-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis、对象存储、ES 和 Kafka
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	if err := database.DB.AutoMigrate(
		&model.User{},
		&model.Meeting{},
		&model.Transcription{},
		&model.MeetingSummary{},
		&model.MeetingInsight{},
		&model.MeetingChunk{},
		&model.Translation{},
		&model.VisualAsset{},
		&model.Conversation{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 4. 初始化 Repository
	userRepository := repository.NewUserRepository(database.DB)
	meetingRepo := repository.NewMeetingRepository(database.DB)
	chunkRepo := repository.NewChunkRepository(database.DB)
	visualRepo := repository.NewVisualRepository(database.DB)
	translationRepo := repository.NewTranslationRepository(database.DB)
	conversationRepo := repository.NewConversationRepository(database.RDB)

	// 5. 初始化外部服务客户端与检索引擎
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	embeddingClient := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)
	speechClient := speech.NewClient(cfg.Speech)
	imageClient := imagegen.NewClient(cfg.Image)
	engine := search.NewEngine(search.Config{
		ChunkSize:           cfg.Search.ChunkSize,
		TopK:                cfg.Search.TopK,
		SimilarityThreshold: cfg.Search.SimilarityThreshold,
		SimilarTopK:         cfg.Search.SimilarTopK,
		ContentTemplate:     cfg.Search.ContentTemplate,
		SummaryTemplate:     cfg.Search.SummaryTemplate,
		InsightThemes:       cfg.Search.InsightThemes,
	}, embeddingClient)

	// 6. 初始化 Service (依赖注入)
	userService := service.NewUserService(userRepository, jwtManager)
	analysisService := service.NewAnalysisService(llmClient)
	meetingService := service.NewMeetingService(meetingRepo, chunkRepo, visualRepo, translationRepo, cfg.MinIO, cfg.Elasticsearch)
	searchService := service.NewSearchService(engine, meetingRepo, chunkRepo, cfg.Elasticsearch)
	translationService := service.NewTranslationService(meetingRepo, translationRepo, llmClient)
	visualService := service.NewVisualService(meetingRepo, visualRepo, imageClient, cfg.MinIO, cfg.Image)
	conversationService := service.NewConversationService(conversationRepo)
	chatService := service.NewChatService(searchService, llmClient, conversationRepo)

	// 7. 初始化会议处理管道并启动后台 Kafka 消费者
	processor := pipeline.NewProcessor(
		speechClient,
		analysisService,
		engine,
		cfg.Elasticsearch,
		cfg.MinIO,
		cfg.Embedding,
		meetingRepo,
		chunkRepo,
	)
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", handler.NewAuthHandler(userService).RefreshToken)
		}

		users := apiV1.Group("/users")
		{
			// 无需认证的路由 (公开访问)
			users.POST("/register", handler.NewUserHandler(userService).Register)
			users.POST("/login", handler.NewUserHandler(userService).Login)

			// 需要认证的路由 (仅限登录用户访问)
			authed := users.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager, userService))
			{
				authed.GET("/me", handler.NewUserHandler(userService).GetProfile)
				authed.POST("/logout", handler.NewUserHandler(userService).Logout)
			}
		}

		// Meeting 路由组，需要认证
		meetingHandler := handler.NewMeetingHandler(meetingService)
		translationHandler := handler.NewTranslationHandler(translationService)
		visualHandler := handler.NewVisualHandler(visualService)
		searchHandler := handler.NewSearchHandler(searchService)
		meetings := apiV1.Group("/meetings")
		meetings.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			meetings.POST("", meetingHandler.Upload)
			meetings.GET("", meetingHandler.List)
			meetings.GET("/:id", meetingHandler.Detail)
			meetings.DELETE("/:id", meetingHandler.Delete)
			meetings.GET("/:id/similar", searchHandler.SimilarMeetings)
			meetings.POST("/:id/embeddings", searchHandler.ReindexMeeting)

			meetings.POST("/:id/translations", translationHandler.Translate)
			meetings.GET("/:id/translations", translationHandler.List)
			meetings.DELETE("/:id/translations/:translationId", translationHandler.Delete)

			meetings.POST("/:id/visuals", visualHandler.Generate)
			meetings.GET("/:id/visuals", visualHandler.List)
			meetings.DELETE("/:id/visuals/:assetId", visualHandler.Delete)
		}

		// Search 路由组
		searchGroup := apiV1.Group("/search")
		searchGroup.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			searchGroup.GET("/semantic", searchHandler.SemanticSearch)
			searchGroup.GET("/insights", searchHandler.Insights)
			searchGroup.POST("/reindex", searchHandler.Reindex)
		}

		// 翻译语言列表（公开）
		apiV1.GET("/translations/languages", translationHandler.Languages)

		// Conversation 路由组
		conversation := apiV1.Group("/conversations")
		conversation.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			conversationHandler := handler.NewConversationHandler(conversationService)
			conversation.GET("", conversationHandler.History)
			conversation.DELETE("", conversationHandler.Clear)
		}

		// Chat 路由 (WebSocket)
		chatHandler := handler.NewChatHandler(chatService, userService, jwtManager)
		chatGroup := apiV1.Group("/chat")
		{
			chatGroup.GET("/websocket-token", chatHandler.GetWebsocketStopToken)
		}
		r.GET("/chat/:token", chatHandler.Handle)
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	// Kafka 消费者是一个阻塞循环，进程退出时随之结束。
	log.Info("服务已优雅关闭")
}
