package api

import (
	"context"
	"log"

	"procurement/internal/app/config"
	"procurement/internal/app/extract"
	"procurement/internal/app/handler"
	"procurement/internal/app/redis"
	"procurement/internal/app/repository"
	"procurement/internal/app/storage"
	"procurement/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
)

// StartServer собирает зависимости из конфигурации и запускает HTTP сервер.
// Postgres, MinIO, Redis и OpenAI опциональны: без них сервис работает в урезанном режиме.
func StartServer() {
	log.Println("Starting server")
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ошибка чтения конфигурации: %v", err)
	}

	var store handler.RequestStore
	if cfg.DSN != "" {
		repo, err := repository.New(cfg.DSN)
		if err != nil {
			logrus.Fatalf("ошибка инициализации репозитория: %v", err)
		}
		store = repo
	} else {
		logrus.Warn("DSN is empty, requests are kept in memory")
		store = repository.NewMemory()
	}

	var documents handler.DocumentStore
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			logrus.Errorf("MinIO недоступен, документы не архивируются: %v", err)
		} else {
			documents = minioClient
		}
	}

	var extractor extract.Extractor
	if cfg.OpenAI.APIKey != "" {
		var opts []option.RequestOption
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		extractor = extract.NewOpenAIExtractor(cfg.OpenAI.APIKey, cfg.OpenAI.Model, opts...)

		if cfg.Redis.Host != "" {
			redisClient, err := redis.New(ctx, cfg.Redis)
			if err != nil {
				logrus.Errorf("Redis недоступен, кэш распознавания отключен: %v", err)
			} else {
				extractor = extract.NewCachedExtractor(extractor, redisClient)
			}
		}
	} else {
		logrus.Warn("OPENAI_API_KEY is empty, /extract is disabled")
	}

	// журнал запросов пишет middleware.AccessLog через logrus
	router := gin.New()
	router.Use(gin.Recovery())

	h := handler.NewAPIHandler(store, documents, extractor)
	application := pkg.NewApp(cfg, router, h)
	application.RunApp()

	log.Println("Server down")
}
