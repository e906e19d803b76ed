package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skazka-server/internal/config"
	"skazka-server/internal/database"
	"skazka-server/internal/handler"
	"skazka-server/internal/logger"
	"skazka-server/internal/middleware"
	"skazka-server/internal/service"
	"skazka-server/internal/storage"

	storyRepository "skazka-server/internal/repository"
)

func main() {
	// Загружаем конфиг ДО инициализации логгера
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	zapLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer zapLogger.Sync() // Flush буфера логгера при выходе
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.Logger.Level))

	// Подключение к PostgreSQL
	ctx := context.Background()
	dbPool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer dbPool.Close()
	zapLogger.Info("Успешное подключение к PostgreSQL")

	// Применяем миграции
	if err := database.ApplyMigrations(dbPool, zapLogger); err != nil {
		zapLogger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	// Хранилище артефактов
	artifactStore, err := storage.NewMinioStore(cfg.Storage, zapLogger)
	if err != nil {
		zapLogger.Fatal("Не удалось инициализировать хранилище артефактов", zap.Error(err))
	}
	zapLogger.Info("Artifact store initialized", zap.String("endpoint", cfg.Storage.Endpoint))

	// Клиенты генерации: зависимости создаются один раз и передаются явно
	textGen := service.NewOpenAIStoryGenerator(cfg.OpenAI, zapLogger)
	imageGen := service.NewOpenAIIllustrationGenerator(cfg.OpenAI, cfg.Image, zapLogger)
	speechGen := service.NewOpenAISpeechSynthesizer(cfg.OpenAI, cfg.Speech, zapLogger)

	// Репозиторий и сервис
	storyRepo := storyRepository.NewPgStoryRepository(dbPool, zapLogger)
	storyService := service.NewStoryService(storyRepo, artifactStore, textGen, imageGen, speechGen, zapLogger)

	// HTTP сервер
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ZapLogger(zapLogger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	storyHandler := handler.NewStoryHandler(storyService, zapLogger)
	storyHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Запуск сервера в горутине
	go func() {
		zapLogger.Info("Starting HTTP server", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown по SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited")
}
