package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"folio_service/internal/media/api/handlers"
	"folio_service/internal/media/api/router"
	"folio_service/internal/media/app"
	"folio_service/internal/media/domain"
	"folio_service/internal/media/repository"
	"folio_service/pkg/config"
	"folio_service/pkg/database"
	"folio_service/pkg/logger"
	testtool "folio_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MediaService, config.EnvConfig.MediaServiceLogPath)

	cfg := config.LoadConfig[config.Media](config.EnvConfig.MediaService, config.EnvConfig.MediaServiceYAMLPath)

	// 1. MongoDB holds the media records.
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongoDB, err := database.NewMongoDB(context.Background(), database.Connection{
		ConnectStr:    mongoURI,
		RetryCount:    cfg.Mongo.RetryCount,
		RetryInterval: time.Duration(cfg.Mongo.RetryInterval) * time.Second,
	}, cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB after retries",
			zap.String("address", fmt.Sprintf("[%s]", mongoURI)),
			zap.Error(err),
		)
	}
	defer mongoDB.Close(context.Background())

	mediaRepo := repository.NewMediaRepo(mongoDB.Database)

	// 2. MinIO holds originals and published thumbnails.
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:   fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
		User:       cfg.MinIO.User,
		Password:   cfg.MinIO.Password,
		BucketName: cfg.MinIO.BucketName,
		UseSSL:     cfg.MinIO.UseSSL,

		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: cfg.MinIO.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to minio after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", cfg.MinIO.Host, cfg.MinIO.Port)),
			zap.Error(err),
		)
	}

	// 3. RabbitMQ carries the upload finalize jobs.
	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
	conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    rabbitURL,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval),
	})
	if err != nil {
		log.Fatalf("RabbitMQ connect failed: %v", err)
	}
	defer conn.Close()

	rabbitChannel, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, time.Duration(cfg.RabbitMQ.RetryInterval))
	if err != nil {
		log.Fatalf("RabbitMQ channel failed: %v", err)
	}
	defer rabbitChannel.Close()

	if _, err := rabbitChannel.QueueDeclare(
		domain.FinalizeQueueName, // queue name
		true,                     // durable
		false,                    // autoDelete
		false,                    // exclusive
		false,                    // noWait
		nil,                      // arguments
	); err != nil {
		log.Fatalf("Queue Declare failed: %v", err)
	}

	usecase := app.NewMediaUseCase(minioClient, mediaRepo, database.NewRabbitRepository(rabbitChannel))

	worker, err := app.NewFinalizeWorker(usecase)
	if err != nil {
		log.Fatalf("finalize worker init failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := worker.Run(ctx); err != nil {
			logger.Log.Errorf("finalize worker stopped :", err)
		}
	}()

	// 4. HTTP surface.
	r := fiber.New()

	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MediaServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()
	r.Use(fiber_log.New(fiber_log.Config{Output: file}))

	mediaHandler := handlers.NewMediaHandler(usecase)
	router.RegisterRoutes(r, mediaHandler)

	testtool.StartPprof()

	logger.Log.Info(fmt.Sprintf("MediaService listening on : %s", cfg.Port))
	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
