package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	mediarepo "folio_service/internal/media/repository"
	"folio_service/internal/portfolio/api/handlers"
	"folio_service/internal/portfolio/api/router"
	"folio_service/internal/portfolio/app"
	"folio_service/internal/portfolio/domain"
	"folio_service/internal/portfolio/repository"
	"folio_service/pkg/config"
	"folio_service/pkg/database"
	"folio_service/pkg/logger"
	testtool "folio_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.PortfolioService, config.EnvConfig.PortfolioServiceLogPath)

	cfg := config.LoadConfig[config.Portfolio](config.EnvConfig.PortfolioService, config.EnvConfig.PortfolioServiceYAMLPath)

	// 1. MongoDB holds profiles and the shared media records.
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

	profileRepo := repository.NewProfileRepo(mongoDB.Database)
	mediaRepo := mediarepo.NewMediaRepo(mongoDB.Database)

	// 2. Credits live in PostgreSQL behind gorm.
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	gormDB, err := database.NewPGConnection(database.Connection{
		ConnectStr:    dsn,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to open gorm connection after retries", zap.Error(err))
	}

	creditRepo := repository.NewCreditRepo(gormDB)
	if err := creditRepo.AutoMigrate(); err != nil {
		log.Fatalf("credit migrate failed: %v", err)
	}

	// 3. View events go to Kafka.
	topic := cfg.Kafka.Topic
	if topic == "" {
		topic = domain.ViewTopicName
	}
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         topic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: cfg.Kafka.RetryInterval,
	})
	if err != nil {
		log.Fatalf("Kafka writer failed: %v", err)
	}
	defer kafkaWriter.Close()

	usecase := app.NewPortfolioUseCase(profileRepo, creditRepo, mediaRepo, kafkaWriter)

	// 4. HTTP surface.
	r := fiber.New()

	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.PortfolioServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()
	r.Use(fiber_log.New(fiber_log.Config{Output: file}))

	portfolioHandler := handlers.NewPortfolioHandler(usecase)
	router.RegisterRoutes(r, portfolioHandler)

	testtool.StartPprof()

	logger.Log.Info(fmt.Sprintf("PortfolioService listening on : %s", cfg.Port))
	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
