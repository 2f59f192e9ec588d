package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/In1quity/Fountain/internal/config"
	"github.com/In1quity/Fountain/internal/database"
	"github.com/In1quity/Fountain/internal/handler"
	"github.com/In1quity/Fountain/internal/middleware"
	"github.com/In1quity/Fountain/internal/models"
	"github.com/In1quity/Fountain/internal/repository"
	"github.com/In1quity/Fountain/internal/router"
	"github.com/In1quity/Fountain/internal/service"
	"github.com/In1quity/Fountain/pkg/mediawiki"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Editathon{}, &models.JuryMember{}, &models.Rule{}, &models.Article{}, &models.Mark{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	wikiClient, err := mediawiki.New(mediawiki.Config{
		APIEndpoint: cfg.WikiAPIEndpoint,
		UserAgent:   cfg.WikiUserAgent,
		Timeout:     cfg.WikiTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create wiki client: %v", err)
	}
	wiki := service.InstrumentWiki(wikiClient)

	validate := validator.New(validator.WithRequiredStructEnabled())

	editathonRepo := repository.NewEditathonRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	markRepo := repository.NewMarkRepository(db)

	editathonService := service.NewEditathonService(editathonRepo, logger)
	submissionService := service.NewSubmissionService(editathonRepo, articleRepo, wiki, validate, natsConn, logger)
	markService := service.NewMarkService(editathonRepo, markRepo, validate, redisClient, cfg.AggregateCacheTTL, nil, natsConn, logger)

	markHandler := handler.NewMarkHandler(markService, logger)
	editathonHandler := handler.NewEditathonHandler(editathonService, markService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EditathonHandler:  editathonHandler,
		SubmissionHandler: submissionHandler,
		MarkHandler:       markHandler,
		AuthMiddleware:    middleware.Identity(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
