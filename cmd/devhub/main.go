package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devhub/internal/config"
	"devhub/internal/database/mongo"
	"devhub/internal/database/redis"
	"devhub/internal/event"
	"devhub/internal/handlers"
	"devhub/internal/mailer"
	"devhub/internal/repository"
	"devhub/internal/service"
	"devhub/pkg/discovery"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()

	mongoClient, err := mongo.Connect(cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	redisClient := redis.Connect(cfg.Redis)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("DevHub is healthy")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Repositories and indexes.
	userRepo := repository.NewUserRepository(mongoClient.Database)
	profileRepo := repository.NewProfileRepository(mongoClient.Database)
	postRepo := repository.NewPostRepository(mongoClient.Database)
	lockoutRepo := repository.NewLockoutRepository(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	for _, idx := range []interface {
		CreateIndexes(context.Context) error
	}{userRepo, profileRepo, postRepo} {
		if err := idx.CreateIndexes(ctx); err != nil {
			log.Printf("Warning: Failed to create database indexes: %v", err)
		}
	}
	cancel()

	eventPublisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		// Never hand the services a nil publisher; fall back to the no-op.
		log.Printf("Warning: Failed to initialize event publisher, events disabled: %v", err)
		eventPublisher = event.NewDisabledPublisher()
	}

	mailConsumer, err := mailer.NewConsumer(cfg.RabbitMQ.URI, mailer.NewSender(cfg.SMTP))
	if err != nil {
		log.Printf("Warning: Failed to initialize mail consumer: %v", err)
	} else {
		if err := mailConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start mail consumer: %v", err)
			mailConsumer.Close()
			mailConsumer = nil
		} else {
			defer mailConsumer.Close()
		}
	}

	// Services.
	tokenService := service.NewTokenService(cfg.Token)
	userService := service.NewUserService(userRepo, lockoutRepo, tokenService, eventPublisher, cfg.Server.PublicURL)
	profileService := service.NewProfileService(profileRepo, userRepo, postRepo, eventPublisher)
	postService := service.NewPostService(postRepo, userRepo)
	githubService := service.NewGithubService(cfg.GitHub)

	// Handlers.
	handlers.NewAuthHandler(userService, tokenService).RegisterRoutes(app)
	handlers.NewProfileHandler(profileService, githubService, tokenService).RegisterRoutes(app)
	handlers.NewPostHandler(postService, tokenService).RegisterRoutes(app)

	var registry *discovery.ServiceRegistry
	if cfg.Consul.Enabled {
		registry, err = discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Printf("Warning: Failed to create service registry: %v", err)
		} else if err := registry.Register(); err != nil {
			log.Printf("Warning: Failed to register with Consul: %v", err)
			registry = nil
		}
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if err := eventPublisher.Close(); err != nil {
		log.Printf("Error closing event publisher: %v", err)
	}

	mongoClient.Disconnect()

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
