package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akimenko/airtech/api"
	"github.com/akimenko/airtech/config"
	"github.com/akimenko/airtech/internal/auth"
	"github.com/akimenko/airtech/internal/bootstrap"
	"github.com/akimenko/airtech/internal/cache"
	"github.com/akimenko/airtech/internal/kafka"
	"github.com/akimenko/airtech/internal/repository"
	"github.com/akimenko/airtech/internal/service/flights"
	"github.com/akimenko/airtech/internal/service/tickets"
	"github.com/akimenko/airtech/internal/service/users"
	"github.com/akimenko/airtech/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.FlightsTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	var photoStore storage.PhotoStore
	if cfg.Storage.CloudName != "" {
		store, err := storage.NewCloudinaryStore(cfg.Storage)
		if err != nil {
			log.Fatalf("init photo storage: %v", err)
		}
		photoStore = store
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	flightRepo := repository.NewFlightRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	userService := users.NewUserService(userRepo, photoStore, tokens, cfg.Storage.DefaultPhoto)
	flightService := flights.NewFlightService(flightRepo, redisCache)
	ticketService := tickets.NewTicketService(ticketRepo, flightRepo, userRepo, producer, cfg.Kafka.NotificationsTopic)

	handlers := bootstrap.Handlers{
		Users:   api.NewUserHandler(userService),
		Flights: api.NewFlightHandler(flightService, ticketService),
		Tickets: api.NewTicketHandler(ticketService),
	}

	if err := bootstrap.Run(ctx, cfg, tokens, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
