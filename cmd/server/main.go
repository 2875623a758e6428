package main // Entry point of the marketplace HTTP API

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/cron"
	"github.com/iliyamo/rental-marketplace/internal/handler"
	"github.com/iliyamo/rental-marketplace/internal/middleware"
	"github.com/iliyamo/rental-marketplace/internal/queue"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/router"
	"github.com/iliyamo/rental-marketplace/internal/service"
	"github.com/iliyamo/rental-marketplace/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: .env not loaded: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Printf("redis: %s unreachable; cache and rate limit disabled", cfg.Redis.Addr)
	} else {
		defer func() { _ = rdb.Close() }()
	}

	kv, err := storage.Open(ctx, cfg.Store, rdb)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer func() { _ = storage.Close(kv) }()

	store := repository.NewStore(kv, repository.WithLatencyScale(cfg.Store.LatencyScale))
	if err := store.Initialize(ctx); err != nil {
		log.Fatalf("store: %v", err)
	}
	log.Printf("store: %s backend ready", cfg.Store.Backend)

	if cfg.AMQPURL != "" {
		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogDir: cfg.BookingLogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking-consumer: %v", err)
			}
		}()
	}

	if cfg.StatsDigestSpec != "" {
		digest := &cron.StatsDigest{Source: store, Timeout: cfg.RequestTimeout}
		c, err := digest.Start(cfg.StatsDigestSpec)
		if err != nil {
			log.Printf("stats-digest: invalid schedule %q: %v", cfg.StatsDigestSpec, err)
		} else {
			defer c.Stop()
		}
	}

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	base := handler.Base{Store: store, Timeout: cfg.RequestTimeout}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(base, cfg),
		Property: handler.NewPropertyHandler(base),
		Booking:  handler.NewBookingHandler(base, service.NewPublisher(cfg.AMQPURL)),
		Message:  handler.NewMessageHandler(base),
		Owner:    handler.NewOwnerHandler(base),
		Admin:    handler.NewAdminHandler(base, cache),
	}, cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
