package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shremyagupta/simple-ecommerce/internal/cartstore"
	"github.com/shremyagupta/simple-ecommerce/internal/config"
	"github.com/shremyagupta/simple-ecommerce/internal/es"
	"github.com/shremyagupta/simple-ecommerce/internal/handlers"
	"github.com/shremyagupta/simple-ecommerce/internal/handlers/cart"
	"github.com/shremyagupta/simple-ecommerce/internal/logging"
	loggingmw "github.com/shremyagupta/simple-ecommerce/internal/middleware/logging"
	"github.com/shremyagupta/simple-ecommerce/internal/mykafka"
	"github.com/shremyagupta/simple-ecommerce/internal/payments"
	httpserver "github.com/shremyagupta/simple-ecommerce/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	stripeClient := payments.New(
		configuration.STRIPE_SECRET_KEY,
		configuration.STRIPE_PUBLISHABLE_KEY,
		configuration.STRIPE_WEBHOOK_SECRET,
	)
	if stripeClient.Configured() {
		logger.Info("Stripe configured with real API keys")
	} else {
		logger.Warn("Demo mode: no Stripe keys configured, checkout will simulate payment")
	}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var store cartstore.Store
	var redisStore *cartstore.RedisStore
	if configuration.REDIS_ADDR != "" {
		redisStore = cartstore.NewRedisStore(configuration.REDIS_ADDR)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisStore.Ping(pingCtx); err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
		cancel()
		store = redisStore
	} else {
		logger.Warn("no REDIS_ADDR configured, carts are held in memory")
		store = cartstore.NewMemoryStore()
	}

	var searchHandler *handlers.SearchHandler
	var indexer *es.Indexer
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "product"}
		indexer = &es.Indexer{ES: esClient, Index: "product", Log: logger}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             db,
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: producer, Indexer: indexer},
		OrderHandler:   &handlers.OrderHandler{DB: db},
		CheckoutHandler: &handlers.CheckoutHandler{
			DB:             db,
			Producer:       producer,
			Stripe:         stripeClient,
			DemoStockCheck: configuration.DEMO_STOCK_CHECK,
		},
		HealthHandler: &handlers.HealthHandler{DB: db, Stripe: stripeClient},
		CartHandler:   &cart.CartHandler{DB: db, Store: store, Producer: producer},
		SearchHandler: searchHandler,
		AdminSecret:   []byte(configuration.ADMIN_JWT_SECRET),
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server running", "port", configuration.PORT)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
