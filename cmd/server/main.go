package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/stylehub/internal/cart"
	"github.com/fjod/stylehub/internal/catalog"
	"github.com/fjod/stylehub/internal/checkout"
	"github.com/fjod/stylehub/internal/domain"
	h "github.com/fjod/stylehub/internal/http"
	"github.com/fjod/stylehub/internal/search"
	"github.com/fjod/stylehub/internal/store"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	KafkaBrokers    []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "stylehub"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Printf("Starting StyleHub storefront...")
	log.Printf("Record store: %s/%s", cfg.MongoURI, cfg.MongoDatabase)
	log.Printf("HTTP Port: %s", cfg.HTTPPort)

	db, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Printf("mongo disconnect error: %v", err)
		}
	}()

	products := store.NewMongoRecords[domain.Product](db, "products", store.ProductIdentity())
	categories := store.NewMongoRecords[domain.Category](db, "categories", store.CategoryIdentity())
	cartLines := store.NewMongoRecords[domain.CartLine](db, "cart_items", store.CartLineIdentity())
	orders := store.NewMongoRecords[domain.Order](db, "orders", store.OrderIdentity())

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	publisher := checkout.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("kafka writer close error: %v", err)
		}
	}()

	catalogSvc := catalog.NewService(products, categories)
	cartSvc := cart.NewService(cartLines)
	checkoutSvc := checkout.NewService(orders, cartSvc, publisher)
	searchSvc := search.NewService(products, search.NewHistory(redisClient))

	reconciler := checkout.NewReconciler(cartLines, cfg.KafkaBrokers...)
	defer reconciler.Close()
	go reconciler.Run(ctx)

	router := h.NewRouter(h.RouterConfig{
		Catalog:        catalogSvc,
		Cart:           cartSvc,
		Checkout:       checkoutSvc,
		Search:         searchSvc,
		RequestTimeout: cfg.RequestTimeout,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	return nil
}
