package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"marketplace/internal/api"
	"marketplace/internal/api/handlers"
	"marketplace/internal/cache"
	"marketplace/internal/database"
	"marketplace/internal/notify"
	"marketplace/internal/repository"
)

func main() {
	cfg, err := database.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Printf("failed to disconnect mongodb: %v", err)
		}
	}()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.EnsureIndexes(ctx); err != nil {
			cancel()
			log.Fatalf("failed to create indexes: %v", err)
		}
		cancel()
	}

	rdb, err := cache.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	products := cache.NewCachedProductRepository(repository.NewProductRepository(db), rdb, cfg.CacheTTL)
	listings := repository.NewListingRepository(db)
	orders := repository.NewOrderRepository(db, products)
	ranks := repository.NewRankRepository(db)
	reviews := repository.NewReviewRepository(db)
	lowStockNotifs := repository.NewLowStockNotificationRepository(db)
	cancelNotifs := repository.NewCancelNotificationRepository(db)
	cancelledOrders := repository.NewCancelledOrderRepository(db)

	alerter := notify.NewLowStockAlerter(lowStockNotifs, cfg.LowStockNotifyPolicy)

	router := api.NewRouter(api.Handlers{
		Categories:    handlers.NewCategoryHandler(categories),
		Products:      handlers.NewProductHandler(products, categories, users, alerter),
		Listings:      handlers.NewListingHandler(listings, products, users),
		Orders:        handlers.NewOrderHandler(orders, cancelledOrders),
		Users:         handlers.NewUserHandler(users),
		Ranks:         handlers.NewRankHandler(ranks, users),
		Reviews:       handlers.NewReviewHandler(reviews, users),
		Notifications: handlers.NewNotificationHandler(lowStockNotifs, cancelNotifs),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server stopped: %v", err)
	}
}
