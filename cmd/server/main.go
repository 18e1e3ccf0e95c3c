package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/claycraft/shop/internal/config"
	"github.com/claycraft/shop/internal/es"
	"github.com/claycraft/shop/internal/handlers"
	"github.com/claycraft/shop/internal/logging"
	"github.com/claycraft/shop/internal/mykafka"
	"github.com/claycraft/shop/internal/service/checkout"
	httpserver "github.com/claycraft/shop/internal/transport/http"
	"github.com/claycraft/shop/pkg/db"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")

	logger := logging.New(config.EnvDefault("LOG_LEVEL", "info"))

	ctx := context.Background()
	gormDB, err := db.Open(ctx, configuration.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	prod, err := mykafka.NewProducer(configuration.KafkaBrokers)
	if err != nil {
		logger.Warn("kafka disabled", "error", err)
		prod = &mykafka.Producer{}
	}

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			logger.Warn("search disabled", "error", err)
		} else {
			searchHandler = &handlers.SearchHandler{ES: esClient, Index: "product"}
		}
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	checkoutSvc := checkout.NewService(gormDB)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		ProductHandler: &handlers.ProductHandler{DB: gormDB, Producer: prod},
		CartHandler:    &handlers.CartHandler{CheckoutService: checkoutSvc, Producer: prod},
		OrderHandler:   &handlers.OrderHandler{DB: gormDB, Producer: prod},
		AuthHandler:    &handlers.AuthHandler{DB: gormDB, JWTSecret: jwtSecret},
		UploadHandler:  &handlers.UploadHandler{Dir: configuration.UploadDir},
		SearchHandler:  searchHandler,
		JWTSecret:      jwtSecret,
		UploadDir:      configuration.UploadDir,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
