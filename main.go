// Package main rental coordination API.
//
// Coordinates rentals against a remote book catalog: live availability checks,
// denormalized book snapshots, overdue/late-fee lifecycle, and a domain event
// stream for downstream subscribers.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"rentalservice/app/echoServer"
	customerctrl "rentalservice/app/echoServer/controller/customer"
	eventsctrl "rentalservice/app/echoServer/controller/events"
	notificationctrl "rentalservice/app/echoServer/controller/notification"
	rentalctrl "rentalservice/app/echoServer/controller/rental"
	"rentalservice/app/echoServer/validation"
	"rentalservice/config"
	"rentalservice/event"
	catalogrepo "rentalservice/repository/catalog"
	customerrepo "rentalservice/repository/customer"
	rentalrepo "rentalservice/repository/rental"
	customersvc "rentalservice/service/customer"
	notificationsvc "rentalservice/service/notification"
	rentalsvc "rentalservice/service/rental"
	"rentalservice/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB over the pgx driver
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// redis: event fan-out + snapshot side cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	// repos
	cr := customerrepo.New(db)
	rr := rentalrepo.New(db)
	cache := catalogrepo.NewBookCache(rdb, cfg.BookCacheTTL, log)
	catalog := catalogrepo.WithCache(
		catalogrepo.NewHTTP(cfg.CatalogBaseURL, cfg.CatalogTimeout, log),
		cache,
	)

	// events
	pub := event.NewRedisPublisher(rdb, log)

	// services
	rs := rentalsvc.New(rr, catalog, cr, pub, log)
	cs := customersvc.New(cr, rr, pub, log)
	ns := notificationsvc.New(cache, log)

	// controllers
	v := validator.New()
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}
	customerC := &customerctrl.Controller{Svc: cs, V: v, Log: log}
	notificationC := &notificationctrl.Controller{Svc: ns, V: v, Log: log}
	eventsC := &eventsctrl.Controller{Pub: pub, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	echoServer.Register(e, echoServer.C{
		Rental:       rentalC,
		Customer:     customerC,
		Notification: notificationC,
		Events:       eventsC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
