package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/app"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/config"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/handler"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/service"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/store"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	orderStore := store.NewOrderStore()
	orderService := service.NewOrderService(logger, orderStore)
	queryService := service.NewQueryService(logger, orderStore)

	kafkaHandler := handler.NewKafkaHandler(logger, conf.Kafka, orderService)
	httpHandler := handler.NewHTTPHandler(logger, orderService, queryService)

	app := app.New(logger, conf)
	app.SetHTTPHandlers(httpHandler)
	app.SetConsumers(kafkaHandler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("application failed", app.Run(ctx))
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
