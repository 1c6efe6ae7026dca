package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kurnehuiz/TO-DO-TgBot/adapters/console"
	"github.com/kurnehuiz/TO-DO-TgBot/adapters/db"
	"github.com/kurnehuiz/TO-DO-TgBot/chat"
	"github.com/kurnehuiz/TO-DO-TgBot/config"
	"github.com/kurnehuiz/TO-DO-TgBot/core"
	"github.com/kurnehuiz/TO-DO-TgBot/reminder"
)

func main() {
	// config
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "todo-bot configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	// logger
	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("bot failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting todo-bot")

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// repository
	storage, err := makeStorage(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := storage.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Error("failed to close db connection", "error", err)
			}
		}
	}()

	// service
	svc := core.NewService(storage)
	query := core.NewQuery(storage)

	// transport: локальная консоль; боевой транспорт подключается
	// через те же порты Source/Sink
	transport := console.New(log, os.Stdin, os.Stdout)

	// background scheduler
	sched := reminder.New(log, storage, transport, cfg.Reminder.Interval, cfg.Reminder.Backoff)
	go sched.Run(ctx)

	router := chat.NewRouter(log, svc, query, transport, cfg.HandlerTimeout)

	log.Info("todo-bot is running", "storage", cfg.Storage.Driver)

	// blocking
	if err := router.Serve(ctx, transport); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func makeStorage(cfg config.Config, log *slog.Logger) (core.DB, error) {
	if cfg.Storage.Driver == "memory" {
		return db.NewMemory(), nil
	}

	storage, err := db.New(log, cfg.Storage.Driver, cfg.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %v", err)
	}
	if err := storage.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate db: %v", err)
	}
	return storage, nil
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
