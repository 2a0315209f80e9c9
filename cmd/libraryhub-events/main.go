// Command libraryhub-events tails the request lifecycle channel and writes
// each event to the log. It reads the same configuration as libraryhub and
// is meant for operators checking what the mailer will receive.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalemusser/libraryhub/internal/app/bootstrap"
	"github.com/dalemusser/libraryhub/internal/app/system/notify"
	"github.com/dalemusser/waffle/logging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	boot := logging.BootstrapLogger()
	coreCfg, appCfg, err := bootstrap.LoadConfig(boot)
	if err != nil {
		return err
	}
	logger := logging.MustBuildLogger(coreCfg.LogLevel, coreCfg.Env)
	defer func() { _ = logger.Sync() }()

	if appCfg.RedisURL == "" {
		return errors.New("redis_url is not set; lifecycle events are only written to the service log")
	}
	opts, err := redis.ParseURL(appCfg.RedisURL)
	if err != nil {
		return err
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := notify.NewRedisBus(client, appCfg.NotifyChannel, logger)
	sink := notify.LogPublisher{Log: logger}
	logger.Info("tailing request events", zap.String("channel", bus.Channel()))

	err = bus.Subscribe(ctx, func(ctx context.Context, ev notify.Event) {
		_ = sink.Publish(ctx, ev)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
