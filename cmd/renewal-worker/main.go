package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"autopay/internal/amqp"
	"autopay/internal/cli"
	"autopay/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting renewal-worker",
		"window_days", cfg.ReminderWindowDays,
		"interval", cfg.ReminderInterval,
		"db", cfg.SQLiteDBPath)

	kv := cli.InitKV(logger, cfg.SQLiteDBPath)
	defer kv.Close()

	// AMQP is optional: without it the worker only logs due renewals.
	var pub worker.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without publishing", "error", err)
		} else {
			defer client.Close()
			pub = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - reminders will be logged only")
	}

	reminder := worker.NewReminder(kv, pub, cfg.ReminderWindowDays)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ReminderInterval)
		defer ticker.Stop()

		// Run once on startup, then on every tick.
		if count, err := reminder.ProcessDue(ctx, time.Now()); err != nil {
			logger.Error("Initial reminder pass failed", "error", err)
		} else {
			logger.Info("Initial reminder pass complete", "published", count)
		}

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now := <-ticker.C:
				count, err := reminder.ProcessDue(ctx, now)
				if err != nil {
					logger.Error("Reminder pass failed", "error", err)
					continue
				}
				logger.Info("Reminder pass complete",
					"published", count,
					"next_check", now.Add(cfg.ReminderInterval).Format("15:04:05"))
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
	}
	logger.Info("Renewal worker stopped gracefully")
}
