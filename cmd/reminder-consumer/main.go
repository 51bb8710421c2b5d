package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"autopay/internal/amqp"
	"autopay/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder consumer")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting reminder consumer",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = client.ConsumeRenewalDue(ctx, func(msg *amqp.RenewalDueMessage) error {
		logger.Info("Renewal due",
			"subscription_id", msg.SubscriptionID,
			"service", msg.Service,
			"price_cents", msg.PriceCents,
			"renewal_date", msg.RenewalDate,
			"days_left", msg.DaysLeft)
		return nil
	})
	if err != nil && err != context.Canceled {
		logger.Error("Consumer stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Reminder consumer stopped gracefully")
}
