package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autopay/internal/cli"
	apphttp "autopay/internal/http"
	"autopay/internal/store"
	"autopay/internal/syncer"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	kv := cli.InitKV(logger, cfg.SQLiteDBPath)
	defer kv.Close()

	// The initial load must complete before the store is exposed to any
	// caller; the syncer only begins observing mutations afterwards.
	st := store.New()
	sy := syncer.New(kv, st)
	sy.Load(context.Background())

	server := apphttp.NewServer(logger, st, sy)

	srv := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        server.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting autopay server",
		"addr", cfg.HTTPAddr,
		"db", cfg.SQLiteDBPath,
		"env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "addr", cfg.HTTPAddr)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
