package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cookcam_backend/internal/config"
)

func main() {
	reconcileCmd := flag.NewFlagSet("reconcile-orphans", flag.ExitOnError)
	batchSize := reconcileCmd.Int("batch-size", 0, "Orphans to process (defaults to RECONCILE_BATCH_SIZE)")

	if len(os.Args) > 1 && os.Args[1] == "reconcile-orphans" {
		_ = reconcileCmd.Parse(os.Args[2:])
		if err := runReconcile(*batchSize); err != nil {
			log.Fatalf("FATAL: Orphan reconciliation failed: %v", err)
		}
		return
	}

	startServer()
}

func runReconcile(batchSize int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if batchSize > 0 {
		cfg.ReconcileBatchSize = batchSize
	}

	job, cleanup, err := initializeReconcileJob(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	resolved, err := job.RunOnce(ctx)
	if err != nil {
		return err
	}
	log.Printf("INFO: Orphan reconciliation resolved %d accounts.", resolved)
	return nil
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
}
