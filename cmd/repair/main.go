// Command main runs a one-shot repair pass against the configured store.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"murmur/internal/bootstrap"
	"murmur/internal/config"
	"murmur/internal/repository"
	"murmur/internal/service"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum duration for the repair pass")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, _, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	userRepo := repository.NewUserRepository(st)
	thoughtRepo := repository.NewThoughtRepository(st)
	repair := service.NewRepairService(userRepo, thoughtRepo)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := repair.Repair(ctx)
	if err != nil {
		log.Fatalf("Repair pass failed: %v (partial: %+v)", err, report)
	}

	log.Printf("Repair complete: %d friend refs pruned, %d thought refs pruned, %d orphan thoughts deleted",
		report.FriendRefsPruned, report.ThoughtRefsPruned, report.OrphanThoughtsDeleted)
}
