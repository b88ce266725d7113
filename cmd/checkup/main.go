// Command checkup verifies connectivity with the configured workflow
// engine: it fetches worker status and lists the registered workflows.
package main

import (
	"context"
	"log"
	"time"

	"workflow-engine-mcp/internal/config"
	"workflow-engine-mcp/internal/engine"
	"workflow-engine-mcp/internal/logging"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Activate(cfg); err != nil {
		log.Fatalf("Failed to activate config: %v", err)
	}

	logger := logging.NewLoggerWith(logging.Options{Level: cfg.Log.Level})
	client := engine.NewClient(cfg, logger)

	status, err := client.GetWorkersStatus(ctx)
	if err != nil {
		log.Fatalf("Worker status check failed: %v", err)
	}
	logger.Info("Worker fleet", "healthy", status.Healthy, "workers", len(status.Workers))

	workflows, err := client.ListWorkflows(ctx)
	if err != nil {
		log.Fatalf("Workflow listing failed: %v", err)
	}
	for _, w := range workflows {
		logger.Info("Workflow", "id", w.ID, "name", w.Name, "version", w.Version)
	}

	logger.Info("Checkup complete", "engine", cfg.Engine.BaseURL, "workflows", len(workflows))
}
