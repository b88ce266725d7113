package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"workflow-engine-mcp/internal/config"
	"workflow-engine-mcp/internal/engine"
	"workflow-engine-mcp/internal/logging"
	"workflow-engine-mcp/internal/mcp"
	"workflow-engine-mcp/internal/tls"
)

func main() {
	var stdio bool

	rootCmd := &cobra.Command{
		Use:   "workflow-engine-mcp",
		Short: "MCP server exposing a remote workflow engine as callable tools",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(stdio)
		},
	}
	rootCmd.Flags().BoolVar(&stdio, "stdio", false, "serve MCP over stdin/stdout instead of HTTP")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(stdio bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Activate(cfg); err != nil {
		return fmt.Errorf("failed to activate configuration: %w", err)
	}

	logger := logging.NewLoggerWith(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	logger.Info("Configuration loaded",
		"engine_base_url", cfg.Engine.BaseURL,
		"timeout", cfg.Engine.Timeout,
		"max_retries", cfg.Retry.MaxRetries,
		"poll_interval", cfg.Poll.Interval,
	)

	client := engine.NewClient(cfg, logger)
	waiter := engine.NewWaiter(client, cfg, logger)
	mcpServer := mcp.NewServer(client, waiter, logger)

	logger.Info("Workflow engine tools registered")

	if stdio {
		logger.Info("Serving MCP over stdio")
		return mcpServer.ServeStdio()
	}

	return serveHTTP(cfg, logger, mcpServer)
}

func serveHTTP(cfg *config.Config, logger logging.Logger, mcpServer *mcp.Server) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp", echo.WrapHandler(mcpHandlers))
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))

	logger.Info("MCP protocol handlers mounted")

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", addr, "tls", cfg.Server.TLS.Enable)
		if cfg.Server.TLS.Enable {
			certFile, keyFile := cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile
			if certFile == "" || keyFile == "" {
				serverErrors <- fmt.Errorf("TLS enabled but cert/key file not provided")
				return
			}
			if _, err := os.Stat(certFile); os.IsNotExist(err) {
				if len(cfg.Server.TLS.Hostnames) > 0 {
					if err := tls.GenerateSelfSignedCert(certFile, keyFile, cfg.Server.TLS.Hostnames); err != nil {
						logger.Error("failed to generate self-signed cert", "error", err)
					}
				}
			}
			serverErrors <- server.ListenAndServeTLS(certFile, keyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := shutdownContext()
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}

	return nil
}

func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
