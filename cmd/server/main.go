// Command server runs the RecordHub HTTP API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recordhub/internal/config"
	"recordhub/internal/observability"
	"recordhub/internal/seed"
	"recordhub/internal/server"
)

// @title RecordHub API
// @version 1.0
// @description Users and posts with token authentication and search.

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    observability.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if cfg.SeedDemoUsers {
		if _, err := seed.SeedDemoUsers(context.Background(), srv.UserRepository(), srv.AuthService()); err != nil {
			log.Fatalf("Failed to seed demo users: %v", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(srv, sigChan, shutdownTracing, 10*time.Second); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// lifecycle is the part of *server.Server that serve drives.
type lifecycle interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve runs srv until a signal arrives on stop, then shuts down the server
// and the tracer. It returns only after shutdown has finished, so deferred
// cleanup and buffered spans are not cut off by main exiting early.
func serve(srv lifecycle, stop <-chan os.Signal, shutdownTracing func(context.Context) error, timeout time.Duration) error {
	done := make(chan struct{})

	go func() {
		defer close(done)
		<-stop

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracer shutdown error: %v", err)
		}
	}()

	// Listen returns nil once Shutdown has closed the listener.
	if err := srv.Start(); err != nil {
		return err
	}
	<-done
	return nil
}
