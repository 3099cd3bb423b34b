package server

import (
	"context"
	"fmt"
	"log"
	"time"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
	swaggerUI "github.com/tx7do/kratos-swagger-ui"

	"github.com/danzirulez/LogAnalyticsCollector/internal/config"
	"github.com/danzirulez/LogAnalyticsCollector/internal/store"
)

// Run starts the HTTP server and blocks until the context is cancelled.
func Run(ctx context.Context, cfg *config.CollectorConfig, openAPIData []byte) error {
	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	handler := NewHandler(db)

	srv := khttp.NewServer(
		khttp.Address(cfg.HTTPListen),
		khttp.Middleware(ApiSecretMiddleware(cfg.ApiSecret)),
		khttp.Filter(SharedKeyFilter(cfg.SharedKey)),
	)
	handler.Register(srv.Route("/"))

	// Swagger UI is registered via HandlePrefix, which bypasses the
	// middleware chain.
	if cfg.EnableSwagger && len(openAPIData) > 0 {
		swaggerUI.RegisterSwaggerUIServerWithOption(
			srv,
			swaggerUI.WithTitle("Log Analytics Collector"),
			swaggerUI.WithMemoryData(openAPIData, "yaml"),
		)
		log.Printf("Swagger UI available at http://%s/docs/", cfg.HTTPListen)
	}

	// Optional retention purge goroutine.
	if cfg.RetentionDays > 0 {
		go runPurgeLoop(ctx, db, cfg.RetentionDays, cfg.PurgeInterval)
	}

	// Graceful shutdown when the caller cancels the context.
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		_ = srv.Stop(context.Background())
	}()

	log.Printf("Log Analytics Collector listening on %s (db: %s)", cfg.HTTPListen, cfg.DatabasePath)
	if cfg.RetentionDays > 0 {
		log.Printf("Retention: %d days, purge interval: %s", cfg.RetentionDays, cfg.PurgeInterval)
	}

	return srv.Start(ctx)
}

func runPurgeLoop(ctx context.Context, db *store.Store, retentionDays int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			olderThan := time.Duration(retentionDays) * 24 * time.Hour
			n, err := db.Purge(ctx, olderThan)
			if err != nil {
				log.Printf("Purge error: %v", err)
			} else if n > 0 {
				log.Printf("Purged %d reports older than %d days", n, retentionDays)
			}
		}
	}
}
