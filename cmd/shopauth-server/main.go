// Command shopauth-server serves the shopAuth buyer and seller
// authentication endpoints over HTTP, backed by PostgreSQL, Redis and SMTP.
//
// Configuration comes from the environment or a .env file:
//
//	ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET  token signing secrets (>= 32 bytes)
//	DATABASE_URL                               PostgreSQL DSN
//	REDIS_URL                                  redis://host:port/db
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_FROM
//	HTTP_ADDR                                  listen address (default :8080)
//	COOKIE_SECURE                              false for plain-HTTP development
//	AUDIT_ENABLED                              JSON audit lines on stdout (default true)
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	shopAuth "github.com/MrEthical07/shopAuth"
	"github.com/MrEthical07/shopAuth/mail"
	"github.com/MrEthical07/shopAuth/metrics/export/prometheus"
	"github.com/MrEthical07/shopAuth/store/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("shopauth-server: %v", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := newPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.New(pool)
	if cfg.Migrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	sender, err := mail.NewSMTPSender(cfg.SMTP)
	if err != nil {
		return err
	}

	engine, err := shopAuth.New().
		WithConfig(cfg.Auth).
		WithRedis(rdb).
		WithAccountStore(store).
		WithSender(sender).
		WithAuditSink(shopAuth.MultiAuditSink{
			shopAuth.NewJSONWriterSink(os.Stdout),
			shopAuth.AuditSinkFunc(logLockouts),
		}).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		return fmt.Errorf("engine build: %w", err)
	}
	defer engine.Close()

	for _, w := range engine.SecurityReport().Warnings {
		log.Printf("shopauth-server: warning: %s", w)
	}

	mux := newRouter(engine)
	mux.Handle("GET /metrics", prometheus.NewExporter(engine).Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("shopauth-server: listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return pool, nil
}

// logLockouts surfaces OTP lock events in the server log as well as the
// audit stream.
func logLockouts(_ context.Context, ev shopAuth.AuditEvent) {
	switch ev.EventType {
	case "otp_lockout", "otp_spam_lock":
		log.Printf("shopauth-server: %s for %s", ev.EventType, ev.Email)
	}
}
