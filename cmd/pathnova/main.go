// Command pathnova is the local PathNova client. It resolves the session of
// its single user against the identity service once at startup and serves
// the home, sign-in and dashboard pages, with the dashboard behind the
// session guard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pathnova/sessiongate"
	"github.com/pathnova/sessiongate/internal/logging"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		addr        = flag.String("addr", "127.0.0.1:5173", "listen address")
		guardWait   = flag.Duration("guard-wait", 0, "how long a dashboard request waits for the session to resolve before showing the loading page")
		redisStream = flag.Int64("audit-stream-maxlen", 10000, "cap on the Redis audit stream length, 0 for none")
	)
	flag.Parse()

	if err := run(*addr, *guardWait, *redisStream); err != nil {
		fmt.Fprintf(os.Stderr, "pathnova: %v\n", err)
		os.Exit(1)
	}
}

func run(addr string, guardWait time.Duration, streamMaxLen int64) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, env, err := sessiongate.ConfigFromEnv()
	if err != nil {
		return err
	}

	logger := logging.New(env.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	logger.InfoContext(ctx, "configuration loaded",
		"api_base", cfg.Identity.BaseURL,
		"public_entry", cfg.Guard.PublicEntryPoint,
		"audit_enabled", cfg.Audit.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled)

	builder := sessiongate.New().
		WithConfig(cfg).
		WithLogger(logger)

	var rdb *redis.Client
	if cfg.Audit.Enabled {
		if env.AuditRedisAddr != "" {
			rdb = redis.NewClient(&redis.Options{Addr: env.AuditRedisAddr})
			builder.WithAuditSink(sessiongate.NewRedisStreamSink(rdb, env.AuditRedisStream, streamMaxLen))
			logger.InfoContext(ctx, "audit events go to redis stream",
				"addr", env.AuditRedisAddr,
				"stream", env.AuditRedisStream)
		} else {
			builder.WithAuditSink(sessiongate.NewSlogSink(logger))
		}
	}

	store, err := builder.Build()
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return fmt.Errorf("build session store: %w", err)
	}
	store.Initialize(ctx)

	e := newServer(store, logger, serverOptions{
		GuardWait:      guardWait,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	logger.InfoContext(ctx, "starting pathnova client", "address", addr)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		store.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("server exited properly")
	return nil
}
