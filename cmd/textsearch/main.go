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

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/console"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] <file1> <file2> ... <fileN>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args()); err != nil {
		slog.Error("textsearch failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, files []string) error {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(nil)
	}

	engine := indexer.NewEngine(cfg.Indexer, indexer.WithMetrics(m))
	defer engine.Close()

	opts := []executor.Option{executor.WithMetrics(m)}
	checker := health.NewChecker()

	if cfg.Search.CacheEnabled {
		redisClient, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, result caching disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer redisClient.Close()
			opts = append(opts, executor.WithCache(cache.New(redisClient, cfg.Redis.CacheTTL)))
			checker.Register("redis", func(ctx context.Context) error {
				if err := redisClient.Ping(ctx); err != nil {
					return fmt.Errorf("%v: %w", err, health.ErrDegraded)
				}
				return nil
			})
			slog.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		collector := analytics.NewCollector(producer, cfg.Kafka.BufferSize, cfg.Kafka.BatchSize, cfg.Kafka.FlushInterval)
		collector.Start(ctx)
		// runs before producer.Close so buffered events are flushed first
		defer collector.Close()
		opts = append(opts, executor.WithTracker(collector))
	}

	exec := executor.New(engine, *cfg, opts...)
	for _, name := range files {
		id, err := exec.Load(ctx, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not load %s: %v\n", name, err)
			continue
		}
		slog.Info("document ready", "doc_id", id, "document", name)
	}
	checker.Register("index", func(context.Context) error {
		if len(exec.Documents()) == 0 {
			return errors.New("no documents loaded")
		}
		return nil
	})

	if cfg.Metrics.Enabled {
		shutdown, err := metrics.StartServer(cfg.Metrics.Port, map[string]http.Handler{
			"/health": checker.Handler(),
		})
		if err != nil {
			slog.Warn("metrics server not started", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				shutdown(shutdownCtx)
			}()
		}
	}

	// unblock the pending read on interrupt
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()
	err := console.New(exec).Run(ctx, os.Stdin, os.Stdout)
	st := exec.Stats()
	slog.Info("session finished", "documents", len(st.Documents), "words", st.Words, "tokens", st.Tokens, "cache_hits", st.CacheHits)
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
