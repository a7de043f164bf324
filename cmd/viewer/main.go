package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sourcegraph/conc/pool"
	"github.com/vitos/market_viewer/internal/app"
	"github.com/vitos/market_viewer/internal/config"
	"github.com/vitos/market_viewer/internal/infrastructure/logger"
	"github.com/vitos/market_viewer/internal/infrastructure/metrics"
	"github.com/vitos/market_viewer/internal/usecase"
	"github.com/vitos/market_viewer/internal/view"
	"github.com/vitos/market_viewer/internal/web"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	once := flag.Bool("once", false, "Fetch one table, print it and exit")
	flag.Parse()

	// Load .env if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Failed to load .env: %v\n", err)
	}

	// 1. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	log, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 4. Init Exchanges
	adapters, err := app.BuildAdapters(cfg, m, log)
	if err != nil {
		log.Fatal("Failed to init exchanges", zap.Error(err))
	}

	// 5. Init Services
	agg := usecase.NewAggregator(adapters, log, m, usecase.AggregatorOptions{
		SymbolConcurrency: cfg.Aggregator.SymbolConcurrency,
	})
	board := usecase.NewBoard()
	poller := usecase.NewPoller(agg, board, cfg.Symbols, cfg.Interval(), log, m)
	console := view.NewConsole(os.Stdout, agg.Exchanges(), !*once, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		snap := poller.PollOnce(ctx)
		if err := console.Print(snap); err != nil {
			log.Fatal("Failed to print table", zap.Error(err))
		}
		return
	}

	log.Info("Market viewer starting",
		zap.Strings("symbols", cfg.Symbols),
		zap.Int("exchanges", len(adapters)),
		zap.Duration("interval", cfg.Interval()))

	p := pool.New().WithContext(ctx).WithCancelOnError()

	// 6. Start Console
	if cfg.Console.Enabled {
		p.Go(func(ctx context.Context) error {
			return ignoreCanceled(console.Run(ctx, board))
		})
	}

	// 7. Start Web Server
	if cfg.Server.Enabled {
		server, err := web.NewServer(cfg.Server.Port, board, agg.Exchanges(), reg, 3*cfg.Interval(), log)
		if err != nil {
			log.Fatal("Failed to init web server", zap.Error(err))
		}
		p.Go(func(ctx context.Context) error {
			return server.Start()
		})
		p.Go(func(ctx context.Context) error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	// 8. Start Poller
	p.Go(func(ctx context.Context) error {
		return ignoreCanceled(poller.Run(ctx))
	})

	if err := p.Wait(); err != nil {
		log.Error("Market viewer stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Shutting down...")
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
