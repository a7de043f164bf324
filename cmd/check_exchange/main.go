package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vitos/market_viewer/internal/app"
	"github.com/vitos/market_viewer/internal/config"
	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/infrastructure/logger"
	"github.com/vitos/market_viewer/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	symbol := flag.String("symbol", "XRP", "Canonical symbol to probe")
	flag.Parse()

	godotenv.Load()

	// 1. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"
	log, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	adapters, err := app.BuildAdapters(cfg, nil, log)
	if err != nil {
		log.Fatal("Failed to init exchanges", zap.Error(err))
	}

	sym := strings.ToUpper(strings.TrimSpace(*symbol))
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Timeout())
	defer cancel()

	fmt.Printf("Probing %s on %d exchanges (timeout %s)...\n", sym, len(adapters), cfg.Timeout())

	failed := 0
	for _, a := range adapters {
		start := time.Now()
		q, err := a.Fetch(ctx, sym)
		elapsed := time.Since(start).Round(time.Millisecond)

		switch {
		case err != nil:
			failed++
			fmt.Printf("❌ %-8s %v (%s)\n", a.ID(), err, elapsed)
		case !q.Mapped():
			fmt.Printf("⚪ %-8s not listed for %s\n", a.ID(), sym)
		default:
			fmt.Printf("✅ %-8s %-12s spot=%s futures=%s funding=%s spread=%.4f%% (%s)\n",
				a.ID(), q.NativeSymbol,
				show(q.SpotPrice), show(q.FuturesPrice), show(q.FundingRatePct),
				usecase.Spread(q.SpotPrice.OrZero(), q.FuturesPrice.OrZero()),
				elapsed)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func show(v domain.Value) string {
	if !v.Valid {
		return "absent"
	}
	return fmt.Sprintf("%g", v.Float)
}
