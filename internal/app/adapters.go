// Package app assembles the viewer's components from configuration.
package app

import (
	"fmt"

	"github.com/vitos/market_viewer/internal/config"
	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/infrastructure/exchange"
	"github.com/vitos/market_viewer/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// BuildAdapters creates one adapter per enabled exchange, in display
// order, sharing a single HTTP client.
func BuildAdapters(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) ([]domain.ExchangeAdapter, error) {
	mapping := cfg.SymbolMapping()
	httpClient := exchange.NewHTTPClient(cfg.Timeout())

	var adapters []domain.ExchangeAdapter
	for _, id := range cfg.EnabledExchanges() {
		exCfg := cfg.Exchange(id)
		adapter, err := exchange.New(id,
			exchange.Endpoints{SpotURL: exCfg.SpotURL, FuturesURL: exCfg.FuturesURL},
			mapping,
			exchange.Options{
				HTTPClient: httpClient,
				Client: exchange.ClientConfig{
					Timeout:           cfg.Timeout(),
					RequestsPerSecond: exCfg.RequestsPerSecond,
					Burst:             exCfg.Burst,
				},
				Metrics: m,
				Logger:  log,
			})
		if err != nil {
			return nil, fmt.Errorf("build %s adapter: %w", id, err)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
