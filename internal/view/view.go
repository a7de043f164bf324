// Package view turns a board snapshot into display-ready rows shared by
// the console table and the web dashboard.
package view

import (
	"fmt"
	"time"

	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/usecase"
)

const (
	Title        = "Crypto Market Viewer"
	NotAvailable = "N/A"
	timeLayout   = "2006-01-02 15:04:05"
)

type Row struct {
	Exchange string
	Spot     string
	Futures  string
	Spread   string
	Funding  string
	OK       bool
}

// Group is one symbol with a row per exchange.
type Group struct {
	Symbol string
	Rows   []Row
}

// ExchangeMeta tells the dashboard script how to format a venue's cells.
type ExchangeMeta struct {
	ID          string `json:"id"`
	Currency    string `json:"currency"`
	Derivatives bool   `json:"derivatives"`
}

type Table struct {
	Title     string
	UpdatedAt string
	CycleID   string
	Exchanges []ExchangeMeta
	Groups    []Group
}

// Build lays out snap grouped by symbol, then by exchange in the given
// order. Cells whose exchange did not report are N/A.
func Build(snap usecase.Snapshot, exchanges []domain.ExchangeID) Table {
	t := Table{
		Title:     Title,
		UpdatedAt: formatTime(snap.UpdatedAt),
		CycleID:   snap.CycleID,
		Exchanges: make([]ExchangeMeta, 0, len(exchanges)),
		Groups:    make([]Group, 0, len(snap.Records)),
	}
	for _, ex := range exchanges {
		t.Exchanges = append(t.Exchanges, ExchangeMeta{
			ID:          string(ex),
			Currency:    ex.QuoteCurrency(),
			Derivatives: ex.HasDerivatives(),
		})
	}
	for _, rec := range snap.Records {
		g := Group{Symbol: rec.Symbol, Rows: make([]Row, 0, len(exchanges))}
		for _, ex := range exchanges {
			g.Rows = append(g.Rows, buildRow(rec, ex))
		}
		t.Groups = append(t.Groups, g)
	}
	return t
}

func buildRow(rec *domain.PriceRecord, ex domain.ExchangeID) Row {
	row := Row{
		Exchange: string(ex),
		Spot:     NotAvailable,
		Futures:  NotAvailable,
		Spread:   NotAvailable,
		Funding:  NotAvailable,
	}
	if rec.Status[ex] != domain.StatusOK {
		return row
	}
	row.OK = true
	row.Spot = Price(rec.SpotPrice[ex], ex)
	if ex.HasDerivatives() {
		row.Futures = Price(rec.FuturesPrice[ex], ex)
		row.Spread = Percent(rec.SpreadPct[ex])
		row.Funding = Percent(rec.FundingRatePct[ex])
	}
	return row
}

// Price formats v with four decimals and the venue's quote currency.
func Price(v float64, ex domain.ExchangeID) string {
	return fmt.Sprintf("%.4f %s", v, ex.QuoteCurrency())
}

func Percent(v float64) string {
	return fmt.Sprintf("%.4f%%", v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(timeLayout)
}
