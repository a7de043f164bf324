package view

import (
	"context"
	"io"

	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/usecase"
	"go.uber.org/zap"
)

const clearScreen = "\033[H\033[2J"

// Console redraws the table on every board update.
type Console struct {
	out       io.Writer
	exchanges []domain.ExchangeID
	clear     bool
	logger    *zap.Logger
}

func NewConsole(out io.Writer, exchanges []domain.ExchangeID, clear bool, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{out: out, exchanges: exchanges, clear: clear, logger: logger}
}

// Print writes one snapshot.
func (c *Console) Print(snap usecase.Snapshot) error {
	if c.clear {
		if _, err := io.WriteString(c.out, clearScreen); err != nil {
			return err
		}
	}
	return WriteText(c.out, Build(snap, c.exchanges))
}

// Run prints each snapshot published on board until ctx is done.
func (c *Console) Run(ctx context.Context, board *usecase.Board) error {
	updates, unsubscribe := board.Subscribe(1)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if err := c.Print(snap); err != nil {
				c.logger.Error("Failed to print table", zap.Error(err))
			}
		}
	}
}
