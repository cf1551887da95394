package collector

import (
	"context"

	"SMCSentinel/internal/model"
)

// Fetcher defines the interface for fetching OHLCV bars.
type Fetcher interface {
	// FetchBars returns up to limit of the most recent bars for symbol at the given interval,
	// oldest first.
	FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	Name() string
}
