package convert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tradelens/internal/normalize"
	"tradelens/internal/rates"
	"tradelens/internal/table"
	"tradelens/pkg/hooks"
	"tradelens/pkg/money"
)

// RateSource is the capability the converter needs from the external rate
// API. It is satisfied by *rates.Client.
type RateSource interface {
	ConvertRate(ctx context.Context, from string) (*rates.Quote, error)
}

// CurrencyConverter rewrites value columns into USD companions. It memoizes
// one fetched rate per currency code for its lifetime: construct one
// converter per conversion run.
type CurrencyConverter struct {
	source RateSource
	cache  map[string]*float64 // nil entry = lookup failed, do not retry
	logger *slog.Logger
}

// NewCurrencyConverter creates a converter with an empty per-run rate cache.
func NewCurrencyConverter(source RateSource, logger *slog.Logger) *CurrencyConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CurrencyConverter{
		source: source,
		cache:  make(map[string]*float64),
		logger: logger,
	}
}

// SheetToUSD adds a "{col}_USD" companion for every requested value column.
// Rows whose currency is blank or already USD copy the parsed original value
// verbatim; other currencies are converted with one cached rate lookup per
// distinct code. Missing, blank, or non-numeric values yield a null _USD
// cell without aborting the run, as does a failed rate lookup. Progress and
// status are emitted through the injected hooks.
func (c *CurrencyConverter) SheetToUSD(ctx context.Context, t *table.Table, currencyCol string, valueCols []string, h *hooks.Hooks) (*table.Table, error) {
	if !t.HasColumn(currencyCol) {
		return nil, fmt.Errorf("missing required column %q", currencyCol)
	}
	for _, col := range valueCols {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	runID := uuid.New()
	c.logger.Info("currency conversion started",
		"run_id", runID, "rows", t.Len(), "value_columns", len(valueCols))

	out := t.Clone()
	usdCells := make(map[string][]table.Cell, len(valueCols))
	for _, col := range valueCols {
		usdCells[col] = make([]table.Cell, out.Len())
	}

	currencyIdx := out.ColumnIndex(currencyCol)

	for r, row := range out.Rows {
		code := money.NormalizeCode(row[currencyIdx].String())

		for _, col := range valueCols {
			cell := out.Cell(r, col)
			if code == "" || code == "USD" {
				usdCells[col][r] = parsedOrMissing(cell)
				continue
			}
			rate := c.rate(ctx, code, h)
			if rate == nil {
				usdCells[col][r] = table.Missing()
				continue
			}
			value, ok := parseValue(cell)
			if !ok {
				usdCells[col][r] = table.Missing()
				continue
			}
			usdCells[col][r] = table.Number(money.ToUSD(value, *rate))
		}

		if t.Len() > 0 {
			h.Progress(float64(r+1) / float64(t.Len()))
		}
	}

	for _, col := range valueCols {
		if err := out.AddColumn(col+"_USD", usdCells[col]); err != nil {
			return nil, err
		}
	}

	h.Success(fmt.Sprintf("Converted %d value column(s) to USD across %d rows", len(valueCols), out.Len()))
	c.logger.Info("currency conversion finished", "run_id", runID)
	return out, nil
}

// rate returns the cached USD rate for a code, fetching it on first use.
// Failed lookups are cached as nil so each code costs at most one external
// call per run, and the warning fires once.
func (c *CurrencyConverter) rate(ctx context.Context, code string, h *hooks.Hooks) *float64 {
	if cached, ok := c.cache[code]; ok {
		return cached
	}

	// Reject codes the ISO table doesn't know before spending a lookup.
	if !money.ValidCode(code) {
		c.cache[code] = nil
		h.Warning(fmt.Sprintf("Unknown currency code %q; values left unconverted", code))
		return nil
	}

	h.Status(fmt.Sprintf("Fetching %s → USD rate...", code))
	quote, err := c.source.ConvertRate(ctx, code)
	if err != nil {
		c.cache[code] = nil
		c.logger.Warn("rate lookup failed", "currency", code, "error", err)
		h.Warning(fmt.Sprintf("Rate unavailable for %s; values left unconverted", code))
		return nil
	}

	rate := quote.Rate
	c.cache[code] = &rate
	return &rate
}

// parsedOrMissing parses a cell as float, or yields a missing cell.
func parsedOrMissing(c table.Cell) table.Cell {
	if v, ok := parseValue(c); ok {
		return table.Number(v)
	}
	return table.Missing()
}

// parseValue reads a numeric value from a cell, tolerating formatted text.
func parseValue(c table.Cell) (float64, bool) {
	return normalize.ParseFloat(c)
}
