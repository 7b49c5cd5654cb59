package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oddsdesk/exchange-data/internal/api"
	"github.com/oddsdesk/exchange-data/internal/model"
)

// Client is the subset of the exchange API the fetcher consumes.
type Client interface {
	GetMatchOdds(ctx context.Context, marketID string) ([]api.MatchOddsMarket, error)
	GetBookmakerOdds(ctx context.Context, marketID string) ([]api.BookmakerMarket, error)
	GetFancyOdds(ctx context.Context, eventID int64) ([]api.FancyRunner, error)
}

// Quote is the shared normalized odds record emitted for every category.
// A zero Quote marshals as {} — consumers rely on the odds field always
// being present, even when a runner has no live prices.
type Quote struct {
	Back       []api.PriceSize `json:"back,omitempty"`
	Lay        []api.PriceSize `json:"lay,omitempty"`
	Status     string          `json:"status,omitempty"`     // bookmaker only
	GameStatus string          `json:"gameStatus,omitempty"` // fancy only
}

// RunnerOdds pairs a stored runner name with its normalized quote.
type RunnerOdds struct {
	Runner string `json:"runnerName"`
	Odds   Quote  `json:"odds"`
}

// Snapshot is one market's normalized odds at a point in time.
type Snapshot struct {
	MarketID string               `json:"marketId"`
	Category model.MarketCategory `json:"category"`
	Runners  []RunnerOdds         `json:"runners"`
}

// Fetcher builds category-specific upstream queries and normalizes the
// responses.
type Fetcher struct {
	client Client
	logger *slog.Logger
}

// NewFetcher creates a market feed fetcher.
func NewFetcher(client Client, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch returns the market's current odds snapshot.
//
// A nil snapshot with nil error means the upstream answered non-200:
// the market has no data yet, which is a normal state, not a failure.
// Network and decode failures are real errors.
func (f *Fetcher) Fetch(ctx context.Context, market model.Market) (*Snapshot, error) {
	var (
		quotes map[string]Quote
		err    error
	)

	switch market.Category {
	case model.CategoryMatchOdds:
		quotes, err = f.fetchMatchOdds(ctx, market.UpstreamMarketID)
	case model.CategoryBookmaker:
		quotes, err = f.fetchBookmakerOdds(ctx, market.UpstreamMarketID)
	case model.CategoryFancy:
		quotes, err = f.fetchFancyOdds(ctx, market.UpstreamEventID)
	default:
		return nil, fmt.Errorf("market %s: unknown category %q", market.ID, market.Category)
	}

	if err != nil {
		if api.IsUpstreamUnavailable(err) {
			// Market not open yet; no snapshot this tick.
			return nil, nil
		}
		return nil, err
	}

	snapshot := &Snapshot{
		MarketID: market.ID,
		Category: market.Category,
		Runners:  make([]RunnerOdds, 0, len(market.RunnerNames)),
	}
	for _, name := range market.RunnerNames {
		// Exact, case-sensitive match against the upstream label.
		// Unmatched runners get an empty quote, never an omitted field.
		snapshot.Runners = append(snapshot.Runners, RunnerOdds{
			Runner: name,
			Odds:   quotes[name],
		})
	}
	return snapshot, nil
}

// fetchMatchOdds normalizes ?action=matchodds. The label field is
// `runner`; status, lastPriceTraded, selectionId, removalDate and the
// raw exchange book are stripped.
func (f *Fetcher) fetchMatchOdds(ctx context.Context, marketID string) (map[string]Quote, error) {
	markets, err := f.client.GetMatchOdds(ctx, marketID)
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]Quote)
	if len(markets) == 0 {
		return quotes, nil
	}
	for _, r := range markets[0].Runners {
		quotes[r.Runner] = Quote{Back: r.Back, Lay: r.Lay}
	}
	return quotes, nil
}

// fetchBookmakerOdds normalizes ?action=bookmakermatchodds. The label
// field is `runnerName`; the runner status survives to clients.
func (f *Fetcher) fetchBookmakerOdds(ctx context.Context, marketID string) (map[string]Quote, error) {
	markets, err := f.client.GetBookmakerOdds(ctx, marketID)
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]Quote)
	if len(markets) == 0 {
		return quotes, nil
	}
	for _, r := range markets[0].Runners {
		quotes[r.RunnerName] = Quote{
			Back:   []api.PriceSize{{Price: r.Back}},
			Lay:    []api.PriceSize{{Price: r.Lay}},
			Status: r.Status,
		}
	}
	return quotes, nil
}

// fetchFancyOdds normalizes ?action=fancy, a flat array of session
// markets. The label field is `RunnerName`; RunnerName and SelectionId
// are stripped from the emitted quote.
func (f *Fetcher) fetchFancyOdds(ctx context.Context, eventID int64) (map[string]Quote, error) {
	runners, err := f.client.GetFancyOdds(ctx, eventID)
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]Quote)
	for _, r := range runners {
		quotes[r.RunnerName] = Quote{
			Back:       []api.PriceSize{{Price: r.BackPrice, Size: r.BackSize}},
			Lay:        []api.PriceSize{{Price: r.LayPrice, Size: r.LaySize}},
			GameStatus: r.GameStatus,
		}
	}
	return quotes, nil
}
