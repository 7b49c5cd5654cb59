package catalog

import (
	"context"

	"github.com/oddsdesk/exchange-data/internal/model"
)

// Store is the persistent read/upsert interface used by the sync pipeline.
type Store interface {
	// FindSportByUpstreamID looks a sport up by its exchange sport ID.
	FindSportByUpstreamID(ctx context.Context, upstreamID int64) (model.Sport, bool, error)

	// InsertSport creates a new sport row and returns it with its internal ID.
	InsertSport(ctx context.Context, sport model.Sport) (model.Sport, error)

	// ListSportsWithUpstreamID returns every sport with a known exchange ID.
	ListSportsWithUpstreamID(ctx context.Context) ([]model.Sport, error)

	// UpsertCompetition creates or fully refreshes a competition keyed by
	// (UpstreamSportID, UpstreamID).
	UpsertCompetition(ctx context.Context, competition model.Competition) (model.Competition, error)

	// ListCompetitionsWithUpstreamID returns every competition with a known
	// exchange ID, including rows from prior sync cycles.
	ListCompetitionsWithUpstreamID(ctx context.Context) ([]model.Competition, error)

	// UpsertEvent creates or fully refreshes an event keyed by
	// (UpstreamID, UpstreamSportID, UpstreamCompetitionID).
	UpsertEvent(ctx context.Context, event model.Event) (model.Event, error)
}

// MarketDirectory reads markets owned by the betting layer. The broadcast
// side uses it to resolve a market's feed category and runner names.
type MarketDirectory interface {
	GetMarket(ctx context.Context, marketID string) (model.Market, bool, error)
}
