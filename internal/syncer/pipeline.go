package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oddsdesk/exchange-data/internal/api"
	"github.com/oddsdesk/exchange-data/internal/catalog"
	"github.com/oddsdesk/exchange-data/internal/model"
)

// Client is the subset of the exchange API the pipeline consumes.
type Client interface {
	GetSports(ctx context.Context) ([]api.APISport, error)
	GetCompetitions(ctx context.Context, sportID int64) ([]api.APICompetition, error)
	GetEvents(ctx context.Context, sportID, competitionID int64) ([]api.APIEvent, error)
}

// Pipeline synchronizes the sport/competition/event catalog.
type Pipeline struct {
	client Client
	store  catalog.Store
	logger *slog.Logger

	// One fetch/upsert sequence at a time: scheduled and on-demand runs
	// serialize here.
	mu sync.Mutex
}

// NewPipeline creates a catalog sync pipeline.
func NewPipeline(client Client, store catalog.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Run executes the three sync stages in dependency order. The first
// stage error aborts the remaining stages and is returned as the single
// failure; per-item upserts that already committed stay committed.
//
// A non-200 from the upstream surfaces as a typed *api.APIError rather
// than being skipped, so callers can distinguish "upstream down" from
// malformed data.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()

	if err := p.syncSports(ctx); err != nil {
		return fmt.Errorf("sync sports: %w", err)
	}
	if err := p.syncCompetitions(ctx); err != nil {
		return fmt.Errorf("sync competitions: %w", err)
	}
	if err := p.syncEvents(ctx); err != nil {
		return fmt.Errorf("sync events: %w", err)
	}

	p.logger.Info("catalog sync complete", "duration", time.Since(start))
	return nil
}

// syncSports fetches the sports list once and inserts sports the store
// does not know. Existing rows are never modified: upstream renames are
// deliberately not reflected.
func (p *Pipeline) syncSports(ctx context.Context) error {
	sports, err := p.client.GetSports(ctx)
	if err != nil {
		return err
	}

	var inserted int
	for _, s := range sports {
		_, ok, err := p.store.FindSportByUpstreamID(ctx, int64(s.EventType))
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		if _, err := p.store.InsertSport(ctx, model.Sport{
			Name:       s.Name,
			UpstreamID: int64(s.EventType),
		}); err != nil {
			return err
		}
		inserted++
	}

	p.logger.Info("sports synced", "fetched", len(sports), "inserted", inserted)
	return nil
}

// syncCompetitions walks every known sport and upserts its competitions.
// Sports are read freshly from the store so stage-1 inserts are
// immediately eligible.
func (p *Pipeline) syncCompetitions(ctx context.Context) error {
	sports, err := p.store.ListSportsWithUpstreamID(ctx)
	if err != nil {
		return err
	}

	var upserted int
	for _, sport := range sports {
		competitions, err := p.client.GetCompetitions(ctx, sport.UpstreamID)
		if err != nil {
			return err
		}

		for _, c := range competitions {
			if _, err := p.store.UpsertCompetition(ctx, model.Competition{
				Name:            c.Competition.Name,
				SportID:         sport.ID,
				UpstreamSportID: sport.UpstreamID,
				UpstreamID:      int64(c.Competition.ID),
				MarketCount:     c.MarketCount,
				Region:          c.CompetitionRegion,
				IsActive:        true,
			}); err != nil {
				return err
			}
			upserted++
		}
	}

	p.logger.Info("competitions synced", "sports", len(sports), "upserted", upserted)
	return nil
}

// syncEvents walks every known competition (including rows from prior
// cycles) and upserts its events.
func (p *Pipeline) syncEvents(ctx context.Context) error {
	competitions, err := p.store.ListCompetitionsWithUpstreamID(ctx)
	if err != nil {
		return err
	}

	var upserted int
	for _, competition := range competitions {
		events, err := p.client.GetEvents(ctx, competition.UpstreamSportID, competition.UpstreamID)
		if err != nil {
			return err
		}

		for _, e := range events {
			matchDate, err := parseOpenDate(e.Event.OpenDate)
			if err != nil {
				return fmt.Errorf("event %d: %w", int64(e.Event.ID), err)
			}

			if _, err := p.store.UpsertEvent(ctx, model.Event{
				Name:                  e.Event.Name,
				SportID:               competition.SportID,
				UpstreamSportID:       competition.UpstreamSportID,
				CompetitionID:         competition.ID,
				UpstreamCompetitionID: competition.UpstreamID,
				UpstreamID:            int64(e.Event.ID),
				MatchDate:             matchDate,
				MarketCount:           e.MarketCount,
			}); err != nil {
				return err
			}
			upserted++
		}
	}

	p.logger.Info("events synced", "competitions", len(competitions), "upserted", upserted)
	return nil
}

// parseOpenDate accepts the upstream's ISO 8601 timestamps, with or
// without fractional seconds. An empty date is allowed (zero time).
func parseOpenDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse open date %q: %w", s, err)
	}
	return t.UTC(), nil
}
