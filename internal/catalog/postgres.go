package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oddsdesk/exchange-data/internal/model"
)

// PostgresStore implements Store and MarketDirectory on pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the catalog tables if they do not exist.
// The markets and market_runners tables are owned by the betting layer
// and are only read here, so they are not created.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS sports (
			id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name         TEXT NOT NULL,
			api_sport_id BIGINT NOT NULL UNIQUE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS competitions (
			id                 BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name               TEXT NOT NULL,
			sport_id           BIGINT NOT NULL REFERENCES sports(id),
			api_sport_id       BIGINT NOT NULL,
			api_competition_id BIGINT NOT NULL,
			market_count       INT NOT NULL DEFAULT 0,
			region             TEXT NOT NULL DEFAULT '',
			is_active          BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (api_sport_id, api_competition_id)
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id                 BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name               TEXT NOT NULL,
			sport_id           BIGINT NOT NULL REFERENCES sports(id),
			api_sport_id       BIGINT NOT NULL,
			competition_id     BIGINT NOT NULL REFERENCES competitions(id),
			api_competition_id BIGINT NOT NULL,
			api_event_id       BIGINT NOT NULL,
			match_date         TIMESTAMPTZ,
			market_count       INT NOT NULL DEFAULT 0,
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (api_event_id, api_sport_id, api_competition_id)
		)`,
	}

	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// FindSportByUpstreamID looks a sport up by its exchange sport ID.
func (s *PostgresStore) FindSportByUpstreamID(ctx context.Context, upstreamID int64) (model.Sport, bool, error) {
	var sport model.Sport
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, api_sport_id FROM sports WHERE api_sport_id = $1`,
		upstreamID,
	).Scan(&sport.ID, &sport.Name, &sport.UpstreamID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Sport{}, false, nil
	}
	if err != nil {
		return model.Sport{}, false, fmt.Errorf("find sport by upstream id %d: %w", upstreamID, err)
	}
	return sport, true, nil
}

// InsertSport creates a new sport row.
func (s *PostgresStore) InsertSport(ctx context.Context, sport model.Sport) (model.Sport, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sports (name, api_sport_id) VALUES ($1, $2) RETURNING id`,
		sport.Name, sport.UpstreamID,
	).Scan(&sport.ID)
	if err != nil {
		return model.Sport{}, fmt.Errorf("insert sport %q: %w", sport.Name, err)
	}
	return sport, nil
}

// ListSportsWithUpstreamID returns every sport with a known exchange ID.
func (s *PostgresStore) ListSportsWithUpstreamID(ctx context.Context) ([]model.Sport, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, api_sport_id FROM sports ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	defer rows.Close()

	var sports []model.Sport
	for rows.Next() {
		var sport model.Sport
		if err := rows.Scan(&sport.ID, &sport.Name, &sport.UpstreamID); err != nil {
			return nil, fmt.Errorf("scan sport: %w", err)
		}
		sports = append(sports, sport)
	}
	return sports, rows.Err()
}

// UpsertCompetition creates or fully refreshes a competition.
func (s *PostgresStore) UpsertCompetition(ctx context.Context, c model.Competition) (model.Competition, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO competitions
			(name, sport_id, api_sport_id, api_competition_id, market_count, region, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (api_sport_id, api_competition_id) DO UPDATE SET
			name         = EXCLUDED.name,
			sport_id     = EXCLUDED.sport_id,
			market_count = EXCLUDED.market_count,
			region       = EXCLUDED.region,
			is_active    = EXCLUDED.is_active,
			updated_at   = now()
		RETURNING id`,
		c.Name, c.SportID, c.UpstreamSportID, c.UpstreamID, c.MarketCount, c.Region, c.IsActive,
	).Scan(&c.ID)
	if err != nil {
		return model.Competition{}, fmt.Errorf("upsert competition (%d, %d): %w", c.UpstreamSportID, c.UpstreamID, err)
	}
	return c, nil
}

// ListCompetitionsWithUpstreamID returns every competition with a known exchange ID.
func (s *PostgresStore) ListCompetitionsWithUpstreamID(ctx context.Context) ([]model.Competition, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, sport_id, api_sport_id, api_competition_id, market_count, region, is_active
		 FROM competitions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	defer rows.Close()

	var competitions []model.Competition
	for rows.Next() {
		var c model.Competition
		if err := rows.Scan(&c.ID, &c.Name, &c.SportID, &c.UpstreamSportID, &c.UpstreamID,
			&c.MarketCount, &c.Region, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan competition: %w", err)
		}
		competitions = append(competitions, c)
	}
	return competitions, rows.Err()
}

// UpsertEvent creates or fully refreshes an event.
func (s *PostgresStore) UpsertEvent(ctx context.Context, e model.Event) (model.Event, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO events
			(name, sport_id, api_sport_id, competition_id, api_competition_id, api_event_id, match_date, market_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (api_event_id, api_sport_id, api_competition_id) DO UPDATE SET
			name           = EXCLUDED.name,
			sport_id       = EXCLUDED.sport_id,
			competition_id = EXCLUDED.competition_id,
			match_date     = EXCLUDED.match_date,
			market_count   = EXCLUDED.market_count,
			updated_at     = now()
		RETURNING id`,
		e.Name, e.SportID, e.UpstreamSportID, e.CompetitionID, e.UpstreamCompetitionID,
		e.UpstreamID, e.MatchDate, e.MarketCount,
	).Scan(&e.ID)
	if err != nil {
		return model.Event{}, fmt.Errorf("upsert event (%d, %d, %d): %w",
			e.UpstreamID, e.UpstreamSportID, e.UpstreamCompetitionID, err)
	}
	return e, nil
}

// GetMarket reads one market and its runner names from the betting layer's
// markets and market_runners tables.
func (s *PostgresStore) GetMarket(ctx context.Context, marketID string) (model.Market, bool, error) {
	var (
		m        model.Market
		category string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, event_id, category, api_market_id, api_event_id
		 FROM markets WHERE id = $1`,
		marketID,
	).Scan(&m.ID, &m.EventID, &category, &m.UpstreamMarketID, &m.UpstreamEventID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Market{}, false, nil
	}
	if err != nil {
		return model.Market{}, false, fmt.Errorf("get market %s: %w", marketID, err)
	}

	m.Category, err = model.ParseMarketCategory(category)
	if err != nil {
		return model.Market{}, false, fmt.Errorf("market %s: %w", marketID, err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT runner_name FROM market_runners WHERE market_id = $1 ORDER BY priority, runner_name`,
		marketID)
	if err != nil {
		return model.Market{}, false, fmt.Errorf("get market %s runners: %w", marketID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return model.Market{}, false, fmt.Errorf("scan runner: %w", err)
		}
		m.RunnerNames = append(m.RunnerNames, name)
	}
	return m, true, rows.Err()
}
