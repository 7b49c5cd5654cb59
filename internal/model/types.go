package model

import (
	"fmt"
	"time"
)

// Sport is a top-level catalog entry (e.g. "Cricket").
// Rows are insert-only: the sync pipeline never updates or deletes them,
// so upstream renames are deliberately not reflected.
type Sport struct {
	ID         int64  // Internal ID
	Name       string // Display name
	UpstreamID int64  // Exchange sport ID (unique)
}

// Competition belongs to a sport (e.g. "IPL").
// Unique by (UpstreamSportID, UpstreamID); refreshed in full every sync cycle.
type Competition struct {
	ID              int64  // Internal ID
	Name            string // Display name
	SportID         int64  // Internal FK to Sport
	UpstreamSportID int64  // Exchange sport ID (denormalized)
	UpstreamID      int64  // Exchange competition ID
	MarketCount     int    // Number of markets upstream reports
	Region          string // Exchange competition region
	IsActive        bool   // Set true on every sync
}

// Event is a single fixture within a competition.
// Unique by (UpstreamID, UpstreamSportID, UpstreamCompetitionID);
// refreshed in full every sync cycle.
type Event struct {
	ID                    int64     // Internal ID
	Name                  string    // Display name
	SportID               int64     // Internal FK to Sport
	UpstreamSportID       int64     // Exchange sport ID (denormalized)
	CompetitionID         int64     // Internal FK to Competition
	UpstreamCompetitionID int64     // Exchange competition ID (denormalized)
	UpstreamID            int64     // Exchange event ID
	MatchDate             time.Time // Scheduled start
	MarketCount           int       // Number of markets upstream reports
}

// MarketCategory selects the upstream feed query and response shape.
type MarketCategory string

const (
	CategoryMatchOdds MarketCategory = "match_odds"
	CategoryBookmaker MarketCategory = "bookmaker"
	CategoryFancy     MarketCategory = "fancy"
)

// Valid reports whether c is a known category.
func (c MarketCategory) Valid() bool {
	switch c {
	case CategoryMatchOdds, CategoryBookmaker, CategoryFancy:
		return true
	}
	return false
}

// ParseMarketCategory converts a wire string into a MarketCategory.
func ParseMarketCategory(s string) (MarketCategory, error) {
	c := MarketCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown market category %q", s)
	}
	return c, nil
}

// Market identifies one bettable market within an event.
// Markets are owned by the betting layer; this service only reads them
// to drive the live-odds feed.
type Market struct {
	ID               string         // Internal market ID (primary key, also the room key)
	EventID          int64          // Internal FK to Event
	Category         MarketCategory // Feed category
	UpstreamMarketID string         // Exchange market ID (match-odds / bookmaker queries)
	UpstreamEventID  int64          // Exchange event ID (fancy queries)
	RunnerNames      []string       // Stored runner names, in display order
}

// FeedKey returns the identifier used to query the upstream feed for
// this market's category.
func (m Market) FeedKey() string {
	if m.Category == CategoryFancy {
		return fmt.Sprintf("%d", m.UpstreamEventID)
	}
	return m.UpstreamMarketID
}
