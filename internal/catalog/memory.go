package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/oddsdesk/exchange-data/internal/model"
)

// MemoryStore is an in-memory Store and MarketDirectory with the same
// uniqueness semantics as the Postgres implementation. Tests use it; it
// also backs local runs without a database.
type MemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	sports       map[int64]model.Sport      // keyed by upstream sport id
	competitions map[[2]int64]model.Competition
	events       map[[3]int64]model.Event
	markets      map[string]model.Market
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sports:       make(map[int64]model.Sport),
		competitions: make(map[[2]int64]model.Competition),
		events:       make(map[[3]int64]model.Event),
		markets:      make(map[string]model.Market),
	}
}

func (s *MemoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

// FindSportByUpstreamID looks a sport up by its exchange sport ID.
func (s *MemoryStore) FindSportByUpstreamID(_ context.Context, upstreamID int64) (model.Sport, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sport, ok := s.sports[upstreamID]
	return sport, ok, nil
}

// InsertSport creates a new sport row.
func (s *MemoryStore) InsertSport(_ context.Context, sport model.Sport) (model.Sport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sport.ID = s.allocID()
	s.sports[sport.UpstreamID] = sport
	return sport, nil
}

// ListSportsWithUpstreamID returns every sport, ordered by internal ID.
func (s *MemoryStore) ListSportsWithUpstreamID(_ context.Context) ([]model.Sport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sports := make([]model.Sport, 0, len(s.sports))
	for _, sport := range s.sports {
		sports = append(sports, sport)
	}
	sort.Slice(sports, func(i, j int) bool { return sports[i].ID < sports[j].ID })
	return sports, nil
}

// UpsertCompetition creates or fully refreshes a competition.
func (s *MemoryStore) UpsertCompetition(_ context.Context, c model.Competition) (model.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{c.UpstreamSportID, c.UpstreamID}
	if existing, ok := s.competitions[key]; ok {
		c.ID = existing.ID
	} else {
		c.ID = s.allocID()
	}
	s.competitions[key] = c
	return c, nil
}

// ListCompetitionsWithUpstreamID returns every competition, ordered by internal ID.
func (s *MemoryStore) ListCompetitionsWithUpstreamID(_ context.Context) ([]model.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitions := make([]model.Competition, 0, len(s.competitions))
	for _, c := range s.competitions {
		competitions = append(competitions, c)
	}
	sort.Slice(competitions, func(i, j int) bool { return competitions[i].ID < competitions[j].ID })
	return competitions, nil
}

// UpsertEvent creates or fully refreshes an event.
func (s *MemoryStore) UpsertEvent(_ context.Context, e model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [3]int64{e.UpstreamID, e.UpstreamSportID, e.UpstreamCompetitionID}
	if existing, ok := s.events[key]; ok {
		e.ID = existing.ID
	} else {
		e.ID = s.allocID()
	}
	s.events[key] = e
	return e, nil
}

// Events returns a snapshot of all stored events, ordered by internal ID.
func (s *MemoryStore) Events() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

// PutMarket stores a market in the directory.
func (s *MemoryStore) PutMarket(m model.Market) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markets[m.ID] = m
}

// GetMarket reads one market from the directory.
func (s *MemoryStore) GetMarket(_ context.Context, marketID string) (model.Market, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markets[marketID]
	return m, ok, nil
}
