package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/oddsdesk/exchange-data/internal/model"
)

func TestMemoryStore_SportInsertAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := s.FindSportByUpstreamID(ctx, 4)
	if err != nil {
		t.Fatalf("FindSportByUpstreamID failed: %v", err)
	}
	if ok {
		t.Fatal("found sport in empty store")
	}

	inserted, err := s.InsertSport(ctx, model.Sport{Name: "Cricket", UpstreamID: 4})
	if err != nil {
		t.Fatalf("InsertSport failed: %v", err)
	}
	if inserted.ID == 0 {
		t.Error("inserted sport has no internal ID")
	}

	got, ok, err := s.FindSportByUpstreamID(ctx, 4)
	if err != nil || !ok {
		t.Fatalf("FindSportByUpstreamID = (%v, %v), want found", ok, err)
	}
	if got.Name != "Cricket" {
		t.Errorf("Name = %q, want %q", got.Name, "Cricket")
	}
}

func TestMemoryStore_CompetitionUpsertKeepsIdentity(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.UpsertCompetition(ctx, model.Competition{
		Name:            "IPL",
		UpstreamSportID: 4,
		UpstreamID:      77,
		MarketCount:     3,
		Region:          "IN",
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("UpsertCompetition failed: %v", err)
	}

	second, err := s.UpsertCompetition(ctx, model.Competition{
		Name:            "Indian Premier League",
		UpstreamSportID: 4,
		UpstreamID:      77,
		MarketCount:     5,
		Region:          "IN",
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("UpsertCompetition failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert changed internal ID: %d -> %d", first.ID, second.ID)
	}

	all, err := s.ListCompetitionsWithUpstreamID(ctx)
	if err != nil {
		t.Fatalf("ListCompetitionsWithUpstreamID failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(competitions) = %d, want 1", len(all))
	}
	if all[0].Name != "Indian Premier League" || all[0].MarketCount != 5 {
		t.Errorf("competition not overwritten: %+v", all[0])
	}
}

func TestMemoryStore_EventUpsertTripleKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	matchDate := time.Date(2026, 4, 12, 14, 0, 0, 0, time.UTC)

	e1, err := s.UpsertEvent(ctx, model.Event{
		Name:                  "MI v CSK",
		UpstreamSportID:       4,
		UpstreamCompetitionID: 77,
		UpstreamID:            900101,
		MatchDate:             matchDate,
	})
	if err != nil {
		t.Fatalf("UpsertEvent failed: %v", err)
	}

	// Same upstream event id under a different competition is a distinct row.
	e2, err := s.UpsertEvent(ctx, model.Event{
		Name:                  "MI v CSK",
		UpstreamSportID:       4,
		UpstreamCompetitionID: 78,
		UpstreamID:            900101,
		MatchDate:             matchDate,
	})
	if err != nil {
		t.Fatalf("UpsertEvent failed: %v", err)
	}
	if e1.ID == e2.ID {
		t.Error("events with different competition keys share an internal ID")
	}

	if got := len(s.Events()); got != 2 {
		t.Errorf("len(events) = %d, want 2", got)
	}
}

func TestMemoryStore_MarketDirectory(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := s.GetMarket(ctx, "mkt-1")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	if ok {
		t.Fatal("found market in empty directory")
	}

	s.PutMarket(model.Market{
		ID:               "mkt-1",
		Category:         model.CategoryMatchOdds,
		UpstreamMarketID: "1.229",
		RunnerNames:      []string{"Mumbai Indians", "Chennai Super Kings"},
	})

	m, ok, err := s.GetMarket(ctx, "mkt-1")
	if err != nil || !ok {
		t.Fatalf("GetMarket = (%v, %v), want found", ok, err)
	}
	if m.Category != model.CategoryMatchOdds {
		t.Errorf("Category = %q, want %q", m.Category, model.CategoryMatchOdds)
	}
	if len(m.RunnerNames) != 2 {
		t.Errorf("len(RunnerNames) = %d, want 2", len(m.RunnerNames))
	}
}
