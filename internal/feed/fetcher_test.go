package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/oddsdesk/exchange-data/internal/api"
	"github.com/oddsdesk/exchange-data/internal/model"
)

// fakeClient returns canned responses per category.
type fakeClient struct {
	matchOdds []api.MatchOddsMarket
	bookmaker []api.BookmakerMarket
	fancy     []api.FancyRunner
	err       error
}

func (f *fakeClient) GetMatchOdds(context.Context, string) ([]api.MatchOddsMarket, error) {
	return f.matchOdds, f.err
}

func (f *fakeClient) GetBookmakerOdds(context.Context, string) ([]api.BookmakerMarket, error) {
	return f.bookmaker, f.err
}

func (f *fakeClient) GetFancyOdds(context.Context, int64) ([]api.FancyRunner, error) {
	return f.fancy, f.err
}

func newTestFetcher(client Client) *Fetcher {
	return NewFetcher(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetch_MatchOdds(t *testing.T) {
	client := &fakeClient{
		matchOdds: []api.MatchOddsMarket{{
			MarketID: "1.229",
			Runners: []api.MatchOddsRunner{
				{
					Runner: "Mumbai Indians",
					Back:   []api.PriceSize{{Price: 1.85, Size: 1200}},
					Lay:    []api.PriceSize{{Price: 1.87, Size: 900}},
				},
			},
		}},
	}

	f := newTestFetcher(client)
	snapshot, err := f.Fetch(context.Background(), model.Market{
		ID:               "mkt-1",
		Category:         model.CategoryMatchOdds,
		UpstreamMarketID: "1.229",
		RunnerNames:      []string{"Mumbai Indians", "Chennai Super Kings"},
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if snapshot == nil {
		t.Fatal("Fetch() = nil snapshot, want data")
	}

	if len(snapshot.Runners) != 2 {
		t.Fatalf("len(Runners) = %d, want 2", len(snapshot.Runners))
	}

	matched := snapshot.Runners[0]
	if matched.Runner != "Mumbai Indians" {
		t.Errorf("Runner = %q, want %q", matched.Runner, "Mumbai Indians")
	}
	if len(matched.Odds.Back) != 1 || matched.Odds.Back[0].Price != 1.85 {
		t.Errorf("Back = %+v, want one level at 1.85", matched.Odds.Back)
	}
	if len(matched.Odds.Lay) != 1 || matched.Odds.Lay[0].Price != 1.87 {
		t.Errorf("Lay = %+v, want one level at 1.87", matched.Odds.Lay)
	}

	// Unmatched runner gets an empty quote, not an omitted field.
	unmatched := snapshot.Runners[1]
	if unmatched.Runner != "Chennai Super Kings" {
		t.Errorf("Runner = %q, want %q", unmatched.Runner, "Chennai Super Kings")
	}
	data, err := json.Marshal(unmatched)
	if err != nil {
		t.Fatalf("marshal runner odds: %v", err)
	}
	if !strings.Contains(string(data), `"odds":{}`) {
		t.Errorf("marshaled runner = %s, want empty odds object", data)
	}
}

func TestFetch_MatchingIsCaseSensitive(t *testing.T) {
	client := &fakeClient{
		matchOdds: []api.MatchOddsMarket{{
			Runners: []api.MatchOddsRunner{
				{Runner: "mumbai indians", Back: []api.PriceSize{{Price: 2.0}}},
			},
		}},
	}

	f := newTestFetcher(client)
	snapshot, err := f.Fetch(context.Background(), model.Market{
		ID:          "mkt-1",
		Category:    model.CategoryMatchOdds,
		RunnerNames: []string{"Mumbai Indians"},
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(snapshot.Runners[0].Odds.Back) != 0 {
		t.Errorf("case-mismatched runner matched: %+v", snapshot.Runners[0].Odds)
	}
}

func TestFetch_BookmakerKeepsStatus(t *testing.T) {
	client := &fakeClient{
		bookmaker: []api.BookmakerMarket{{
			Runners: []api.BookmakerRunner{
				{RunnerName: "Mumbai Indians", Status: "ACTIVE", Back: 85, Lay: 90},
			},
		}},
	}

	f := newTestFetcher(client)
	snapshot, err := f.Fetch(context.Background(), model.Market{
		ID:          "mkt-2",
		Category:    model.CategoryBookmaker,
		RunnerNames: []string{"Mumbai Indians"},
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	odds := snapshot.Runners[0].Odds
	if odds.Status != "ACTIVE" {
		t.Errorf("Status = %q, want %q", odds.Status, "ACTIVE")
	}
	if len(odds.Back) != 1 || odds.Back[0].Price != 85 {
		t.Errorf("Back = %+v, want one level at 85", odds.Back)
	}
}

func TestFetch_FancyStripsSelectionID(t *testing.T) {
	client := &fakeClient{
		fancy: []api.FancyRunner{
			{
				RunnerName:  "6 Over Runs MI",
				SelectionID: 4411,
				BackPrice:   52,
				BackSize:    100,
				LayPrice:    54,
				LaySize:     120,
				GameStatus:  "",
			},
		},
	}

	f := newTestFetcher(client)
	snapshot, err := f.Fetch(context.Background(), model.Market{
		ID:              "mkt-3",
		Category:        model.CategoryFancy,
		UpstreamEventID: 900101,
		RunnerNames:     []string{"6 Over Runs MI"},
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if strings.Contains(string(data), "4411") || strings.Contains(string(data), "SelectionId") {
		t.Errorf("snapshot leaks selection id: %s", data)
	}

	odds := snapshot.Runners[0].Odds
	if len(odds.Back) != 1 || odds.Back[0].Price != 52 || odds.Back[0].Size != 100 {
		t.Errorf("Back = %+v, want [{52 100}]", odds.Back)
	}
	if len(odds.Lay) != 1 || odds.Lay[0].Price != 54 || odds.Lay[0].Size != 120 {
		t.Errorf("Lay = %+v, want [{54 120}]", odds.Lay)
	}
}

func TestFetch_UpstreamUnavailableIsNotAnError(t *testing.T) {
	client := &fakeClient{err: &api.APIError{StatusCode: 503, Message: "Service Unavailable"}}

	f := newTestFetcher(client)
	snapshot, err := f.Fetch(context.Background(), model.Market{
		ID:          "mkt-1",
		Category:    model.CategoryMatchOdds,
		RunnerNames: []string{"Mumbai Indians"},
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v, want nil for non-200", err)
	}
	if snapshot != nil {
		t.Errorf("Fetch() = %+v, want nil snapshot for non-200", snapshot)
	}
}

func TestFetch_NetworkErrorPropagates(t *testing.T) {
	wantErr := errors.New("connection refused")
	client := &fakeClient{err: wantErr}

	f := newTestFetcher(client)
	_, err := f.Fetch(context.Background(), model.Market{
		ID:       "mkt-1",
		Category: model.CategoryMatchOdds,
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Fetch() error = %v, want %v", err, wantErr)
	}
}

func TestFetch_UnknownCategory(t *testing.T) {
	f := newTestFetcher(&fakeClient{})
	_, err := f.Fetch(context.Background(), model.Market{
		ID:       "mkt-1",
		Category: model.MarketCategory("spread"),
	})
	if err == nil {
		t.Fatal("Fetch() = nil, want unknown category error")
	}
	if !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("error = %q, want unknown category", err)
	}
}

func TestFetch_EmptyUpstreamStillCoversAllRunners(t *testing.T) {
	f := newTestFetcher(&fakeClient{matchOdds: []api.MatchOddsMarket{}})

	snapshot, err := f.Fetch(context.Background(), model.Market{
		ID:          "mkt-1",
		Category:    model.CategoryMatchOdds,
		RunnerNames: []string{"A", "B", "C"},
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(snapshot.Runners) != 3 {
		t.Fatalf("len(Runners) = %d, want 3", len(snapshot.Runners))
	}
	for _, r := range snapshot.Runners {
		if len(r.Odds.Back) != 0 || len(r.Odds.Lay) != 0 {
			t.Errorf("runner %q has odds from empty upstream: %+v", r.Runner, r.Odds)
		}
	}
}
