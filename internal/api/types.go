package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt64 decodes an integer that the upstream serializes
// inconsistently as either a JSON number or a quoted string.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parse upstream id %q: %w", data, err)
	}
	*f = FlexInt64(n)
	return nil
}

// APISport is one entry from ?action=sports.
type APISport struct {
	EventType FlexInt64 `json:"eventType"` // Upstream sport ID
	Name      string    `json:"name"`
}

// APICompetition is one entry from ?action=serise.
type APICompetition struct {
	Competition       CompetitionRef `json:"competition"`
	MarketCount       int            `json:"marketCount"`
	CompetitionRegion string         `json:"competitionRegion"`
}

// CompetitionRef is the nested competition identity object.
type CompetitionRef struct {
	ID   FlexInt64 `json:"id"`
	Name string    `json:"name"`
}

// APIEvent is one entry from ?action=event.
type APIEvent struct {
	Event       EventRef `json:"event"`
	MarketCount int      `json:"marketCount"`
}

// EventRef is the nested event identity object.
type EventRef struct {
	ID       FlexInt64 `json:"id"`
	Name     string    `json:"name"`
	OpenDate string    `json:"openDate"` // ISO 8601
}

// PriceSize is one price level on a runner.
type PriceSize struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// MatchOddsMarket is one entry from ?action=matchodds.
//
// Only client-facing fields are declared; upstream-internal runner fields
// (ex, status, lastPriceTraded, selectionId, removalDate) are dropped at
// decode time.
type MatchOddsMarket struct {
	MarketID string            `json:"marketId"`
	Runners  []MatchOddsRunner `json:"runners"`
}

// MatchOddsRunner is a runner's live match-odds prices.
type MatchOddsRunner struct {
	Runner string      `json:"runner"` // Label field for runner matching
	Back   []PriceSize `json:"back"`
	Lay    []PriceSize `json:"lay"`
}

// BookmakerMarket is one entry from ?action=bookmakermatchodds.
//
// Unlike match-odds, the runner status survives to clients; ex,
// lastPriceTraded and selectionId are dropped at decode time.
type BookmakerMarket struct {
	MarketID string            `json:"marketId"`
	Runners  []BookmakerRunner `json:"runners"`
}

// BookmakerRunner is a runner's bookmaker prices.
type BookmakerRunner struct {
	RunnerName string  `json:"runnerName"` // Label field for runner matching
	Status     string  `json:"status"`
	Back       float64 `json:"back1"`
	Lay        float64 `json:"lay1"`
}

// FancyRunner is one entry from ?action=fancy. The response is a flat
// array of session markets, not nested under a market document.
type FancyRunner struct {
	RunnerName  string  `json:"RunnerName"`  // Label field for runner matching
	SelectionID int64   `json:"SelectionId"` // Stripped before emit
	BackPrice   float64 `json:"BackPrice1"`
	BackSize    float64 `json:"BackSize1"`
	LayPrice    float64 `json:"LayPrice1"`
	LaySize     float64 `json:"LaySize1"`
	GameStatus  string  `json:"GameStatus"`
}

var _ json.Unmarshaler = (*FlexInt64)(nil)
