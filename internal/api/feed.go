package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetMatchOdds fetches live match odds for an upstream market ID.
func (c *Client) GetMatchOdds(ctx context.Context, marketID string) ([]MatchOddsMarket, error) {
	query := url.Values{}
	query.Set("market_id", marketID)

	var markets []MatchOddsMarket
	if err := c.get(ctx, "matchodds", query, &markets); err != nil {
		return nil, fmt.Errorf("get match odds for market %s: %w", marketID, err)
	}
	return markets, nil
}

// GetBookmakerOdds fetches bookmaker odds for an upstream market ID.
func (c *Client) GetBookmakerOdds(ctx context.Context, marketID string) ([]BookmakerMarket, error) {
	query := url.Values{}
	query.Set("market_id", marketID)

	var markets []BookmakerMarket
	if err := c.get(ctx, "bookmakermatchodds", query, &markets); err != nil {
		return nil, fmt.Errorf("get bookmaker odds for market %s: %w", marketID, err)
	}
	return markets, nil
}

// GetFancyOdds fetches fancy/session odds for an upstream event ID.
func (c *Client) GetFancyOdds(ctx context.Context, eventID int64) ([]FancyRunner, error) {
	query := url.Values{}
	query.Set("event_id", strconv.FormatInt(eventID, 10))

	var runners []FancyRunner
	if err := c.get(ctx, "fancy", query, &runners); err != nil {
		return nil, fmt.Errorf("get fancy odds for event %d: %w", eventID, err)
	}
	return runners, nil
}
