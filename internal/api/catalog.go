package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetSports fetches the full sports list.
func (c *Client) GetSports(ctx context.Context) ([]APISport, error) {
	var sports []APISport
	if err := c.get(ctx, "sports", nil, &sports); err != nil {
		return nil, fmt.Errorf("get sports: %w", err)
	}
	return sports, nil
}

// GetCompetitions fetches all competitions for an upstream sport ID.
// The upstream action is spelled "serise".
func (c *Client) GetCompetitions(ctx context.Context, sportID int64) ([]APICompetition, error) {
	query := url.Values{}
	query.Set("sport_id", strconv.FormatInt(sportID, 10))

	var competitions []APICompetition
	if err := c.get(ctx, "serise", query, &competitions); err != nil {
		return nil, fmt.Errorf("get competitions for sport %d: %w", sportID, err)
	}
	return competitions, nil
}

// GetEvents fetches all events for an upstream (sport, competition) pair.
func (c *Client) GetEvents(ctx context.Context, sportID, competitionID int64) ([]APIEvent, error) {
	query := url.Values{}
	query.Set("sport_id", strconv.FormatInt(sportID, 10))
	query.Set("competition_id", strconv.FormatInt(competitionID, 10))

	var events []APIEvent
	if err := c.get(ctx, "event", query, &events); err != nil {
		return nil, fmt.Errorf("get events for sport %d competition %d: %w", sportID, competitionID, err)
	}
	return events, nil
}
