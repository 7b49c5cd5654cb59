// Package api provides the HTTP client for the upstream exchange API.
//
// The upstream exposes a single endpoint dispatched by an `action` query
// parameter:
//   - ?action=sports
//   - ?action=serise&sport_id=<id>            (sic, upstream spelling)
//   - ?action=event&sport_id=<id>&competition_id=<id>
//   - ?action=matchodds&market_id=<id>
//   - ?action=bookmakermatchodds&market_id=<id>
//   - ?action=fancy&event_id=<id>
//
// All responses are JSON arrays; the only success signal is HTTP 200.
package api
