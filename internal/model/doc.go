// Package model defines shared data types used across the back-office service.
//
// Conventions:
//   - Internal IDs: int64 Postgres identity columns
//   - Upstream IDs: the exchange API's own identifiers, kept verbatim
//     (int64 for sports/competitions/events, opaque string for markets)
//   - Timestamps: time.Time in UTC
package model
