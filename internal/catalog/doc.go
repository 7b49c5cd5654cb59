// Package catalog persists the sport/competition/event hierarchy synced
// from the upstream exchange, and reads the market directory owned by
// the betting layer.
//
// Uniqueness and upsert semantics live here:
//   - sports: unique by upstream sport id, insert-only
//   - competitions: unique by (upstream sport id, upstream competition id),
//     fields overwritten on every upsert
//   - events: unique by (upstream event id, upstream sport id, upstream
//     competition id), fields overwritten on every upsert
package catalog
