// Package feed fetches live odds for one market from the upstream
// exchange and normalizes them per category.
//
// Each market category (match-odds, bookmaker, fancy/session) has its
// own upstream query, response schema and runner label field; all three
// normalize into one shared quote shape keyed by the market's stored
// runner names. Upstream-internal fields (selection ids, raw exchange
// metadata) never reach clients.
package feed
