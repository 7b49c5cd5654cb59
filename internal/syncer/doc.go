// Package syncer implements the catalog sync pipeline: three strictly
// sequential stages (sports, competitions, events), each fetching from
// the upstream exchange and upserting into the catalog store.
//
// Ordering is the correctness mechanism: stage 2 reads sports freshly
// from the store after stage 1 commits, and stage 3 reads competitions
// the same way, so a child row is never written for a parent the store
// does not know. A stage failure aborts the remaining stages but never
// rolls back committed upserts; the idempotent rerun heals the gap.
package syncer
