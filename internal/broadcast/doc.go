// Package broadcast owns the per-market live-odds poll loops.
//
// Lifecycle per market: Idle (no entry) -> Active (poll loop ticking at
// a fixed cadence) -> Idle (loop stopped, entry removed). The first
// subscription starts a loop; a periodic sweep retires loops whose room
// has no members. Teardown is not synchronous with the last unsubscribe,
// so an empty room may keep polling for up to one sweep interval.
//
// All registry state lives in one mutex-guarded map owned by the
// Registry; there is no ambient shared state.
package broadcast
