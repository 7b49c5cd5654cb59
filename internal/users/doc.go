// Package users resolves effective account state across the user
// hierarchy (system owner down to end user).
//
// A bet lock set on any account applies to every account below it, so
// the effective lock for a user is computed by walking the parent
// chain. The walk is iterative with a visited set and a hard depth
// bound, which keeps corrupt hierarchy data (cycles, runaway chains)
// from hanging the resolver.
package users
