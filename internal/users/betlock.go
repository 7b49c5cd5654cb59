package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Role is a user's position in the hierarchy.
type Role string

const (
	RoleSystemOwner Role = "system_owner"
	RoleSuperAdmin  Role = "super_admin"
	RoleAdmin       Role = "admin"
	RoleMaster      Role = "master"
	RoleAgent       Role = "agent"
	RoleUser        Role = "user"
)

// User is the slice of the account record the resolver needs.
type User struct {
	ID          string
	ParentID    string // empty at the hierarchy root
	Username    string
	Role        Role
	IsActive    bool
	IsBetLocked bool
}

// Store reads user records.
type Store interface {
	// GetUser returns a user by id. The bool reports whether the user
	// exists; a missing user is not an error.
	GetUser(ctx context.Context, id string) (User, bool, error)
}

// MaxWalkDepth bounds the parent walk. The hierarchy has six roles, so
// any chain longer than this is corrupt data.
const MaxWalkDepth = 10

var (
	// ErrUserNotFound is returned when the starting user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrHierarchyCycle is returned when the parent chain loops back on
	// itself.
	ErrHierarchyCycle = errors.New("cycle in user hierarchy")

	// ErrWalkTooDeep is returned when the parent chain exceeds
	// MaxWalkDepth without reaching a root.
	ErrWalkTooDeep = errors.New("user hierarchy deeper than walk bound")
)

// LockState is the resolved bet-lock for one user.
type LockState struct {
	// Locked is true when the user or any ancestor carries a bet lock.
	Locked bool

	// LockedBy names the nearest account that imposed the lock. Empty
	// when Locked is false.
	LockedBy string
}

// Resolver computes effective bet-lock state.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver creates a bet-lock resolver.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// EffectiveBetLock walks from the user up the parent chain and returns
// the first lock found. The walk carries a visited set and stops at
// MaxWalkDepth, turning broken hierarchy data into errors instead of
// unbounded work.
func (r *Resolver) EffectiveBetLock(ctx context.Context, userID string) (LockState, error) {
	visited := make(map[string]struct{}, 4)
	currentID := userID

	for depth := 0; ; depth++ {
		if depth >= MaxWalkDepth {
			return LockState{}, fmt.Errorf("resolve bet lock for %s: %w", userID, ErrWalkTooDeep)
		}
		if _, seen := visited[currentID]; seen {
			return LockState{}, fmt.Errorf("resolve bet lock for %s: %w at %s", userID, ErrHierarchyCycle, currentID)
		}
		visited[currentID] = struct{}{}

		user, found, err := r.store.GetUser(ctx, currentID)
		if err != nil {
			return LockState{}, fmt.Errorf("resolve bet lock for %s: %w", userID, err)
		}
		if !found {
			if currentID == userID {
				return LockState{}, fmt.Errorf("resolve bet lock for %s: %w", userID, ErrUserNotFound)
			}
			// A dangling parent reference ends the chain; ancestors we
			// cannot see cannot lock anyone.
			r.logger.Warn("parent chain ends at missing user",
				"user_id", userID,
				"missing_id", currentID,
			)
			return LockState{}, nil
		}

		if user.IsBetLocked {
			return LockState{Locked: true, LockedBy: user.ID}, nil
		}
		if user.ParentID == "" {
			return LockState{}, nil
		}
		currentID = user.ParentID
	}
}
