package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oddsdesk/exchange-data/internal/feed"
	"github.com/oddsdesk/exchange-data/internal/model"
)

// Gateway is the room layer the registry queries and emits through.
type Gateway interface {
	// RoomMemberCount returns the current number of subscribers in a room.
	RoomMemberCount(room string) int

	// EmitToRoom fans a payload out to every member of a room.
	EmitToRoom(room, event string, payload any)
}

// Source fetches one market's current odds snapshot.
type Source interface {
	Fetch(ctx context.Context, market model.Market) (*feed.Snapshot, error)
}

// Config holds broadcast registry settings.
type Config struct {
	// TickInterval is the fixed poll cadence per active market.
	TickInterval time.Duration

	// SweepInterval bounds how long an empty room keeps polling.
	SweepInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval:  2 * time.Second,
		SweepInterval: 30 * time.Second,
	}
}

// RoomName returns the gateway room for a market.
func RoomName(marketID string) string {
	return "market:" + marketID
}

// EventName returns the room-scoped event under which snapshots emit.
func EventName(marketID string) string {
	return "market:data:" + marketID
}

// Registry tracks which markets have an active poll loop.
type Registry struct {
	cfg     Config
	source  Source
	gateway Gateway
	logger  *slog.Logger

	// loops is the only shared mutable state; every insert/remove/lookup
	// goes through mu so concurrent subscriptions cannot double-start a
	// market and the sweep cannot double-stop one.
	mu    sync.Mutex
	loops map[string]*loop

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// loop is one market's active poll schedule.
type loop struct {
	market model.Market
	room   string

	cancel   context.CancelFunc
	stopOnce sync.Once
}

// stop is idempotent: safe to call on an already-stopped loop.
func (l *loop) stop() {
	l.stopOnce.Do(l.cancel)
}

// NewRegistry creates a broadcast registry.
func NewRegistry(cfg Config, source Source, gateway Gateway, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:     cfg,
		source:  source,
		gateway: gateway,
		logger:  logger,
		loops:   make(map[string]*loop),
	}
}

// Start begins the sweep schedule. Must be called before Ensure.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.sweepLoop()

	r.logger.Info("broadcast registry started",
		"tick_interval", r.cfg.TickInterval,
		"sweep_interval", r.cfg.SweepInterval,
	)
	return nil
}

// Stop retires every loop and shuts the sweep down.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	r.mu.Lock()
	for id, l := range r.loops {
		l.stop()
		delete(r.loops, id)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("broadcast registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ensure starts a poll loop for the market unless one is already active.
// Check-then-insert is atomic under the registry mutex, so concurrent
// subscriptions to the same market yield exactly one loop.
func (r *Registry) Ensure(market model.Market, room string) {
	if market.ID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, active := r.loops[market.ID]; active {
		return
	}
	if r.ctx == nil || r.ctx.Err() != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(r.ctx)
	l := &loop{
		market: market,
		room:   room,
		cancel: cancel,
	}
	r.loops[market.ID] = l

	r.wg.Add(1)
	go r.run(loopCtx, l)

	r.logger.Info("broadcast loop started", "market_id", market.ID, "room", room)
}

// ActiveMarkets returns the market IDs with a running loop.
func (r *Registry) ActiveMarkets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.loops))
	for id := range r.loops {
		ids = append(ids, id)
	}
	return ids
}

// run is one market's poll schedule. The tick body executes inline in
// this goroutine, so ticks for one market never overlap: a fetch slower
// than the interval delays the schedule and time.Ticker drops the
// missed ticks.
func (r *Registry) run(ctx context.Context, l *loop) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx, l)
		}
	}
}

// tick fetches one snapshot and emits it. Fetch failures never take the
// market off its schedule, and "no data" emits nothing: silence is the
// no-update signal.
func (r *Registry) tick(ctx context.Context, l *loop) {
	snapshot, err := r.source.Fetch(ctx, l.market)
	if err != nil {
		r.logger.Warn("odds fetch failed",
			"market_id", l.market.ID,
			"err", err,
		)
		return
	}
	if snapshot == nil {
		return
	}
	// A fetch that outlived its loop is discarded, not emitted.
	if ctx.Err() != nil {
		return
	}

	r.gateway.EmitToRoom(l.room, EventName(l.market.ID), snapshot)
}

// sweepLoop periodically retires loops with empty rooms.
func (r *Registry) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep stops and removes every loop whose room has no members.
func (r *Registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var retired int
	for id, l := range r.loops {
		if r.gateway.RoomMemberCount(l.room) == 0 {
			l.stop()
			delete(r.loops, id)
			retired++
		}
	}

	if retired > 0 {
		r.logger.Info("swept idle broadcast loops", "retired", retired, "active", len(r.loops))
	}
}
