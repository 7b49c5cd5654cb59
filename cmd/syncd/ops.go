package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oddsdesk/exchange-data/internal/broadcast"
	"github.com/oddsdesk/exchange-data/internal/gateway"
	"github.com/oddsdesk/exchange-data/internal/syncer"
	"github.com/oddsdesk/exchange-data/internal/users"
)

// createOpsHandler builds the health/debug/trigger HTTP surface.
func createOpsHandler(pool *pgxpool.Pool, registry *broadcast.Registry, hub *gateway.Hub, pipeline *syncer.Pipeline, betLocks *users.Resolver, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check database
		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		health.Components["broadcasts"] = map[string]any{
			"active_markets": len(registry.ActiveMarkets()),
			"clients":        hub.ClientCount(),
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/broadcasts", func(w http.ResponseWriter, r *http.Request) {
		markets := registry.ActiveMarkets()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":   len(markets),
			"markets": markets,
			"clients": hub.ClientCount(),
		})
	})

	// On-demand catalog sync. The pipeline serializes runs internally,
	// so a trigger racing the scheduled cycle just waits its turn.
	mux.HandleFunc("/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		logger.Info("manual sync triggered", "remote", r.RemoteAddr)

		if err := pipeline.Run(r.Context()); err != nil {
			logger.Error("manual sync failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	// Effective bet-lock for one user, parent chain included.
	mux.HandleFunc("/debug/betlock", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}

		state, err := betLocks.EffectiveBetLock(r.Context(), userID)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"userId":   userID,
				"locked":   state.Locked,
				"lockedBy": state.LockedBy,
			},
		})
	})

	return mux
}
