// Package gateway is the realtime edge: it upgrades HTTP requests to
// WebSocket connections, groups clients into per-market rooms, and fans
// event payloads out to room members.
//
// Rooms are plain string labels. A client joins a market's room by
// sending a join message naming the market id; the gateway resolves the
// market through the catalog directory and notifies the broadcast
// registry so a poll loop exists for it. Room membership counts feed
// the registry's idle sweep.
//
// Slow clients never stall a broadcast: each client has a bounded send
// queue and is disconnected when the queue overflows.
package gateway
