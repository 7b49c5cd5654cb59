package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/oddsdesk/exchange-data/internal/broadcast"
	"github.com/oddsdesk/exchange-data/internal/catalog"
	"github.com/oddsdesk/exchange-data/internal/model"
)

// Broadcasts starts a poll loop for a market if one is not running.
type Broadcasts interface {
	Ensure(market model.Market, room string)
}

// clientMessage is the frame clients send to manage room membership.
type clientMessage struct {
	Action   string `json:"action"`
	MarketID string `json:"market_id"`
}

// Server handles WebSocket upgrades on the market data endpoint.
type Server struct {
	cfg        Config
	hub        *Hub
	directory  catalog.MarketDirectory
	broadcasts Broadcasts
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewServer creates a gateway server around an existing hub.
func NewServer(cfg Config, hub *Hub, directory catalog.MarketDirectory, broadcasts Broadcasts, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WriteTimeout <= 0 || cfg.PingInterval <= 0 || cfg.ReadTimeout <= 0 {
		def := DefaultConfig()
		if cfg.WriteTimeout <= 0 {
			cfg.WriteTimeout = def.WriteTimeout
		}
		if cfg.PingInterval <= 0 {
			cfg.PingInterval = def.PingInterval
		}
		if cfg.ReadTimeout <= 0 {
			cfg.ReadTimeout = def.ReadTimeout
		}
	}
	return &Server{
		cfg:        cfg,
		hub:        hub,
		directory:  directory,
		broadcasts: broadcasts,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxFrameSize,
			WriteBufferSize: maxFrameSize,
			// Browser clients connect from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs the connection to completion.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := newClient(uuid.NewString(), conn, s.cfg.SendQueueSize)
	s.hub.Register(c)
	s.logger.Debug("client connected", "client_id", c.ID(), "remote", r.RemoteAddr)

	go c.writePump(s.cfg)
	s.readPump(r.Context(), c)

	s.hub.Unregister(c)
	c.close()
	s.logger.Debug("client disconnected", "client_id", c.ID())
}

// readPump consumes frames from the client until the connection drops.
func (s *Server) readPump(ctx context.Context, c *Client) {
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug("ignoring malformed frame", "client_id", c.ID(), "err", err)
			continue
		}
		s.handleMessage(ctx, c, msg)
	}
}

func (s *Server) handleMessage(ctx context.Context, c *Client, msg clientMessage) {
	switch msg.Action {
	case "join":
		s.handleJoin(ctx, c, msg.MarketID)
	case "leave":
		if msg.MarketID != "" {
			s.hub.Leave(c, broadcast.RoomName(msg.MarketID))
		}
	default:
		s.logger.Debug("ignoring unknown action", "client_id", c.ID(), "action", msg.Action)
	}
}

// handleJoin resolves the market, adds the client to its room, and
// makes sure a poll loop is running for it. Joining before the loop is
// ensured would let a sweep race the subscription, so membership comes
// first.
func (s *Server) handleJoin(ctx context.Context, c *Client, marketID string) {
	if marketID == "" {
		return
	}

	market, found, err := s.directory.GetMarket(ctx, marketID)
	if err != nil {
		s.logger.Error("market lookup failed", "market_id", marketID, "err", err)
		return
	}
	if !found {
		s.logger.Debug("join for unknown market", "client_id", c.ID(), "market_id", marketID)
		return
	}

	room := broadcast.RoomName(market.ID)
	s.hub.Join(c, room)
	s.broadcasts.Ensure(market, room)

	s.logger.Debug("client joined room", "client_id", c.ID(), "room", room)
}
