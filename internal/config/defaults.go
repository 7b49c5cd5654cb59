package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL         = "http://3.6.84.17/exchange/api.php"
	DefaultUpstreamTimeout = 30 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultSyncInterval    = 15 * time.Minute
	DefaultTickInterval    = 2 * time.Second
	DefaultSweepInterval   = 30 * time.Second
	DefaultGatewayAddr     = ":8081"
	DefaultSendBufferSize  = 64
	DefaultWriteTimeout    = 10 * time.Second
	DefaultPingInterval    = 15 * time.Second
	DefaultReadTimeout     = 60 * time.Second
	DefaultOpsPort         = 8080
	DefaultOpsPath         = "/health"
)

func (c *ServiceConfig) applyDefaults() {
	// Upstream defaults
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultBaseURL
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Sync defaults
	if c.Sync.Interval == 0 {
		c.Sync.Interval = DefaultSyncInterval
	}

	// Broadcast defaults
	if c.Broadcast.TickInterval == 0 {
		c.Broadcast.TickInterval = DefaultTickInterval
	}
	if c.Broadcast.SweepInterval == 0 {
		c.Broadcast.SweepInterval = DefaultSweepInterval
	}

	// Gateway defaults
	if c.Gateway.ListenAddr == "" {
		c.Gateway.ListenAddr = DefaultGatewayAddr
	}
	if c.Gateway.SendBufferSize == 0 {
		c.Gateway.SendBufferSize = DefaultSendBufferSize
	}
	if c.Gateway.WriteTimeout == 0 {
		c.Gateway.WriteTimeout = DefaultWriteTimeout
	}
	if c.Gateway.PingInterval == 0 {
		c.Gateway.PingInterval = DefaultPingInterval
	}
	if c.Gateway.ReadTimeout == 0 {
		c.Gateway.ReadTimeout = DefaultReadTimeout
	}

	// Ops defaults
	if c.Ops.Port == 0 {
		c.Ops.Port = DefaultOpsPort
	}
	if c.Ops.Path == "" {
		c.Ops.Path = DefaultOpsPath
	}
}
