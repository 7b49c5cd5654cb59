package config

import "time"

// ServiceConfig is the root configuration for a syncd instance.
type ServiceConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Database  DBConfig        `yaml:"database"`
	Sync      SyncConfig      `yaml:"sync"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Ops       OpsConfig       `yaml:"ops"`
}

// InstanceConfig identifies this service instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// UpstreamConfig holds exchange API settings.
type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DBConfig holds the Postgres connection for catalog and user data.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SyncConfig holds catalog sync pipeline settings.
type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// BroadcastConfig holds live-odds broadcast settings.
//
// SweepInterval bounds how long an empty room keeps polling: loops are
// retired by the sweep, not by the last unsubscribe.
type BroadcastConfig struct {
	TickInterval  time.Duration `yaml:"tick_interval"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// GatewayConfig holds WebSocket gateway settings.
type GatewayConfig struct {
	ListenAddr     string        `yaml:"listen_addr"`
	SendBufferSize int           `yaml:"send_buffer_size"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// OpsConfig holds the health/ops HTTP server settings.
type OpsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
