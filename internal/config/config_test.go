package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: syncd-test
upstream:
  base_url: http://exchange.test/api.php
database:
  host: localhost
  port: 5432
  name: backoffice
  user: testuser
  password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "syncd-test" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "syncd-test")
	}
	if cfg.Upstream.BaseURL != "http://exchange.test/api.php" {
		t.Errorf("Upstream.BaseURL = %q, want %q", cfg.Upstream.BaseURL, "http://exchange.test/api.php")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: syncd-test
database:
  host: localhost
  name: backoffice
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: syncd-test
database:
  host: localhost
  name: backoffice
  user: testuser
  password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Upstream.BaseURL != DefaultBaseURL {
		t.Errorf("Upstream.BaseURL = %q, want default %q", cfg.Upstream.BaseURL, DefaultBaseURL)
	}
	if cfg.Upstream.Timeout != DefaultUpstreamTimeout {
		t.Errorf("Upstream.Timeout = %v, want default %v", cfg.Upstream.Timeout, DefaultUpstreamTimeout)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Database.MaxConns != DefaultMaxConns {
		t.Errorf("Database.MaxConns = %d, want default %d", cfg.Database.MaxConns, DefaultMaxConns)
	}
	if cfg.Sync.Interval != DefaultSyncInterval {
		t.Errorf("Sync.Interval = %v, want default %v", cfg.Sync.Interval, DefaultSyncInterval)
	}
	if cfg.Broadcast.TickInterval != DefaultTickInterval {
		t.Errorf("Broadcast.TickInterval = %v, want default %v", cfg.Broadcast.TickInterval, DefaultTickInterval)
	}
	if cfg.Broadcast.SweepInterval != DefaultSweepInterval {
		t.Errorf("Broadcast.SweepInterval = %v, want default %v", cfg.Broadcast.SweepInterval, DefaultSweepInterval)
	}
	if cfg.Ops.Port != DefaultOpsPort {
		t.Errorf("Ops.Port = %d, want default %d", cfg.Ops.Port, DefaultOpsPort)
	}
}

func TestValidate(t *testing.T) {
	valid := func() ServiceConfig {
		cfg := ServiceConfig{
			Instance: InstanceConfig{ID: "test"},
			Database: DBConfig{
				Host:     "localhost",
				Name:     "backoffice",
				User:     "u",
				Password: "p",
			},
		}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*ServiceConfig)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *ServiceConfig) {},
			wantErr: "",
		},
		{
			name:    "missing instance id",
			mutate:  func(c *ServiceConfig) { c.Instance.ID = "" },
			wantErr: "instance.id is required",
		},
		{
			name:    "missing database host",
			mutate:  func(c *ServiceConfig) { c.Database.Host = "" },
			wantErr: "database.host is required",
		},
		{
			name:    "missing database password",
			mutate:  func(c *ServiceConfig) { c.Database.Password = "" },
			wantErr: "database.password is required",
		},
		{
			name:    "min conns exceed max conns",
			mutate:  func(c *ServiceConfig) { c.Database.MinConns = 20 },
			wantErr: "cannot exceed max_conns",
		},
		{
			name:    "zero sync interval",
			mutate:  func(c *ServiceConfig) { c.Sync.Interval = -1 },
			wantErr: "sync.interval must be positive",
		},
		{
			name:    "zero sweep interval",
			mutate:  func(c *ServiceConfig) { c.Broadcast.SweepInterval = -1 },
			wantErr: "broadcast.sweep_interval must be positive",
		},
		{
			name:    "invalid ops port",
			mutate:  func(c *ServiceConfig) { c.Ops.Port = 70000 },
			wantErr: "ops.port must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() = nil, want error for missing file")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
