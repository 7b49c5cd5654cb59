package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServiceConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	if _, err := url.Parse(c.Upstream.BaseURL); err != nil {
		return fmt.Errorf("upstream.base_url is not a valid URL: %w", err)
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Sync.Interval <= 0 {
		return errors.New("sync.interval must be positive")
	}

	if c.Broadcast.TickInterval <= 0 {
		return errors.New("broadcast.tick_interval must be positive")
	}
	if c.Broadcast.SweepInterval <= 0 {
		return errors.New("broadcast.sweep_interval must be positive")
	}

	if c.Gateway.SendBufferSize < 1 {
		return errors.New("gateway.send_buffer_size must be >= 1")
	}

	if c.Ops.Port < 1 || c.Ops.Port > 65535 {
		return fmt.Errorf("ops.port must be between 1 and 65535, got %d", c.Ops.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
