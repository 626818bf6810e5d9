package server

import (
	"fmt"
	"time"
)

// Config holds server configuration
type Config struct {
	// Network settings
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	MaxClients int    `json:"max_clients" yaml:"max_clients"`

	// Bus topic the runner publishes frames on
	Topic string `json:"topic" yaml:"topic"`

	// Message settings
	MaxMessageSize int64         `json:"max_message_size" yaml:"max_message_size"`
	SendBuffer     int           `json:"send_buffer" yaml:"send_buffer"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// Health monitoring
	PingInterval  time.Duration `json:"ping_interval" yaml:"ping_interval"`
	ClientTimeout time.Duration `json:"client_timeout" yaml:"client_timeout"`

	// Clients must pass ?token=<Token> when set
	Token string `json:"token" yaml:"token"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:     "127.0.0.1:8080",
		MaxClients:     64,
		Topic:          "world",
		MaxMessageSize: 4 * 1024,
		SendBuffer:     8,
		WriteTimeout:   5 * time.Second,
		PingInterval:   20 * time.Second,
		ClientTimeout:  60 * time.Second,
	}
}

func (c Config) Validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("%w: listen_addr is empty", ErrInvalidConfig)
	case c.MaxClients <= 0:
		return fmt.Errorf("%w: max_clients must be positive", ErrInvalidConfig)
	case c.MaxMessageSize <= 0:
		return fmt.Errorf("%w: max_message_size must be positive", ErrInvalidConfig)
	case c.SendBuffer <= 0:
		return fmt.Errorf("%w: send_buffer must be positive", ErrInvalidConfig)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("%w: write_timeout must be positive", ErrInvalidConfig)
	case c.PingInterval <= 0 || c.ClientTimeout <= c.PingInterval:
		return fmt.Errorf("%w: client_timeout must exceed a positive ping_interval", ErrInvalidConfig)
	}
	return nil
}
