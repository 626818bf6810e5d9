package injector

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/server"
	"github.com/zeusync/rigid2d/internal/sim"
)

// Config is the top-level application configuration.
type Config struct {
	Log    LogConfig     `yaml:"log"`
	Sim    sim.Config    `yaml:"sim"`
	Server server.Config `yaml:"server"`
	// Scene is a YAML or JSON scene file. Empty selects the built-in scene.
	Scene string `yaml:"scene"`
}

type LogConfig struct {
	Level   log.Level `yaml:"level"`
	Console bool      `yaml:"console"`
}

func DefaultConfig() Config {
	return Config{
		Log:    LogConfig{Level: log.LevelInfo},
		Sim:    sim.DefaultConfig(),
		Server: server.DefaultServerConfig(),
	}
}

// LoadConfig overlays the YAML file at path onto DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Normalize points the server at the topic the runner publishes on.
func (c *Config) Normalize() {
	c.Server.Topic = c.Sim.Topic
}

func (c Config) Validate() error {
	return errors.Join(c.Sim.Validate(), c.Server.Validate())
}
