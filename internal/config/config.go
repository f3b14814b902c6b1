// Package config provides configuration management for seedling using Viper,
// loading values from command-line flags, environment variables, and an
// optional config file.
//
// Every setting has a built-in default so a freshly copied project runs with
// no configuration at all. The listen port honors the plain PORT environment
// variable in addition to SEEDLING_SERVER_PORT.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultPort is the port the server binds to when nothing else is set.
const DefaultPort = 4000

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Templates   TemplatesConfig   `yaml:"templates"`
	Static      StaticConfig      `yaml:"static"`
	Development DevelopmentConfig `yaml:"development"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type TemplatesConfig struct {
	// Dir is the directory named templates are loaded from.
	Dir string `yaml:"dir"`
	// Home is the identifier of the template rendered for page requests.
	Home string `yaml:"home"`
}

type StaticConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

type DevelopmentConfig struct {
	LiveReload bool `yaml:"live_reload"`
}

// Load resolves the configuration from viper and applies defaults for
// anything left unset. Port values are not validated here; a bad port fails
// at bind time.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Templates.Dir == "" {
		cfg.Templates.Dir = "templates"
	}
	if cfg.Templates.Home == "" {
		cfg.Templates.Home = "home.html"
	}
	if cfg.Static.Dir == "" {
		cfg.Static.Dir = "static"
	}
	if cfg.Static.Prefix == "" {
		cfg.Static.Prefix = "/static/"
	}

	// Live reload defaults to on; viper zero-values booleans, so only trust
	// the unmarshaled value when the key was actually set somewhere.
	if viper.IsSet("development.live_reload") {
		cfg.Development.LiveReload = viper.GetBool("development.live_reload")
	} else {
		cfg.Development.LiveReload = true
	}

	return &cfg, nil
}

// Addr returns the host:port pair the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
