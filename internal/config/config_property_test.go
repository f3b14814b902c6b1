package config

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/viper"
)

// TestConfigResolutionProperties checks resolution invariants across the
// whole range of reasonable inputs rather than hand-picked cases.
func TestConfigResolutionProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: an explicitly configured port is never overridden by the
	// default.
	properties.Property("explicit port wins over default", prop.ForAll(
		func(port int) bool {
			viper.Reset()
			viper.Set("server.port", port)

			cfg, err := Load()
			if err != nil {
				return false
			}
			return cfg.Server.Port == port
		},
		gen.IntRange(1, 65535),
	))

	// Property: hosts round-trip through resolution untouched.
	properties.Property("host round-trips", prop.ForAll(
		func(host string) bool {
			if host == "" || strings.ContainsAny(host, " \t\n\r") {
				return true // resolution only rewrites empty hosts
			}
			viper.Reset()
			viper.Set("server.host", host)

			cfg, err := Load()
			if err != nil {
				return false
			}
			return cfg.Server.Host == host
		},
		gen.RegexMatch(`^[a-zA-Z0-9.-]+$`),
	))

	properties.TestingRun(t)
}
