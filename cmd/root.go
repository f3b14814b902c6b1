// Package cmd provides the seedling command-line interface.
//
// Configuration is resolved from multiple sources with clear precedence:
//  1. Command-line flags (--port, --host, etc.)
//  2. SEEDLING_-prefixed environment variables (SEEDLING_SERVER_PORT, ...),
//     plus the plain PORT variable for the listen port
//  3. An optional .seedling.yml file in the current directory (or the file
//     named by --config / SEEDLING_CONFIG_FILE)
//  4. Built-in defaults
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "seedling",
	Short: "A starter-kit web server with live reload",
	Long: `Seedling is the web half of a starter kit meant to be copied into new
projects: a server-side-rendered page, an htmx fragment endpoint, static
asset serving, and a live-reload layer for development.

Quick Start:
  seedling serve                  Start the development server
  seedling config show            Show the resolved configuration
  seedling version                Show version information`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .seedling.yml, can also use SEEDLING_CONFIG_FILE env var)")
}

// bindFlag wires a flag into viper. Binding only fails on nil flags, which
// is a programming error.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", key, err))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SEEDLING_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".seedling")
	}

	viper.SetEnvPrefix("SEEDLING")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The original starter read its port from plain PORT; keep honoring it.
	_ = viper.BindEnv("server.port", "SEEDLING_SERVER_PORT", "PORT")

	// A missing config file is fine; defaults cover everything.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
