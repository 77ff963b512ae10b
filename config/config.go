// Package config loads runtime settings for the chaincode and the in-process ledger from
// environment variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment.
type Config struct {
	// ServerAddress switches the chaincode to external-service mode (chaincode as a service).
	ServerAddress string `env:"CHAINCODE_SERVER_ADDRESS"`
	ChaincodeID   string `env:"CHAINCODE_ID"`

	TLSDisabled     bool   `env:"CHAINCODE_TLS_DISABLED" envDefault:"true"`
	TLSCertFile     string `env:"CHAINCODE_TLS_CERT_FILE"`
	TLSKeyFile      string `env:"CHAINCODE_TLS_KEY_FILE"`
	TLSClientCAFile string `env:"CHAINCODE_TLS_CLIENT_CA_FILE"`

	LogSpec   string `env:"AGRITRACE_LOG_SPEC" envDefault:"info"`
	StatePath string `env:"AGRITRACE_STATE_PATH"`
}

// Load reads an optional .env file (missing files are ignored) and parses the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ExternalService reports whether the chaincode should run as its own gRPC server.
func (c Config) ExternalService() bool {
	return strings.TrimSpace(c.ServerAddress) != ""
}

// Validate checks combinations the peer would otherwise reject at connect time.
func (c Config) Validate() error {
	if c.ExternalService() && strings.TrimSpace(c.ChaincodeID) == "" {
		return errors.New("CHAINCODE_ID is required when CHAINCODE_SERVER_ADDRESS is set")
	}
	if c.ExternalService() && !c.TLSDisabled {
		if c.TLSCertFile == "" || c.TLSKeyFile == "" {
			return errors.New("CHAINCODE_TLS_CERT_FILE and CHAINCODE_TLS_KEY_FILE are required when TLS is enabled")
		}
	}
	return nil
}
