package cmd

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/capgains"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings of cgt.
type Config struct {
	Currency           string        `toml:"currency"`
	ExemptionThreshold float64       `toml:"exemption_threshold"`
	TaxRate            float64       `toml:"tax_rate"`
	Workers            int           `toml:"workers"` // concurrent batches, one per CPU when zero
	Server             ServerConfig  `toml:"server"`
	Logging            LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Currency:           capgains.DefaultCurrency,
		ExemptionThreshold: capgains.DefaultExemptionThreshold,
		TaxRate:            capgains.DefaultTaxRate,
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfig reads the TOML file at path over the defaults, then applies the
// environment, including a .env file in the working directory.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	// .env is optional and never overrides the actual environment.
	_ = godotenv.Load()

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) error {
	var errs []error

	if v := os.Getenv("CAPGAINS_CURRENCY"); v != "" {
		config.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv("CAPGAINS_EXEMPTION_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("CAPGAINS_EXEMPTION_THRESHOLD: %w", err))
		}
		config.ExemptionThreshold = f
	}
	if v := os.Getenv("CAPGAINS_TAX_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("CAPGAINS_TAX_RATE: %w", err))
		}
		config.TaxRate = f
	}
	if v := os.Getenv("CAPGAINS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("CAPGAINS_WORKERS: %w", err))
		}
		config.Workers = n
	}
	if v := os.Getenv("CAPGAINS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("CAPGAINS_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("CAPGAINS_SERVER_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("CAPGAINS_SERVER_PORT: %w", err))
		}
		config.Server.Port = p
	}
	return errors.Join(errs...)
}

// Rules returns the validated tax rules of the configuration.
func (c *Config) Rules() (capgains.Rules, error) {
	rules, err := capgains.NewRules(capgains.M(c.ExemptionThreshold, strings.ToUpper(c.Currency)), capgains.R(c.TaxRate))
	if err != nil {
		return capgains.Rules{}, fmt.Errorf("invalid tax rules: %w", err)
	}
	return rules, nil
}

// Addr returns the address the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
