// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/caarlos0/env/v11"

	"github.com/ava-labs/crowdfund/actions"
	"github.com/ava-labs/crowdfund/amount"
	"github.com/ava-labs/crowdfund/auth"
	"github.com/ava-labs/crowdfund/codec"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/pebble"
	"github.com/ava-labs/crowdfund/trace"
	"github.com/ava-labs/crowdfund/version"
)

var _ actions.Rules = (*Config)(nil)

var (
	ErrInvalidDenom           = errors.New("invalid denom")
	ErrInvalidMinimumDonation = errors.New("minimum donation must be positive")
	ErrInvalidContractName    = errors.New("contract name must be set")
	ErrInvalidSampleRate      = errors.New("trace sample rate must be in [0, 1]")
	ErrInvalidDBType          = errors.New("invalid db type")
)

const (
	PebbleDB  = "pebble"
	LevelDB   = "leveldb"
	envPrefix = "CROWDFUND_"
)

const (
	defaultMinimumDonation = 1_000
	defaultHTTPAddress     = "127.0.0.1:9650"
	defaultShutdownTimeout = 10 * time.Second
	defaultTraceSampleRate = 1
)

type Config struct {
	// Logging
	LogLevel logging.Level `json:"logLevel"`
	LogDir   string        `json:"logDir"   env:"LOG_DIR"`

	// Campaign rules
	Denom               string        `json:"denom"               env:"DENOM"`
	MinimumDonation     amount.Amount `json:"minimumDonation"     env:"MINIMUM_DONATION"`
	ContractName        string        `json:"contractName"        env:"CONTRACT_NAME"`
	AllowDuplicateNames bool          `json:"allowDuplicateNames" env:"ALLOW_DUPLICATE_NAMES"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"    env:"TRACE_ENABLED"`
	TraceSampleRate float64 `json:"traceSampleRate" env:"TRACE_SAMPLE_RATE"`
	TraceEndpoint   string  `json:"traceEndpoint"   env:"TRACE_ENDPOINT"`

	// API
	HTTPAddress     string        `json:"httpAddress"     env:"HTTP_ADDRESS"`
	AllowedOrigins  []string      `json:"allowedOrigins"  env:"ALLOWED_ORIGINS"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`

	// Storage
	DBType   string        `json:"dbType"   env:"DB_TYPE"`
	DBConfig pebble.Config `json:"dbConfig"`

	contractAddress codec.Address
}

// New parses [b] on top of the defaults and then applies any CROWDFUND_*
// environment variables. An empty [b] yields the defaults.
func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := env.ParseWithOptions(c, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.contractAddress = auth.NewContractAddress(c.ContractName)
	return c, nil
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.Denom = consts.Denom
	c.MinimumDonation = amount.New(defaultMinimumDonation)
	c.ContractName = consts.ContractName
	c.TraceSampleRate = defaultTraceSampleRate
	c.HTTPAddress = defaultHTTPAddress
	c.AllowedOrigins = []string{"*"}
	c.ShutdownTimeout = defaultShutdownTimeout
	c.DBType = PebbleDB
	c.DBConfig = pebble.NewDefaultConfig()
}

func (c *Config) Validate() error {
	if len(c.Denom) == 0 || len(c.Denom) > actions.MaxDenomSize {
		return fmt.Errorf("%w: %q", ErrInvalidDenom, c.Denom)
	}
	if c.MinimumDonation.IsZero() {
		return ErrInvalidMinimumDonation
	}
	if len(c.ContractName) == 0 {
		return ErrInvalidContractName
	}
	if c.DBType != PebbleDB && c.DBType != LevelDB {
		return fmt.Errorf("%w: %q", ErrInvalidDBType, c.DBType)
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, c.TraceSampleRate)
	}
	return nil
}

func (c *Config) GetContractAddress() codec.Address { return c.contractAddress }
func (c *Config) GetDenom() string                  { return c.Denom }
func (c *Config) GetMinimumDonation() amount.Amount { return c.MinimumDonation }
func (c *Config) GetAllowDuplicateNames() bool      { return c.AllowDuplicateNames }
func (c *Config) GetLogLevel() logging.Level        { return c.LogLevel }
func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		Endpoint:        c.TraceEndpoint,
		AppName:         consts.Name,
		Agent:           consts.Name,
		Version:         version.Version.String(),
	}
}
