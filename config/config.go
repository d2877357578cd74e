// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidMaxProposalAssets = errors.New("invalid max proposal assets")
	ErrInvalidCacheSize         = errors.New("invalid cache size")
)

// Config holds configuration for the governance VM.
type Config struct {
	// Largest asset bundle a normal proposal may carry. Bundled asset
	// positions are single bytes, so this cannot exceed 255.
	MaxProposalAssets int `json:"maxProposalAssets"`

	// Number of decoded entities kept in memory
	StateCacheSize int `json:"stateCacheSize"`

	// Serve read-only queries over JSON-RPC
	QueryAPIEnabled bool `json:"queryApiEnabled"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() Config {
	return Config{
		MaxProposalAssets: 10,
		StateCacheSize:    4096,
		QueryAPIEnabled:   true,
	}
}

// ParseConfig overlays the JSON in b on the defaults. Empty input yields the
// defaults.
func ParseConfig(b []byte) (Config, error) {
	c := DefaultConfig()
	if len(b) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return c, c.Validate()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.MaxProposalAssets <= 0 || c.MaxProposalAssets > math.MaxUint8 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxProposalAssets, c.MaxProposalAssets)
	}
	if c.StateCacheSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.StateCacheSize)
	}
	return nil
}
