// Copyright 2025 Certen Protocol
//
// Chain configuration loader - validator set and chain id, from YAML.

package config

import (
	"crypto/sha256"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeConfig identifies one validator within ChainConfig. Index is this
// validator's position in the shared seed derivation scheme (DeriveSeed),
// not necessarily its position in Validators -- the operator assigns it
// once, out of band, when generating every validator's keys from one
// shared seed.
type NodeConfig struct {
	ID    string `yaml:"id"`
	Seed  string `yaml:"seed"`
	Index int    `yaml:"index"`
}

// ChainConfig is the YAML document shape consumed by cmd/bftnode.
type ChainConfig struct {
	ChainID    string     `yaml:"chain_id"`
	Validators []string   `yaml:"validators"`
	Node       NodeConfig `yaml:"node"`
}

// Load reads and parses a ChainConfig from path.
func Load(path string) (*ChainConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chain config: %w", err)
	}
	var cfg ChainConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing chain config: %w", err)
	}
	return &cfg, nil
}

// DeriveSeed computes SHA-256(seed || ":" || i), the per-node seed derivation
// scheme spec.md §8 scenario S6 uses to produce identical keys across runs
// from one shared seed.
func DeriveSeed(seed string, i int) [32]byte {
	return sha256.Sum256([]byte(fmt.Sprintf("%s:%d", seed, i)))
}
