// Copyright 2025 Certen Protocol

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ParsesChainConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.yaml")
	contents := []byte(`
chain_id: test-chain
validators:
  - validatorA
  - validatorB
node:
  id: validatorA
  seed: shared-seed
  index: 0
`)
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChainID != "test-chain" {
		t.Fatalf("ChainID = %q, want test-chain", cfg.ChainID)
	}
	if len(cfg.Validators) != 2 || cfg.Validators[0] != "validatorA" {
		t.Fatalf("Validators = %v", cfg.Validators)
	}
	if cfg.Node.ID != "validatorA" || cfg.Node.Seed != "shared-seed" || cfg.Node.Index != 0 {
		t.Fatalf("Node = %+v", cfg.Node)
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/chain.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestDeriveSeed_DeterministicAndDistinct(t *testing.T) {
	a := DeriveSeed("shared", 0)
	b := DeriveSeed("shared", 0)
	if a != b {
		t.Fatal("DeriveSeed must be deterministic for the same inputs")
	}

	c := DeriveSeed("shared", 1)
	if a == c {
		t.Fatal("DeriveSeed must differ across indices")
	}
}
