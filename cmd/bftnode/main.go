// Copyright 2025 Certen Protocol
//
// bftnode - a thin wiring entrypoint. It constructs one validator node from
// a YAML chain config and reports its genesis hash and starting state
// commitment. Driving that node with transactions/blocks/votes is the job
// of an external caller (a network simulator, a test harness, or another
// process) -- out of scope here per spec.md §1.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/certen/bftkv/pkg/config"
	"github.com/certen/bftkv/pkg/metrics"
	"github.com/certen/bftkv/pkg/node"
	"github.com/certen/bftkv/pkg/signing"
	"github.com/certen/bftkv/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "path to chain config YAML")
	dataDir := flag.String("data-dir", "", "directory for persistent storage (empty = in-memory)")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: bftnode -config chain.yaml [-data-dir ./data]")
		os.Exit(2)
	}

	if err := run(*configPath, *dataDir); err != nil {
		log.Fatalf("bftnode: %v", err)
	}
}

func run(configPath, dataDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	seed := config.DeriveSeed(cfg.Node.Seed, cfg.Node.Index)
	key := signing.GenerateKeyPair(seed)

	var backing store.Store
	if dataDir == "" {
		backing = store.NewMemStore()
	} else {
		db, err := dbm.NewGoLevelDB(cfg.Node.ID, dataDir)
		if err != nil {
			return fmt.Errorf("opening data dir: %w", err)
		}
		backing = store.NewKVStore(db)
	}

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer, cfg.Node.ID)

	n, err := node.New(node.Config{
		NodeID:       cfg.Node.ID,
		Key:          key,
		ChainID:      cfg.ChainID,
		ValidatorSet: cfg.Validators,
		Store:        backing,
		Metrics:      recorder,
	})
	if err != nil {
		return fmt.Errorf("constructing node: %w", err)
	}

	stateHash, err := n.StateCommitment()
	if err != nil {
		return fmt.Errorf("computing state commitment: %w", err)
	}

	log.Printf("node %s up: pubkey=%s chain=%s genesis=%s state=%s",
		n.NodeID(), n.PubKeyHex(), n.ChainID(), n.GenesisHash(), stateHash)
	return nil
}
