package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"zklend/native/lending"
)

// Config is the top-level node configuration loaded from TOML.
type Config struct {
	// ListenAddress is the HTTP gateway bind address.
	ListenAddress string `toml:"ListenAddress"`
	// DataDir is the LevelDB directory.
	DataDir string `toml:"DataDir"`
	// PoolID names the lending market this node serves.
	PoolID string `toml:"PoolID"`
	// Lending overrides the genesis protocol parameters.
	Lending lending.Params `toml:"lending"`
	// Genesis seeds ledger records on first start.
	Genesis Genesis `toml:"genesis"`
}

// Genesis describes the records seeded when the node starts against an empty
// store. A non-empty store ignores this section entirely.
type Genesis struct {
	// InitialLiquidity funds the lending pool escrow and the protocol
	// liquidity counter.
	InitialLiquidity uint64 `toml:"InitialLiquidity"`
	// InstitutionalWhitelist lists bech32 addresses eligible for the
	// institutional borrow path and governance voting.
	InstitutionalWhitelist []string `toml:"InstitutionalWhitelist"`
	// Delegations seeds delegated credit lines.
	Delegations []GenesisDelegation `toml:"Delegations"`
}

// GenesisDelegation is one seeded credit line.
type GenesisDelegation struct {
	Delegator string `toml:"Delegator"`
	Delegate  string `toml:"Delegate"`
	MaxAmount uint64 `toml:"MaxAmount"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		ListenAddress: ":8680",
		DataDir:       "./zklend-data",
		PoolID:        "main",
		Lending:       lending.DefaultParams(),
	}
}

// Load reads a TOML configuration file, filling omitted fields with defaults.
// A missing file returns the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Lending.EnsureDefaults()
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = Default().ListenAddress
	}
	if cfg.DataDir == "" {
		cfg.DataDir = Default().DataDir
	}
	if cfg.PoolID == "" {
		cfg.PoolID = Default().PoolID
	}
	return cfg, nil
}
