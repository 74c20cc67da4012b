package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
ListenAddress = ":9000"
PoolID = "inst-1"

[lending]
BaseInterestRate = 7

[genesis]
InitialLiquidity = 1000000
InstitutionalWhitelist = ["zkl1qyqszqgpqyqszqgpqyqszqgpqyqszqgpjf2sykq"]

[[genesis.Delegations]]
Delegator = "zkl1qyqszqgpqyqszqgpqyqszqgpqyqszqgpjf2sykq"
Delegate = "zkl1qgpsgpgxquyqjzstpsxsurcszyfpx9q4zrqwpr"
MaxAmount = 500
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.ListenAddress)
	require.Equal(t, "inst-1", cfg.PoolID)
	require.Equal(t, uint64(7), cfg.Lending.BaseInterestRate)
	// Omitted parameter backfills the default lock time.
	require.Equal(t, int64(600), cfg.Lending.MinCollateralLockTime)
	// Omitted DataDir backfills too.
	require.Equal(t, Default().DataDir, cfg.DataDir)
	require.Equal(t, uint64(1_000_000), cfg.Genesis.InitialLiquidity)
	require.Len(t, cfg.Genesis.InstitutionalWhitelist, 1)
	require.Len(t, cfg.Genesis.Delegations, 1)
	require.Equal(t, uint64(500), cfg.Genesis.Delegations[0].MaxAmount)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("ListenAddress = [["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
