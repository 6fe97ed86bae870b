package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Bank.StartingBalance = 2500.0
	cfg.Storage.DataFile = "bank.dat"

	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestLoad_DataFileOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, Default()))

	t.Setenv(EnvDataFile, "override.dat")
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "override.dat", cfg.Storage.DataFile)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.Bank.Capacity)
	assert.Equal(t, 1000.0, cfg.Bank.StartingBalance)
	assert.Equal(t, 500.0, cfg.Bank.LoanAmount)
	assert.Equal(t, 100.0, cfg.Bank.PurchaseAmount)
	assert.Equal(t, 0.05, cfg.Bank.InterestRate)
	assert.Equal(t, "accounts.dat", cfg.Storage.DataFile)
}

func TestDir_EnvOverride(t *testing.T) {
	t.Setenv(EnvDir, "/tmp/teller-test")
	assert.Equal(t, "/tmp/teller-test", Dir())
}
