// Package config reads teller.yaml plus environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File is the config file name inside the teller directory.
const File = "teller.yaml"

// Environment overrides. TELLER_DIR relocates the whole data directory;
// TELLER_DATA_FILE renames the snapshot file within it.
const (
	EnvDir      = "TELLER_DIR"
	EnvDataFile = "TELLER_DATA_FILE"
)

// Config represents the top-level teller.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Bank    BankConfig    `yaml:"bank"`
	Market  MarketConfig  `yaml:"market"`
	Rates   RatesConfig   `yaml:"rates"`
}

// StorageConfig names the snapshot and audit files.
type StorageConfig struct {
	DataFile  string `yaml:"data_file"`
	AuditFile string `yaml:"audit_file"`
}

// BankConfig holds the fixed amounts the ledger operates with.
type BankConfig struct {
	Capacity        int     `yaml:"capacity"`
	StartingBalance float64 `yaml:"starting_balance"`
	LoanAmount      float64 `yaml:"loan_amount"`
	PurchaseAmount  float64 `yaml:"purchase_amount"`
	InterestRate    float64 `yaml:"interest_rate"`
}

// MarketConfig holds initial per-unit asset prices in USD.
type MarketConfig struct {
	Crypto float64 `yaml:"crypto"`
	Gold   float64 `yaml:"gold"`
	Silver float64 `yaml:"silver"`
}

// RatesConfig holds USD values per unit of each foreign currency.
type RatesConfig struct {
	EUR float64 `yaml:"eur"`
	GBP float64 `yaml:"gbp"`
	INR float64 `yaml:"inr"`
}

// Dir resolves the teller data directory: TELLER_DIR if set (a .env file in
// the working directory is honored), else the current directory.
func Dir() string {
	_ = godotenv.Load()
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	return "."
}

// Load reads teller.yaml from dir and applies environment overrides.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, File))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if f := os.Getenv(EnvDataFile); f != "" {
		cfg.Storage.DataFile = f
	}
	return &cfg, nil
}

// Save writes a Config to teller.yaml in dir.
func Save(dir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, File), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the stock configuration: $1000 starting balance, $500
// loans, $100 asset purchases, 5% interest, 100-account capacity.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DataFile:  "accounts.dat",
			AuditFile: "audit.csv",
		},
		Bank: BankConfig{
			Capacity:        100,
			StartingBalance: 1000.0,
			LoanAmount:      500.0,
			PurchaseAmount:  100.0,
			InterestRate:    0.05,
		},
		Market: MarketConfig{
			Crypto: 150.0,
			Gold:   60.0,
			Silver: 25.0,
		},
		Rates: RatesConfig{
			EUR: 1.10,
			GBP: 1.27,
			INR: 0.012,
		},
	}
}
