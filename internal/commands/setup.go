package commands

import (
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/audit"
	"github.com/teller-dev/teller/internal/config"
	"github.com/teller-dev/teller/internal/ledger"
	"github.com/teller-dev/teller/internal/market"
	"github.com/teller-dev/teller/internal/model"
	"github.com/teller-dev/teller/internal/store"
)

// bank bundles the wired-up core for the command layer.
type bank struct {
	cfg    *config.Config
	store  *store.Store
	feed   *market.Feed
	engine *ledger.Engine
}

// openBank loads config from dir, loads the account snapshot, and wires the
// market feed and ledger engine.
func openBank(dir string) (*bank, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	st := store.New(
		filepath.Join(dir, cfg.Storage.DataFile),
		cfg.Bank.Capacity,
		decimal.NewFromFloat(cfg.Bank.StartingBalance),
	)
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	feed, err := market.New(
		map[model.AssetKind]decimal.Decimal{
			model.AssetCrypto: decimal.NewFromFloat(cfg.Market.Crypto),
			model.AssetGold:   decimal.NewFromFloat(cfg.Market.Gold),
			model.AssetSilver: decimal.NewFromFloat(cfg.Market.Silver),
		},
		map[model.CurrencyKind]decimal.Decimal{
			model.CurrencyEUR: decimal.NewFromFloat(cfg.Rates.EUR),
			model.CurrencyGBP: decimal.NewFromFloat(cfg.Rates.GBP),
			model.CurrencyINR: decimal.NewFromFloat(cfg.Rates.INR),
		},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid market config: %w", err)
	}

	log := audit.NewLog(filepath.Join(dir, cfg.Storage.AuditFile))
	engine := ledger.NewEngine(st, feed, log, ledger.Params{
		PurchaseAmount: decimal.NewFromFloat(cfg.Bank.PurchaseAmount),
		LoanAmount:     decimal.NewFromFloat(cfg.Bank.LoanAmount),
		InterestRate:   decimal.NewFromFloat(cfg.Bank.InterestRate),
	})

	return &bank{cfg: cfg, store: st, feed: feed, engine: engine}, nil
}
