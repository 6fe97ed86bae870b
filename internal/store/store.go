// Package store owns the account registry and its on-disk snapshot. It is
// the only writer of the snapshot file; every mutation in the system ends
// with a synchronous Persist here.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/model"
)

// Store holds registered accounts in creation order, up to a fixed capacity.
type Store struct {
	path     string
	capacity int
	starting decimal.Decimal
	accounts []*model.Account
}

// New creates a Store persisting to path. Capacity bounds the registry;
// startingBalance seeds every new account.
func New(path string, capacity int, startingBalance decimal.Decimal) *Store {
	return &Store{path: path, capacity: capacity, starting: startingBalance}
}

// Load reads the snapshot file. A missing file is the first-run case and
// leaves the registry empty; a corrupt or truncated file is an error.
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.accounts = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening snapshot %s: %w", s.path, err)
	}
	defer f.Close()

	accounts, err := DecodeAccounts(f)
	if err != nil {
		return fmt.Errorf("loading snapshot %s: %w", s.path, err)
	}
	s.accounts = accounts
	return nil
}

// Register creates a new account with the starting balance and persists the
// registry before returning. A name or PIN collision with any existing
// account blocks creation.
func (s *Store) Register(params model.RegisterParams) (*model.Account, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err)
	}
	if len(s.accounts) >= s.capacity {
		return nil, model.ErrCapacityExceeded
	}
	for _, a := range s.accounts {
		if a.Name == params.Name || a.PIN == params.PIN {
			return nil, model.ErrDuplicateIdentity
		}
	}

	acct := model.NewAccount(params.Name, params.PIN, s.starting)
	s.accounts = append(s.accounts, acct)
	if err := s.Persist(); err != nil {
		// The in-memory account stands; memory and disk diverge until the
		// next successful persist.
		return acct, err
	}
	return acct, nil
}

// Authenticate returns the live handle for the account matching both name
// and PIN. Uniqueness of name and PIN makes the first match the only match.
func (s *Store) Authenticate(name string, pin int) (*model.Account, error) {
	for _, a := range s.accounts {
		if a.Name == name && a.PIN == pin {
			return a, nil
		}
	}
	return nil, model.ErrInvalidCredentials
}

// Persist writes the full registry snapshot, replacing the previous file
// atomically via a temp file and rename.
func (s *Store) Persist() error {
	var buf bytes.Buffer
	if err := EncodeAccounts(&buf, s.accounts); err != nil {
		return fmt.Errorf("%w: %s", model.ErrPersist, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %s", model.ErrPersist, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %s", model.ErrPersist, err)
	}
	return nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Count returns the number of registered accounts.
func (s *Store) Count() int {
	return len(s.accounts)
}

// Names returns account holder names in creation order.
func (s *Store) Names() []string {
	names := make([]string, len(s.accounts))
	for i, a := range s.accounts {
		names[i] = a.Name
	}
	return names
}
