package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/model"
)

// Snapshot file layout (all integers little-endian):
//
//	magic   [4]byte  "TLRB"
//	version uint16   currently 1
//	count   uint32   number of account records
//	records count × 132 bytes
//
// Each record:
//
//	name   [50]byte  NUL-padded
//	pin    uint16
//	id     [16]byte  UUID
//	cash, loan, crypto, gold, silver, eur, gbp, inr  int64 micro-units
//
// Monetary and unit fields are stored as micro-units (value × 1e6) so records
// stay fixed-size; values are rounded to 6 decimal places on encode.
const (
	formatVersion = 1

	headerSize = 10
	recordSize = 132

	offName = 0
	offPIN  = 50
	offID   = 52
	offCash = 68
	offLoan = 76

	microExp = 6
)

var magic = [4]byte{'T', 'L', 'R', 'B'}

// assetOffsets and currencyOffsets fix the field order within a record.
var (
	assetOffsets    = map[model.AssetKind]int{model.AssetCrypto: 84, model.AssetGold: 92, model.AssetSilver: 100}
	currencyOffsets = map[model.CurrencyKind]int{model.CurrencyEUR: 108, model.CurrencyGBP: 116, model.CurrencyINR: 124}
)

// EncodeAccounts writes the versioned snapshot of all accounts.
func EncodeAccounts(w io.Writer, accounts []*model.Account) error {
	var header [headerSize]byte
	copy(header[:4], magic[:])
	binary.LittleEndian.PutUint16(header[4:6], formatVersion)
	binary.LittleEndian.PutUint32(header[6:10], uint32(len(accounts)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		rec, err := MarshalAccount(acct)
		if err != nil {
			return fmt.Errorf("record %d (%s): %w", i, acct.Name, err)
		}
		if _, err := w.Write(rec); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	return nil
}

// DecodeAccounts reads a versioned snapshot. A truncated file or a count that
// does not match the records present is an error.
func DecodeAccounts(r io.Reader) ([]*model.Account, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header[:4], magic[:]) {
		return nil, fmt.Errorf("not an account snapshot (bad magic %q)", header[:4])
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v != formatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", v)
	}

	count := binary.LittleEndian.Uint32(header[6:10])
	accounts := make([]*model.Account, 0, count)
	rec := make([]byte, recordSize)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, fmt.Errorf("reading record %d of %d: %w", i+1, count, err)
		}
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// MarshalAccount converts an Account to a fixed-size record.
func MarshalAccount(acct *model.Account) ([]byte, error) {
	if len(acct.Name) > model.MaxNameLength {
		return nil, fmt.Errorf("name %q exceeds %d bytes", acct.Name, model.MaxNameLength)
	}

	rec := make([]byte, recordSize)
	copy(rec[offName:offName+model.MaxNameLength], acct.Name)
	binary.LittleEndian.PutUint16(rec[offPIN:], uint16(acct.PIN))
	copy(rec[offID:offID+16], acct.ID[:])

	type field struct {
		name string
		off  int
		val  decimal.Decimal
	}
	fields := []field{
		{"cash", offCash, acct.Cash},
		{"loan", offLoan, acct.Loan},
	}
	for _, kind := range model.AssetKinds() {
		fields = append(fields, field{string(kind), assetOffsets[kind], acct.Assets.Get(kind)})
	}
	for _, kind := range model.CurrencyKinds() {
		fields = append(fields, field{string(kind), currencyOffsets[kind], acct.Currencies.Get(kind)})
	}

	for _, f := range fields {
		m, err := microFromDecimal(f.val)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		binary.LittleEndian.PutUint64(rec[f.off:], uint64(m))
	}
	return rec, nil
}

// UnmarshalAccount converts a fixed-size record back to an Account.
func UnmarshalAccount(rec []byte) (*model.Account, error) {
	if len(rec) != recordSize {
		return nil, fmt.Errorf("expected %d bytes, got %d", recordSize, len(rec))
	}

	name := string(bytes.TrimRight(rec[offName:offName+model.MaxNameLength], "\x00"))
	if name == "" {
		return nil, fmt.Errorf("empty account name")
	}

	pin := int(binary.LittleEndian.Uint16(rec[offPIN:]))
	if pin < model.MinPIN || pin > model.MaxPIN {
		return nil, fmt.Errorf("PIN %d out of range", pin)
	}

	id, err := uuid.FromBytes(rec[offID : offID+16])
	if err != nil {
		return nil, fmt.Errorf("parsing account ID: %w", err)
	}

	acct := &model.Account{
		ID:         id,
		Name:       name,
		PIN:        pin,
		Cash:       microToDecimal(int64(binary.LittleEndian.Uint64(rec[offCash:]))),
		Loan:       microToDecimal(int64(binary.LittleEndian.Uint64(rec[offLoan:]))),
		Assets:     make(model.Holdings[model.AssetKind], len(model.AssetKinds())),
		Currencies: make(model.Holdings[model.CurrencyKind], len(model.CurrencyKinds())),
	}
	for _, kind := range model.AssetKinds() {
		acct.Assets[kind] = microToDecimal(int64(binary.LittleEndian.Uint64(rec[assetOffsets[kind]:])))
	}
	for _, kind := range model.CurrencyKinds() {
		acct.Currencies[kind] = microToDecimal(int64(binary.LittleEndian.Uint64(rec[currencyOffsets[kind]:])))
	}
	return acct, nil
}

// microFromDecimal converts a decimal to micro-units, rounding to 6 places.
func microFromDecimal(d decimal.Decimal) (int64, error) {
	m := d.Round(microExp).Shift(microExp)
	if !m.BigInt().IsInt64() {
		return 0, fmt.Errorf("value %s overflows snapshot field", d)
	}
	return m.IntPart(), nil
}

// microToDecimal converts stored micro-units back to a decimal.
func microToDecimal(m int64) decimal.Decimal {
	return decimal.New(m, -microExp)
}
