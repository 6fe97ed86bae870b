package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/teller-dev/teller/internal/model"
	"github.com/teller-dev/teller/internal/report"
)

func newSessionCommand(resolveDir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive banking session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBank(resolveDir())
			if err != nil {
				return err
			}
			s := &session{bank: b, in: bufio.NewScanner(os.Stdin), out: os.Stdout}
			return s.run()
		},
	}
}

// session drives the menu loop. It owns all prompt parsing; the engine only
// ever sees validated primitives.
type session struct {
	bank *bank
	in   *bufio.Scanner
	out  io.Writer

	acct *model.Account // the logged-in account, nil before login
}

func (s *session) run() error {
	fmt.Fprintf(s.out, "Teller personal banking ledger\n")
	fmt.Fprintf(s.out, "%d account(s) on file.\n", s.bank.store.Count())

	for {
		fmt.Fprintf(s.out, "\n1. Create account\n2. Login\n3. Exit\n")
		choice, err := s.readInt("Choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.printErr(model.ErrInvalidInput)
			continue
		}

		switch choice {
		case 1:
			s.createAccount()
		case 2:
			if s.login() {
				if done := s.userMenu(); done {
					return nil
				}
			}
		case 3:
			fmt.Fprintf(s.out, "Goodbye.\n")
			return nil
		default:
			s.printErr(model.ErrInvalidInput)
		}
	}
}

func (s *session) createAccount() {
	name, err := s.readLine("Enter name (alphabets only): ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return
	}
	pin, err := s.readInt("Set 4-digit PIN (1000-9999): ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return
	}

	acct, err := s.bank.store.Register(model.RegisterParams{Name: name, PIN: pin})
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Account created. Starting balance: %s\n", report.USD(acct.Cash))
}

func (s *session) login() bool {
	name, err := s.readLine("Enter name: ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return false
	}
	pin, err := s.readInt("Enter PIN: ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return false
	}

	acct, err := s.bank.store.Authenticate(name, pin)
	if err != nil {
		s.printErr(err)
		return false
	}
	s.acct = acct
	fmt.Fprintf(s.out, "Welcome, %s!\n", acct.Name)
	return true
}

// userMenu runs the post-login loop. Returns true when the session should end.
func (s *session) userMenu() bool {
	for {
		fmt.Fprintf(s.out, "\n1. Cash transaction (deposit/withdraw)\n")
		fmt.Fprintf(s.out, "2. Purchase assets\n")
		fmt.Fprintf(s.out, "3. Loan management\n")
		fmt.Fprintf(s.out, "4. Account status\n")
		fmt.Fprintf(s.out, "5. Market prices\n")
		fmt.Fprintf(s.out, "6. Market update\n")
		fmt.Fprintf(s.out, "7. Add interest\n")
		fmt.Fprintf(s.out, "8. Forex wallet\n")
		fmt.Fprintf(s.out, "9. Logout\n")

		choice, err := s.readInt("Choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return true
			}
			s.printErr(model.ErrInvalidInput)
			continue
		}

		switch choice {
		case 1:
			s.cashTransaction()
		case 2:
			s.purchaseAsset()
		case 3:
			s.manageLoan()
		case 4:
			fmt.Fprint(s.out, report.Status(s.acct, s.bank.feed, s.bank.engine.NetWorth(s.acct)))
		case 5:
			fmt.Fprint(s.out, report.MarketTable(s.bank.feed))
		case 6:
			fmt.Fprint(s.out, report.MarketUpdate(s.bank.feed.Advance()))
		case 7:
			s.addInterest()
		case 8:
			s.forexWallet()
		case 9:
			fmt.Fprintf(s.out, "Logging out. Goodbye, %s!\n", s.acct.Name)
			s.acct = nil
			return true
		default:
			s.printErr(model.ErrInvalidInput)
		}
	}
}

func (s *session) cashTransaction() {
	fmt.Fprintf(s.out, "1. Deposit\n2. Withdraw\n")
	choice, err := s.readInt("Choice: ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return
	}
	amount, err := s.readAmount("Enter amount: $")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return
	}

	switch choice {
	case 1:
		if err := s.bank.engine.Deposit(s.acct, amount); err != nil {
			s.printErr(err)
			return
		}
		fmt.Fprintf(s.out, "Deposited %s. New balance: %s\n", report.USD(amount), report.USD(s.acct.Cash))
	case 2:
		pin, err := s.readInt("Enter PIN for verification: ")
		if err != nil {
			s.printErr(model.ErrInvalidInput)
			return
		}
		if err := s.bank.engine.Withdraw(s.acct, amount, pin); err != nil {
			s.printErr(err)
			return
		}
		fmt.Fprintf(s.out, "Withdrawn %s. New balance: %s\n", report.USD(amount), report.USD(s.acct.Cash))
	default:
		s.printErr(model.ErrInvalidInput)
	}
}

func (s *session) purchaseAsset() {
	pin, err := s.readInt("Enter PIN for verification: ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return
	}

	fmt.Fprintf(s.out, "Investment amount: %s\n", report.USD(decimal.NewFromFloat(s.bank.cfg.Bank.PurchaseAmount)))
	kinds := model.AssetKinds()
	for i, kind := range kinds {
		fmt.Fprintf(s.out, "%d. %s (%s/unit)\n", i+1, kind, report.USD(s.bank.feed.Price(kind)))
	}

	choice, err := s.readInt("Choice: ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return
	}

	// An out-of-range choice maps to an unknown kind; the engine debits
	// then refunds it, same as any invalid selection.
	var kind model.AssetKind
	if choice >= 1 && choice <= len(kinds) {
		kind = kinds[choice-1]
	}

	units, err := s.bank.engine.PurchaseAsset(s.acct, kind, pin)
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Purchased %s units of %s. Remaining balance: %s\n",
		units.StringFixed(4), kind, report.USD(s.acct.Cash))
}

func (s *session) manageLoan() {
	pin, err := s.readInt("Enter PIN for verification: ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return
	}

	if !s.acct.HasLoan() {
		loan := decimal.NewFromFloat(s.bank.cfg.Bank.LoanAmount)
		fmt.Fprintf(s.out, "You have no outstanding loan.\n")
		if !s.confirm(fmt.Sprintf("Take a loan of %s? (1=Yes, 0=No): ", report.USD(loan))) {
			fmt.Fprintf(s.out, "Loan request cancelled.\n")
			return
		}
		if err := s.bank.engine.TakeLoan(s.acct, pin); err != nil {
			s.printErr(err)
			return
		}
		fmt.Fprintf(s.out, "Loan approved. New balance: %s\n", report.USD(s.acct.Cash))
		return
	}

	fmt.Fprintf(s.out, "Outstanding loan: %s\n", report.USD(s.acct.Loan))
	fmt.Fprintf(s.out, "Current balance:  %s\n", report.USD(s.acct.Cash))
	if s.acct.Cash.LessThan(s.acct.Loan) {
		fmt.Fprintf(s.out, "[INFO] Insufficient funds to repay loan.\n")
		return
	}
	if !s.confirm("Repay full loan? (1=Yes, 0=No): ") {
		fmt.Fprintf(s.out, "Repayment cancelled.\n")
		return
	}
	if err := s.bank.engine.RepayLoan(s.acct, pin); err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Loan fully repaid. Remaining balance: %s\n", report.USD(s.acct.Cash))
}

func (s *session) addInterest() {
	interest, err := s.bank.engine.AccrueInterest(s.acct)
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Interest earned: %s. New balance: %s\n", report.USD(interest), report.USD(s.acct.Cash))
}

func (s *session) forexWallet() {
	fmt.Fprintf(s.out, "USD balance: %s\n", report.USD(s.acct.Cash))
	kinds := model.CurrencyKinds()
	for _, kind := range kinds {
		units := s.acct.Currencies.Get(kind)
		fmt.Fprintf(s.out, "%s: %s (~ %s)\n", kind, units.StringFixed(2), report.USD(units.Mul(s.bank.feed.Rate(kind))))
	}

	for i, kind := range kinds {
		fmt.Fprintf(s.out, "%d. Convert USD to %s\n", i+1, kind)
	}
	fmt.Fprintf(s.out, "4. Convert foreign currency to USD\n5. Back\n")

	choice, err := s.readInt("Choice: ")
	if err != nil {
		s.printErr(model.ErrInvalidInput)
		return
	}

	switch {
	case choice >= 1 && choice <= len(kinds):
		kind := kinds[choice-1]
		amount, err := s.readAmount("Enter USD amount to convert: $")
		if err != nil {
			s.printErr(model.ErrInvalidInput)
			return
		}
		units, err := s.bank.engine.ConvertToForeign(s.acct, kind, amount)
		if err != nil {
			s.printErr(err)
			return
		}
		fmt.Fprintf(s.out, "Converted %s to %s %s\n", report.USD(amount), units.StringFixed(2), kind)
	case choice == 4:
		for i, kind := range kinds {
			fmt.Fprintf(s.out, "%d. %s to USD\n", i+1, kind)
		}
		sub, err := s.readInt("Choice: ")
		if err != nil || sub < 1 || sub > len(kinds) {
			s.printErr(model.ErrInvalidInput)
			return
		}
		kind := kinds[sub-1]
		amount, err := s.readAmount("Enter amount to convert: ")
		if err != nil {
			s.printErr(model.ErrInvalidInput)
			return
		}
		usd, err := s.bank.engine.ConvertFromForeign(s.acct, kind, amount)
		if err != nil {
			s.printErr(err)
			return
		}
		fmt.Fprintf(s.out, "Converted %s %s to %s\n", amount.StringFixed(2), kind, report.USD(usd))
	case choice == 5:
	default:
		s.printErr(model.ErrInvalidInput)
	}
}

// confirm prompts for a 1/0 answer; anything but 1 declines.
func (s *session) confirm(prompt string) bool {
	v, err := s.readInt(prompt)
	return err == nil && v == 1
}

func (s *session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) readInt(prompt string) (int, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", model.ErrInvalidInput, line)
	}
	return v, nil
}

func (s *session) readAmount(prompt string) (decimal.Decimal, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(line)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not an amount", model.ErrInvalidInput, line)
	}
	return v, nil
}

// printErr prints a failure. Persist failures are warnings: the operation
// took effect in memory but the snapshot on disk is stale.
func (s *session) printErr(err error) {
	if errors.Is(err, model.ErrPersist) {
		fmt.Fprintf(s.out, "[WARNING] %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "[ERROR] %v\n", err)
}
