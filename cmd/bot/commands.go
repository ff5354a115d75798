// cmd/bot/commands.go
package main

import (
	"cashback-chain/internal/account"
	"cashback-chain/internal/domain"
	"cashback-chain/internal/purchase"
	"cashback-chain/internal/wallet"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

const helpText = "🚗 *Cashback chain*\n\n" +
	"Commands:\n" +
	"`/open bank 3000`: open an account\n" +
	"`/link 1 2`: account 2 pays when account 1 cannot\n" +
	"`/unlink 1`: drop the fallback of account 1\n" +
	"`/deposit 1 500`: top up account 1\n" +
	"`/buy 1 mercedes luxury 48720`: buy a car starting with account 1\n" +
	"`/strategy high`: switch cashback (no name shows the current one)\n" +
	"`/balance`: list accounts"

// WalletFactory builds a fresh wallet for a new chat.
type WalletFactory func() (*wallet.Wallet, error)

// Sessions keeps one wallet per chat.
type Sessions struct {
	newWallet WalletFactory

	mu      sync.Mutex
	wallets map[int64]*wallet.Wallet
}

func NewSessions(f WalletFactory) *Sessions {
	return &Sessions{newWallet: f, wallets: make(map[int64]*wallet.Wallet)}
}

func (s *Sessions) wallet(chatID int64) (*wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.wallets[chatID]; ok {
		return w, nil
	}
	w, err := s.newWallet()
	if err != nil {
		return nil, err
	}
	s.wallets[chatID] = w
	return w, nil
}

// Handle runs one chat command and returns the reply.
func (s *Sessions) Handle(ctx context.Context, chatID int64, text string) string {
	text = SanitizeInput(fixEncoding(text))

	w, err := s.wallet(chatID)
	if err != nil {
		return errorReply(err)
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "Unknown command. Send /help"
	}
	args := fields[1:]

	var msgText string
	switch strings.ToLower(fields[0]) {
	case "/start", "/help":
		msgText = helpText
	case "/open":
		msgText, err = handleOpen(w, args)
	case "/link":
		msgText, err = handleLink(w, args)
	case "/unlink":
		msgText, err = handleUnlink(w, args)
	case "/deposit":
		msgText, err = handleDeposit(w, args)
	case "/buy":
		msgText, err = handleBuy(ctx, w, args)
	case "/strategy":
		msgText, err = handleStrategy(w, args)
	case "/balance":
		msgText = handleBalance(w)
	default:
		msgText = "Unknown command. Send /help"
	}

	if err != nil {
		return errorReply(err)
	}
	return msgText
}

// md escapes text for a reply sent with Markdown parse mode.
func md(v any) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, fmt.Sprint(v))
}

func errorReply(err error) string {
	return "❌ Error: " + md(err)
}

// nth resolves a 1-based account position.
func nth(w *wallet.Wallet, arg string) (*account.Account, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("account number expected, got %q", arg)
	}
	accounts := w.Accounts()
	if n < 1 || n > len(accounts) {
		return nil, fmt.Errorf("no account #%d, you have %d", n, len(accounts))
	}
	return accounts[n-1], nil
}

func parseAmount(arg string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(arg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount expected, got %q", arg)
	}
	return amount, nil
}

func handleOpen(w *wallet.Wallet, args []string) (string, error) {
	if len(args) != 2 {
		return "❌ Usage: /open bank|paypal|bitcoin <balance>", nil
	}
	kind, err := domain.ParseAccountKind(args[0])
	if err != nil {
		return "", err
	}
	balance, err := parseAmount(args[1])
	if err != nil {
		return "", err
	}
	acc, err := w.Open(kind, balance)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ #%d %s opened with %s", len(w.Accounts()), acc.Kind(), acc.Balance()), nil
}

func handleLink(w *wallet.Wallet, args []string) (string, error) {
	if len(args) != 2 {
		return "❌ Usage: /link <from> <to>", nil
	}
	from, err := nth(w, args[0])
	if err != nil {
		return "", err
	}
	to, err := nth(w, args[1])
	if err != nil {
		return "", err
	}
	if err := w.Link(from.ID(), to.ID()); err != nil {
		if errors.Is(err, account.ErrChainCycle) {
			return "❌ That link would make the chain loop", nil
		}
		return "", err
	}
	return fmt.Sprintf("✅ %s now falls back to %s", from.Kind(), to.Kind()), nil
}

func handleUnlink(w *wallet.Wallet, args []string) (string, error) {
	if len(args) != 1 {
		return "❌ Usage: /unlink <n>", nil
	}
	acc, err := nth(w, args[0])
	if err != nil {
		return "", err
	}
	if err := w.Unlink(acc.ID()); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ %s has no fallback", acc.Kind()), nil
}

func handleDeposit(w *wallet.Wallet, args []string) (string, error) {
	if len(args) != 2 {
		return "❌ Usage: /deposit <n> <amount>", nil
	}
	acc, err := nth(w, args[0])
	if err != nil {
		return "", err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return "", err
	}
	if err := w.Deposit(acc.ID(), amount); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ %s balance: %s", acc.Kind(), acc.Balance()), nil
}

func handleBuy(ctx context.Context, w *wallet.Wallet, args []string) (string, error) {
	if len(args) != 4 {
		return "❌ Usage: /buy <n> <manufacturer> <category> <price>", nil
	}
	acc, err := nth(w, args[0])
	if err != nil {
		return "", err
	}
	m, err := domain.ParseManufacturer(args[1])
	if err != nil {
		return "", err
	}
	cat, err := domain.ParseCategory(args[2])
	if err != nil {
		return "", err
	}
	price, err := parseAmount(args[3])
	if err != nil {
		return "", err
	}

	car, outcome, err := w.Buy(ctx, acc.ID(), m, cat, price)
	if err != nil {
		return "", err
	}

	switch outcome {
	case purchase.Purchased:
		return fmt.Sprintf("✅ Bought %s\n\n%s", md(car), handleBalance(w)), nil
	case purchase.NotForSale:
		return fmt.Sprintf("🚫 %s can not be sold for %s", md(car.Describe()), price), nil
	default:
		return fmt.Sprintf("💸 No account in the chain can pay %s", price), nil
	}
}

func handleStrategy(w *wallet.Wallet, args []string) (string, error) {
	if len(args) == 0 {
		s := w.Strategy()
		return fmt.Sprintf("Cashback: *%s* (%s%%)\nAvailable: %s", md(s.Name()), s.DisplayRate(), md(strings.Join(w.Profiles(), ", "))), nil
	}
	s, err := w.SetStrategy(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Cashback switched to *%s* (%s%%)", md(s.Name()), s.DisplayRate()), nil
}

func handleBalance(w *wallet.Wallet) string {
	accounts := w.Accounts()
	if len(accounts) == 0 {
		return "No accounts yet. Try `/open bank 3000`"
	}

	pos := make(map[*account.Account]int, len(accounts))
	for i, acc := range accounts {
		pos[acc] = i + 1
	}

	var sb strings.Builder
	for i, acc := range accounts {
		fmt.Fprintf(&sb, "#%d %s: %s", i+1, acc.Kind(), acc.Balance())
		if next := acc.Fallback(); next != nil {
			fmt.Fprintf(&sb, " → #%d", pos[next])
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SanitizeInput turns every whitespace rune into a single space.
func SanitizeInput(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	// Some clients still send windows-1251
	decoder := charmap.Windows1251.NewDecoder()
	fixed, err := decoder.String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	return strings.ToValidUTF8(s, "")
}
