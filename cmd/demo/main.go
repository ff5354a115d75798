// cmd/demo/main.go
package main

import (
	"cashback-chain/internal/cashback"
	"cashback-chain/internal/catalog"
	"cashback-chain/internal/config"
	"cashback-chain/internal/domain"
	"cashback-chain/internal/purchase"
	"cashback-chain/internal/wallet"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

type scenario struct {
	title string
	run   func(ctx context.Context, w *wallet.Wallet) error
}

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	resolver, err := purchase.NewResolver(otel.Meter("cashback-chain/demo"), otel.Tracer("cashback-chain/demo"))
	if err != nil {
		slog.Error("Failed to create resolver", "error", err)
		os.Exit(1)
	}
	registry := cashback.NewRegistry()
	rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	scenarios := []scenario{
		{"Chain of responsibility", chainScenario},
		{"Observer", observerScenario},
		{"State", stateScenario},
		{"Not for sale", notForSaleScenario},
	}

	ctx := context.Background()
	for _, sc := range scenarios {
		fmt.Printf("\n=== %s ===\n", sc.title)

		w, err := wallet.New(registry, resolver, catalog.New(rnd), cfg.DefaultProfile)
		if err != nil {
			slog.Error("Failed to create wallet", "error", err)
			os.Exit(1)
		}
		if err := sc.run(ctx, w); err != nil {
			slog.Error("Scenario failed", "scenario", sc.title, "error", err)
			os.Exit(1)
		}
		report(w)
	}
}

func chainScenario(ctx context.Context, w *wallet.Wallet) error {
	bank, err := w.Open(domain.Bank, decimal.NewFromInt(3000))
	if err != nil {
		return err
	}
	paypal, err := w.Open(domain.Paypal, decimal.NewFromInt(24800))
	if err != nil {
		return err
	}
	bitcoin, err := w.Open(domain.Bitcoin, decimal.NewFromInt(82000))
	if err != nil {
		return err
	}
	if err := w.Link(bank.ID(), paypal.ID()); err != nil {
		return err
	}
	if err := w.Link(paypal.ID(), bitcoin.ID()); err != nil {
		return err
	}
	return buy(ctx, w, bank.ID(), domain.Mercedes, domain.Luxury, 48720)
}

func observerScenario(ctx context.Context, w *wallet.Wallet) error {
	bank, err := w.Open(domain.Bank, decimal.NewFromInt(38000))
	if err != nil {
		return err
	}
	return buy(ctx, w, bank.ID(), domain.Mercedes, domain.Sedan, 27500)
}

func stateScenario(ctx context.Context, w *wallet.Wallet) error {
	paypal, err := w.Open(domain.Paypal, decimal.NewFromInt(120500))
	if err != nil {
		return err
	}
	for _, profile := range []string{"low", "high"} {
		if _, err := w.SetStrategy(profile); err != nil {
			return err
		}
		if err := buy(ctx, w, paypal.ID(), domain.BMW, domain.Sedan, 42800); err != nil {
			return err
		}
	}
	return nil
}

func notForSaleScenario(ctx context.Context, w *wallet.Wallet) error {
	bank, err := w.Open(domain.Bank, decimal.NewFromInt(1000))
	if err != nil {
		return err
	}
	return buy(ctx, w, bank.ID(), domain.Audi, domain.SAV, 0)
}

func buy(ctx context.Context, w *wallet.Wallet, id uuid.UUID, m domain.Manufacturer, cat domain.Category, price int64) error {
	car, outcome, err := w.Buy(ctx, id, m, cat, decimal.NewFromInt(price))
	if err != nil {
		return err
	}
	fmt.Printf("%s for %d: %s (cashback %s)\n", car, price, outcome, w.Strategy().Name())
	return nil
}

func report(w *wallet.Wallet) {
	for _, acc := range w.Accounts() {
		fmt.Printf("  %-8s %s\n", acc.Kind(), acc.Balance())
	}
	for _, o := range w.Observations() {
		fmt.Printf("  rebate %s on %s spent at %s%% to %s\n", o.Rebate, o.Spent, o.RatePercent, o.Kind)
	}
}
