// cmd/bot/main.go
package main

import (
	"cashback-chain/internal/cashback"
	"cashback-chain/internal/catalog"
	"cashback-chain/internal/config"
	"cashback-chain/internal/purchase"
	"cashback-chain/internal/storage"
	"cashback-chain/internal/storage/memory"
	"cashback-chain/internal/storage/postgres"
	"cashback-chain/internal/wallet"
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx := context.Background()

	var store storage.ProfileStorage = memory.NewStorage()
	if cfg.DBConn != "" {
		db, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			slog.Error("Failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = postgres.NewStorage(db)
	}

	registry := cashback.NewRegistry()
	if err := registry.Load(ctx, store); err != nil {
		slog.Error("Failed to load cashback profiles", "error", err)
		os.Exit(1)
	}

	resolver, err := purchase.NewResolver(otel.Meter("cashback-chain/bot"), otel.Tracer("cashback-chain/bot"))
	if err != nil {
		slog.Error("Failed to create resolver", "error", err)
		os.Exit(1)
	}

	sessions := NewSessions(func() (*wallet.Wallet, error) {
		cat := catalog.New(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
		return wallet.New(registry, resolver, cat, cfg.DefaultProfile)
	})

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("Failed to init Telegram bot", "error", err)
		os.Exit(1)
	}

	slog.Info("Bot started", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID
		slog.Info("Received", "chat_id", chatID, "text", update.Message.Text)

		msg := tgbotapi.NewMessage(chatID, sessions.Handle(ctx, chatID, update.Message.Text))
		msg.ParseMode = "Markdown"
		if _, err := bot.Send(msg); err != nil {
			slog.Error("Failed to send reply", "error", err, "chat_id", chatID)
		}
	}
}
