package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plgteam/plgbot/plgbot"
	"github.com/plgteam/plgbot/plgbot/commands"
	"github.com/plgteam/plgbot/plgbot/database"
	"github.com/plgteam/plgbot/plgbot/logger"
	"github.com/plgteam/plgbot/plgbot/scheduler"
	"github.com/plgteam/plgbot/plgbot/web"
)

const defaultBroadcastHour = 10

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	importOnly := flag.Bool("import-catalog", false, "run the catalog import and exit")
	syncWebhook := flag.Bool("sync-webhook", false, "register the Telegram webhook and exit")
	flag.Parse()

	// Config has to load before the handler so the log level applies.
	cfg, err := plgbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

	slog.Info("Starting PLG XP Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		cancel()
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		cancel()
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := plgbot.New(*cfg, version)
	b.DB = db

	if err := b.SetupServices(); err != nil {
		cancel()
		slog.Error("Failed to set up services", slog.Any("error", err))
		os.Exit(-1)
	}

	if *importOnly {
		_, err := b.Importer.Import(ctx)
		cancel()
		if err != nil {
			slog.Error("Catalog import failed", slog.String("error", err.Error()))
			os.Exit(-1)
		}
		return
	}

	// Idempotent upsert by natural key: safe on every start, and the
	// result line shows what actually changed.
	if _, err := b.Importer.Import(ctx); err != nil {
		slog.Warn("Catalog import failed, keeping previous catalog",
			slog.String("type", "sys"),
			slog.String("error", err.Error()))
	}
	cancel()

	if err := b.SetupTelegram(); err != nil {
		slog.Error("Failed to set up telegram client", slog.Any("error", err))
		os.Exit(-1)
	}

	if *syncWebhook {
		syncCtx, syncCancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := b.SyncWebhook(syncCtx)
		syncCancel()
		if err != nil {
			slog.Error("Webhook registration failed", slog.String("error", err.Error()))
			os.Exit(-1)
		}
		return
	}

	commands.Register(b)

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Updates arrive over HTTP; StartWebhook drains the queue the webhook
	// handler fills.
	go b.Client.StartWebhook(runCtx)

	app := web.New(b)
	addr := cfg.Bot.ListenAddr
	if addr == "" {
		addr = ":8000"
	}
	go func() {
		if err := app.Listen(addr); err != nil {
			slog.Error("HTTP server stopped",
				slog.String("type", "web"),
				slog.String("error", err.Error()))
		}
	}()
	slog.Info("HTTP server listening",
		slog.String("type", "web"),
		slog.String("addr", addr))

	hour := cfg.Bot.BroadcastHour
	if hour <= 0 || hour > 23 {
		hour = defaultBroadcastHour
	}
	scheduler.NewDaily("broadcast_heroes", hour, b.Location, b.Broadcast.BroadcastHeroes).Start(runCtx)

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	slog.Info("Shutting down...")
	stop()
	if err := app.Shutdown(); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
}
