package plgbot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/plgteam/plgbot/plgbot/database"
	"github.com/plgteam/plgbot/plgbot/database/repositories"
	"github.com/plgteam/plgbot/plgbot/services"
)

func New(cfg Config, version string) *Bot {
	return &Bot{
		Cfg:     cfg,
		Version: version,
	}
}

type Bot struct {
	Cfg      Config
	Client   *tgbot.Bot
	Version  string
	DB       *database.DB
	Location *time.Location

	UserRepository       repositories.UserRepository
	TaskRepository       repositories.TaskRepository
	LevelRepository      repositories.LevelRepository
	SubmissionRepository repositories.SubmissionRepository

	Policy             services.ManagerPolicy
	Registry           *services.UserRegistry
	ProfileService     *services.ProfileService
	AwardService       *services.AwardService
	TaskResolver       *services.TaskResolver
	LeaderboardService *services.LeaderboardService
	AdminService       *services.AdminService
	Importer           *services.CatalogImporter
	Broadcast          *services.BroadcastService
}

// SetupServices wires repositories and domain services on top of the
// already-connected database. Everything takes the one Config value built
// at startup; nothing reads configuration globally.
func (b *Bot) SetupServices() error {
	loc, err := b.Cfg.Bot.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", b.Cfg.Bot.Timezone, err)
	}
	b.Location = loc

	bunDB := b.DB.BunDB()
	b.UserRepository = repositories.NewUserRepository(bunDB)
	b.TaskRepository = repositories.NewTaskRepository(bunDB)
	b.LevelRepository = repositories.NewLevelRepository(bunDB)
	b.SubmissionRepository = repositories.NewSubmissionRepository(bunDB)

	b.Policy = services.NewManagerPolicy(b.Cfg.Bot.ManagerIDs, b.Cfg.Bot.SuperAdminID)
	b.Registry = services.NewUserRegistry(b.UserRepository)
	b.ProfileService = services.NewProfileService(b.LevelRepository)
	b.AwardService = services.NewAwardService(b.SubmissionRepository)
	b.TaskResolver = services.NewTaskResolver(b.TaskRepository)
	b.LeaderboardService = services.NewLeaderboardService(b.SubmissionRepository, loc)
	b.AdminService = services.NewAdminService(b.UserRepository)

	b.Importer = services.NewCatalogImporter(
		b.TaskRepository,
		b.LevelRepository,
		b.TaskResolver,
		b.Cfg.Catalog.TaskFiles,
		b.Cfg.Catalog.LevelFiles,
	)
	if sp := b.Cfg.Catalog.Spaces; sp.Enabled() {
		spaces, err := services.NewSpacesService(sp.Key, sp.Secret, sp.Region, sp.Bucket)
		if err != nil {
			return fmt.Errorf("failed to set up Spaces catalog source: %w", err)
		}
		b.Importer = b.Importer.WithFetcher(spaces, sp.Keys)
		slog.Info("Remote catalog source enabled",
			slog.String("type", "sys"),
			slog.String("bucket", sp.Bucket),
			slog.Int("keys", len(sp.Keys)))
	}
	return nil
}

// SetupTelegram creates the Telegram client and the services that need it.
func (b *Bot) SetupTelegram(opts ...tgbot.Option) error {
	client, err := tgbot.New(b.Cfg.Bot.Token, opts...)
	if err != nil {
		return fmt.Errorf("failed to create telegram client: %w", err)
	}
	b.Client = client

	b.Broadcast = services.NewBroadcastService(b.LeaderboardService, client, b.Cfg.Bot.BroadcastChatID)
	return nil
}

// SyncWebhook registers the configured receiver URL with Telegram and
// returns it. Called from the -sync-webhook flag and the setup endpoint.
func (b *Bot) SyncWebhook(ctx context.Context) (string, error) {
	url := b.Cfg.Bot.WebhookURL()
	if url == "" {
		return "", fmt.Errorf("webhook_base not configured")
	}
	ok, err := b.Client.SetWebhook(ctx, &tgbot.SetWebhookParams{URL: url})
	if err != nil {
		return "", fmt.Errorf("failed to register webhook: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("telegram rejected webhook %s", url)
	}
	slog.Info("Webhook registered",
		slog.String("type", "sys"),
		slog.String("url", url))
	return url, nil
}
