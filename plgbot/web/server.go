package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/plgteam/plgbot/plgbot"
)

// New builds the HTTP surface: a health endpoint, a shared-secret-gated
// webhook registration endpoint, and the Telegram webhook receiver. The
// receiver always acknowledges receipt so the upstream transport never
// redelivers on our internal failures.
func New(app *plgbot.Bot) *fiber.App {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "plgbot",
	})

	f.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	f.Get("/setup-webhook", func(c *fiber.Ctx) error {
		if c.Query("secret") != app.Cfg.Bot.WebhookSecret {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "forbidden"})
		}
		if app.Cfg.Bot.WebhookURL() == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "webhook_base not set"})
		}

		url, err := app.SyncWebhook(c.UserContext())
		if err != nil {
			slog.Error("Failed to register webhook",
				slog.String("type", "web"),
				slog.String("error", err.Error()))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"detail": "webhook registration failed"})
		}
		return c.JSON(fiber.Map{"webhook": url})
	})

	webhook := adaptor.HTTPHandlerFunc(app.Client.WebhookHandler())
	f.Post("/webhook/:secret", func(c *fiber.Ctx) error {
		if c.Params("secret") != app.Cfg.Bot.WebhookSecret {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "forbidden"})
		}
		return webhook(c)
	})

	return f
}
