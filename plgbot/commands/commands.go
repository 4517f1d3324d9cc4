package commands

import (
	"context"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/plgteam/plgbot/plgbot"
)

// Register binds every command handler to the Telegram client. Handlers
// match on the command prefix so "/top week" still routes to /top.
func Register(app *plgbot.Bot) {
	c := app.Client
	c.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, WrapWithLogging("start", StartHandler(app)))
	c.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypePrefix, WrapWithLogging("help", HelpHandler(app)))
	c.RegisterHandler(tgbot.HandlerTypeMessageText, "/tasks", tgbot.MatchTypePrefix, WrapWithLogging("tasks", TasksHandler(app)))
	c.RegisterHandler(tgbot.HandlerTypeMessageText, "/me", tgbot.MatchTypePrefix, WrapWithLogging("me", MeHandler(app)))
	c.RegisterHandler(tgbot.HandlerTypeMessageText, "/top", tgbot.MatchTypePrefix, WrapWithLogging("top", TopHandler(app)))
	c.RegisterHandler(tgbot.HandlerTypeMessageText, "/log", tgbot.MatchTypePrefix, WrapWithLogging("log", LogHandler(app)))
	c.RegisterHandler(tgbot.HandlerTypeMessageText, "/promote", tgbot.MatchTypePrefix, WrapWithLogging("promote", PromoteHandler(app)))
}

// WrapWithLogging guards against update shapes without a message sender
// and emits one completion record per command invocation.
func WrapWithLogging(name string, h tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		start := time.Now()
		h(ctx, client, update)
		slog.Info("Command completed",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.Int64("user_id", update.Message.From.ID),
			slog.Duration("took", time.Since(start)))
	}
}

// reply sends an HTML-formatted answer into the originating chat. Send
// failures are logged and dropped; a lost reply must not fail the command.
func reply(ctx context.Context, client *tgbot.Bot, chatID int64, text string) {
	_, err := client.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		slog.Error("Failed to send reply",
			slog.String("type", "cmd"),
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()))
	}
}

func identity(u *tgmodels.User) (username, fullName string) {
	fullName = u.FirstName
	if u.LastName != "" {
		fullName += " " + u.LastName
	}
	return u.Username, fullName
}
