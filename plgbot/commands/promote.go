package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/plgteam/plgbot/plgbot"
	"github.com/plgteam/plgbot/plgbot/services"
)

// PromoteHandler grants the manager flag. Only the configured super admin
// may call it; the flag lives in config, not in the users table.
func PromoteHandler(app *plgbot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		msg := update.Message

		if !app.Policy.IsSuperAdmin(msg.From.ID) {
			reply(ctx, client, msg.Chat.ID, "Недостаточно прав.")
			return
		}

		fields := strings.Fields(msg.Text)
		if len(fields) < 2 {
			reply(ctx, client, msg.Chat.ID, "Укажите Telegram ID пользователя: /promote <id>")
			return
		}
		tgID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			reply(ctx, client, msg.Chat.ID, "ID должен быть числом.")
			return
		}

		user, err := app.AdminService.Promote(ctx, tgID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				reply(ctx, client, msg.Chat.ID, "Пользователь не найден (он должен написать боту /start).")
			} else {
				reply(ctx, client, msg.Chat.ID, "Что-то пошло не так, попробуйте ещё раз.")
			}
			return
		}

		reply(ctx, client, msg.Chat.ID, fmt.Sprintf("Назначен менеджером: %s", user.DisplayName()))
	}
}
