package commands

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/plgteam/plgbot/plgbot"
)

func MeHandler(app *plgbot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		msg := update.Message
		username, fullName := identity(msg.From)

		user, err := app.Registry.Ensure(ctx, msg.From.ID, username, fullName)
		if err != nil {
			reply(ctx, client, msg.Chat.ID, "Что-то пошло не так, попробуйте ещё раз.")
			return
		}
		prof, err := app.ProfileService.GetProfile(ctx, user)
		if err != nil {
			reply(ctx, client, msg.Chat.ID, "Что-то пошло не так, попробуйте ещё раз.")
			return
		}

		lines := []string{fmt.Sprintf("XP: <b>%d</b>", user.XPTotal)}
		if prof.Level != nil {
			lines = append(lines, fmt.Sprintf("Уровень: <b>%d</b> — %s", prof.Level.Num, prof.Level.Title))
		}
		if prof.NextLevel != nil {
			pct := 0
			if prof.Progress != nil {
				pct = int(*prof.Progress * 100)
			}
			lines = append(lines, fmt.Sprintf("Прогресс к %d: %d%% (%d/%d)",
				prof.NextLevel.Num, pct, user.XPTotal, prof.NextLevel.XPRequired))
		}
		reply(ctx, client, msg.Chat.ID, strings.Join(lines, "\n"))
	}
}
