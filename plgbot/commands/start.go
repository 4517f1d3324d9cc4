package commands

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/plgteam/plgbot/plgbot"
)

func StartHandler(app *plgbot.Bot) tgbot.HandlerFunc {
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

		lines := []string{
			fmt.Sprintf("Привет, <b>%s</b>!", fullName),
			fmt.Sprintf("Твой XP: <b>%d</b>", user.XPTotal),
		}
		if prof.Level != nil {
			lines = append(lines, fmt.Sprintf("Твой уровень: <b>%d</b> — %s (порог %d XP)",
				prof.Level.Num, prof.Level.Title, prof.Level.XPRequired))
		}
		if prof.NextLevel != nil {
			pct := 0
			if prof.Progress != nil {
				pct = int(*prof.Progress * 100)
			}
			lines = append(lines, fmt.Sprintf("До след. уровня: %d — %d%% из %d XP",
				prof.NextLevel.Num, pct, prof.NextLevel.XPRequired))
		}
		lines = append(lines, "\nКоманды: /tasks /me /top [week|month|all]")
		if app.Policy.IsAuthorizedManager(user) {
			lines = append(lines, "Команда менеджера: /log <@user|id> <код|название> [count]")
		}

		reply(ctx, client, msg.Chat.ID, strings.Join(lines, "\n"))
	}
}
