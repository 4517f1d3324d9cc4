package commands

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/plgteam/plgbot/plgbot"
	"github.com/plgteam/plgbot/plgbot/services"
)

const topSize = 10

func TopHandler(app *plgbot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		msg := update.Message

		period := services.PeriodWeek
		if fields := strings.Fields(msg.Text); len(fields) >= 2 {
			period = services.ParsePeriod(fields[1])
		}

		entries, err := app.LeaderboardService.Top(ctx, period, topSize)
		if err != nil {
			reply(ctx, client, msg.Chat.ID, "Не удалось загрузить топ, попробуйте позже.")
			return
		}
		if len(entries) == 0 {
			reply(ctx, client, msg.Chat.ID, "Пока нет данных по топу.")
			return
		}

		lines := []string{fmt.Sprintf("<b>Топ (%s)</b>", period)}
		for i, e := range entries {
			name := e.FullName
			if name == "" && e.Username != "" {
				name = "@" + e.Username
			}
			if name == "" {
				name = fmt.Sprintf("%d", e.TgID)
			}
			lines = append(lines, fmt.Sprintf("%d. %s — %d XP", i+1, name, e.TotalXP))
		}
		reply(ctx, client, msg.Chat.ID, strings.Join(lines, "\n"))
	}
}
