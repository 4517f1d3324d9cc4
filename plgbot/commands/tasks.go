package commands

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/plgteam/plgbot/plgbot"
)

func TasksHandler(app *plgbot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		msg := update.Message

		tasks, err := app.TaskRepository.GetAll(ctx)
		if err != nil {
			reply(ctx, client, msg.Chat.ID, "Не удалось загрузить задания, попробуйте позже.")
			return
		}
		if len(tasks) == 0 {
			reply(ctx, client, msg.Chat.ID, "Заданий пока нет.")
			return
		}

		lines := make([]string, 0, len(tasks))
		for _, t := range tasks {
			lines = append(lines, fmt.Sprintf("<code>%s</code> — %s (+%d XP)", t.Code, t.Name, t.XP))
		}
		reply(ctx, client, msg.Chat.ID, strings.Join(lines, "\n"))
	}
}
