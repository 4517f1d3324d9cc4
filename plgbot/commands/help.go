package commands

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/plgteam/plgbot/plgbot"
)

const helpText = "<b>Справка</b>\n" +
	"• /tasks — список заданий\n" +
	"• /me — мой профиль\n" +
	"• /top [week|month|all] — топ игроков\n" +
	"• /log <@user|id> <код|название> [count] — менеджеры учитывают выполнение\n" +
	"• /promote <id> — super admin назначает менеджера"

func HelpHandler(app *plgbot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		reply(ctx, client, update.Message.Chat.ID, helpText)
	}
}
