package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/plgteam/plgbot/plgbot"
	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/plgteam/plgbot/plgbot/services"
)

// LogHandler is the manager surface: /log <@user|id> <код|часть названия> [count].
func LogHandler(app *plgbot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		msg := update.Message
		username, fullName := identity(msg.From)

		manager, err := app.Registry.Ensure(ctx, msg.From.ID, username, fullName)
		if err != nil {
			reply(ctx, client, msg.Chat.ID, "Что-то пошло не так, попробуйте ещё раз.")
			return
		}
		if !app.Policy.IsAuthorizedManager(manager) {
			reply(ctx, client, msg.Chat.ID, "Команда доступна только менеджерам.")
			return
		}

		fields := strings.Fields(msg.Text)
		if len(fields) < 3 {
			reply(ctx, client, msg.Chat.ID, "Формат: /log <@user|id> <код|часть названия> [count]")
			return
		}

		ref, ok := parseTargetRef(fields[1])
		if !ok {
			reply(ctx, client, msg.Chat.ID, "Не найден пользователь. Он должен сначала написать /start боту.")
			return
		}

		var target *models.User
		if ref.Username != "" {
			target, err = app.UserRepository.GetByUsername(ctx, ref.Username)
		} else {
			target, err = app.UserRepository.GetByTgID(ctx, ref.TgID)
		}
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				reply(ctx, client, msg.Chat.ID, "Не найден пользователь. Он должен сначала написать /start боту.")
			} else {
				reply(ctx, client, msg.Chat.ID, "Что-то пошло не так, попробуйте ещё раз.")
			}
			return
		}

		task, err := app.TaskResolver.Resolve(ctx, fields[2])
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				reply(ctx, client, msg.Chat.ID, "Задание не найдено. Посмотрите /tasks")
			} else {
				reply(ctx, client, msg.Chat.ID, "Что-то пошло не так, попробуйте ещё раз.")
			}
			return
		}

		count := 1
		if len(fields) >= 4 {
			count = parseCount(fields[3])
		}

		oldProf, profErr := app.ProfileService.GetProfile(ctx, target)

		sub, err := app.AwardService.Award(ctx, target, task, count, manager)
		if err != nil {
			reply(ctx, client, msg.Chat.ID, "Не удалось записать выполнение, попробуйте ещё раз.")
			return
		}

		text := fmt.Sprintf("Зачтено: <b>%s</b> ×%d (+%d XP)\nИгрок: %s\nИтого XP: <b>%d</b>",
			task.Name, sub.Count, sub.XPAwarded, target.DisplayName(), target.XPTotal)

		if profErr == nil {
			if newProf, err := app.ProfileService.GetProfile(ctx, target); err == nil && leveledUp(oldProf, newProf) {
				text += fmt.Sprintf("\n🎉 Новый уровень: <b>%d</b> — %s! Награда: %s",
					newProf.Level.Num, newProf.Level.Title, newProf.Level.Reward)
				congratulate(ctx, client, target.TgID)
			}
		}

		reply(ctx, client, msg.Chat.ID, text)
	}
}

func leveledUp(old, current services.Profile) bool {
	if current.Level == nil {
		return false
	}
	return old.Level == nil || current.Level.Num != old.Level.Num
}

// congratulate DMs the newly-leveled user. Best-effort: the user may have
// blocked the bot, and that must not fail the award.
func congratulate(ctx context.Context, client *tgbot.Bot, tgID int64) {
	_, err := client.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: tgID,
		Text:   "Поздравляем! У тебя новый уровень! Посмотри /me",
	})
	if err != nil {
		slog.Warn("Failed to deliver level-up congratulation",
			slog.String("type", "cmd"),
			slog.Int64("tg_id", tgID),
			slog.String("error", err.Error()))
	}
}
