package services

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"

	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

const broadcastTopSize = 5

// MessageSender is the slice of the Telegram client the broadcast needs.
// Narrowed to an interface so tests can capture outgoing messages.
type MessageSender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*tgmodels.Message, error)
}

// BroadcastService posts the weekly and monthly top performers to the
// configured chat. It is fire-and-forget: the returned error is for the
// caller's log line only and must never fail the triggering operation.
type BroadcastService struct {
	leaderboard *LeaderboardService
	sender      MessageSender
	chatID      int64
}

func NewBroadcastService(leaderboard *LeaderboardService, sender MessageSender, chatID int64) *BroadcastService {
	return &BroadcastService{leaderboard: leaderboard, sender: sender, chatID: chatID}
}

func (s *BroadcastService) BroadcastHeroes(ctx context.Context) error {
	if s.chatID == 0 {
		return nil
	}

	var week, month []repositories.LeaderboardEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		week, err = s.leaderboard.Top(gctx, PeriodWeek, broadcastTopSize)
		return err
	})
	g.Go(func() (err error) {
		month, err = s.leaderboard.Top(gctx, PeriodMonth, broadcastTopSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load leaderboards for broadcast: %w", err)
	}

	text := formatHeroes(week, "Герои недели") + "\n\n" + formatHeroes(month, "Герои месяца")
	_, err := s.sender.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send broadcast: %w", err)
	}
	return nil
}

func formatHeroes(entries []repositories.LeaderboardEntry, title string) string {
	if len(entries) == 0 {
		return fmt.Sprintf("<b>%s</b>\nНет данных.", title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>", title)
	for i, e := range entries {
		fmt.Fprintf(&b, "\n%d. %s — %d XP", i+1, entryName(e), e.TotalXP)
	}
	return b.String()
}

func entryName(e repositories.LeaderboardEntry) string {
	if e.FullName != "" {
		return e.FullName
	}
	if e.Username != "" {
		return "@" + e.Username
	}
	return fmt.Sprintf("%d", e.TgID)
}
