package services

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

type capturingSender struct {
	sent    []*tgbot.SendMessageParams
	sendErr error
}

func (s *capturingSender) SendMessage(_ context.Context, params *tgbot.SendMessageParams) (*tgmodels.Message, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	s.sent = append(s.sent, params)
	return &tgmodels.Message{}, nil
}

func broadcastFixture(entries []repositories.LeaderboardEntry, chatID int64) (*BroadcastService, *capturingSender) {
	repo := &fakeSubmissionRepo{entries: entries}
	lb := NewLeaderboardService(repo, time.UTC)
	sender := &capturingSender{}
	return NewBroadcastService(lb, sender, chatID), sender
}

func TestBroadcastHeroesDisabledWithoutChat(t *testing.T) {
	svc, sender := broadcastFixture(nil, 0)

	require.NoError(t, svc.BroadcastHeroes(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestBroadcastHeroesSendsBothWindows(t *testing.T) {
	entries := []repositories.LeaderboardEntry{
		{TgID: 1, FullName: "Анна", TotalXP: 120},
		{TgID: 2, Username: "boris", TotalXP: 80},
		{TgID: 3, TotalXP: 40},
	}
	svc, sender := broadcastFixture(entries, -100500)

	require.NoError(t, svc.BroadcastHeroes(context.Background()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, int64(-100500), msg.ChatID)
	assert.Equal(t, tgmodels.ParseModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Герои недели")
	assert.Contains(t, msg.Text, "Герои месяца")
	assert.Contains(t, msg.Text, "1. Анна — 120 XP")
	assert.Contains(t, msg.Text, "2. @boris — 80 XP")
	assert.Contains(t, msg.Text, "3. 3 — 40 XP")
}

func TestBroadcastHeroesEmptyWindow(t *testing.T) {
	svc, sender := broadcastFixture(nil, 42)

	require.NoError(t, svc.BroadcastHeroes(context.Background()))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "Нет данных.")
}

func TestBroadcastHeroesReportsSendFailure(t *testing.T) {
	svc, sender := broadcastFixture(nil, 42)
	sender.sendErr = errors.New("chat not found")

	err := svc.BroadcastHeroes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestFormatHeroes(t *testing.T) {
	assert.Equal(t, "<b>Герои недели</b>\nНет данных.", formatHeroes(nil, "Герои недели"))

	got := formatHeroes([]repositories.LeaderboardEntry{
		{TgID: 1, Username: "alpha", TotalXP: 10},
	}, "Герои месяца")
	assert.Equal(t, "<b>Герои месяца</b>\n1. @alpha — 10 XP", got)
}
