package plgbot

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/plgteam/plgbot/plgbot/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Bot     BotConfig         `toml:"bot"`
	DB      database.DBConfig `toml:"db"`
	Catalog CatalogConfig     `toml:"catalog"`
}

type BotConfig struct {
	Token           string  `toml:"token"`
	WebhookBase     string  `toml:"webhook_base"`
	WebhookSecret   string  `toml:"webhook_secret"`
	ListenAddr      string  `toml:"listen_addr"`
	SuperAdminID    int64   `toml:"super_admin_id"`
	ManagerIDs      []int64 `toml:"manager_ids"`
	BroadcastChatID int64   `toml:"broadcast_chat_id"`
	BroadcastHour   int     `toml:"broadcast_hour"`
	Timezone        string  `toml:"timezone"`
}

// WebhookURL derives the full receiver URL from the configured base and
// secret; empty when no base is configured.
func (c BotConfig) WebhookURL() string {
	if c.WebhookBase == "" {
		return ""
	}
	return strings.TrimRight(c.WebhookBase, "/") + "/webhook/" + c.WebhookSecret
}

// Location resolves the configured timezone, which governs leaderboard
// window boundaries and the daily broadcast firing time.
func (c BotConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type CatalogConfig struct {
	TaskFiles  []string     `toml:"task_files"`
	LevelFiles []string     `toml:"level_files"`
	Spaces     SpacesConfig `toml:"spaces"`
}

type SpacesConfig struct {
	Key    string   `toml:"key"`
	Secret string   `toml:"secret"`
	Region string   `toml:"region"`
	Bucket string   `toml:"bucket"`
	Keys   []string `toml:"keys"`
}

func (s SpacesConfig) Enabled() bool {
	return s.Bucket != "" && len(s.Keys) > 0
}
