// internal/workers/intake/config.go
package intake

import (
	"time"

	"application-intake-bot/internal/common/config"
)

type Config struct {
	GuildID               string
	CommandChannelID      string
	ApplicationsChannelID string
	Timeout               time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	worker := config.GetWorkerConfig(cfg, config.WorkerIntake)
	return &Config{
		GuildID:               cfg.Discord.GuildID,
		CommandChannelID:      cfg.Discord.CommandChannelID,
		ApplicationsChannelID: cfg.Discord.ApplicationsChannelID,
		Timeout:               config.GetDuration(worker.Timeout),
	}
}
