// internal/workers/dispatch/config.go
package dispatch

import "application-intake-bot/internal/common/config"

type Config struct {
	CommandName   string
	IntakeEnabled bool
	ReviewEnabled bool
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		CommandName:   cfg.Discord.CommandName,
		IntakeEnabled: config.IsWorkerEnabled(cfg, config.WorkerIntake),
		ReviewEnabled: config.IsWorkerEnabled(cfg, config.WorkerReview),
	}
}
