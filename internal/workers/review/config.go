// internal/workers/review/config.go
package review

import (
	"time"

	"application-intake-bot/internal/common/config"
)

type Config struct {
	GuildID               string
	ApplicationsChannelID string
	// ReviewerRoleIDs gates the decision controls; empty lets anyone who
	// can see them decide.
	ReviewerRoleIDs []string
	NotifyRejected  bool
	Timeout         time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	worker := config.GetWorkerConfig(cfg, config.WorkerReview)
	return &Config{
		GuildID:               cfg.Discord.GuildID,
		ApplicationsChannelID: cfg.Discord.ApplicationsChannelID,
		ReviewerRoleIDs:       cfg.Review.ReviewerRoleIDs,
		NotifyRejected:        cfg.Review.NotifyRejected,
		Timeout:               config.GetDuration(worker.Timeout),
	}
}
