// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimal = `
discord:
  token: ${TEST_DISCORD_TOKEN}
  application_id: "100"
  guild_id: "200"
  applications_channel_id: "300"
`

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_DISCORD_TOKEN", "secret-token")

	cfg, err := LoadFromFile(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Discord.Token)
	assert.Equal(t, "apply", cfg.Discord.CommandName)
	assert.Equal(t, "configs/application-types.json", cfg.Registry.Path)
	assert.Equal(t, AuditBackendNone, cfg.Audit.Backend)
	assert.Equal(t, 0x00ff00, cfg.Review.Colors.Pending)
	assert.Equal(t, 0xff0000, cfg.Review.Colors.Rejected)
	assert.Equal(t, ":9090", cfg.Observability.MetricsAddr)
	assert.True(t, IsWorkerEnabled(cfg, WorkerIntake))
	assert.Equal(t, 10000, GetWorkerConfig(cfg, WorkerReview).Timeout)
}

func TestLoadFromFile_FullDocument(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
discord:
  token: t
  application_id: "100"
  guild_id: "200"
  command_channel_id: "250"
  applications_channel_id: "300"
review:
  reviewer_role_ids: ["900", "901"]
  notify_rejected: true
audit:
  backend: both
database:
  postgres:
    host: localhost
    database: intake
    user: bot
  redis:
    address: localhost:6379
workers:
  review:
    enabled: false
    timeout: 2500
alerts:
  sns:
    enabled: true
    topic_arn: arn:aws:sns:us-east-1:1:decisions
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"900", "901"}, cfg.Review.ReviewerRoleIDs)
	assert.True(t, cfg.Review.NotifyRejected)
	assert.True(t, cfg.Audit.UsesPostgres())
	assert.True(t, cfg.Audit.UsesRedis())
	assert.False(t, IsWorkerEnabled(cfg, WorkerReview))
	assert.Equal(t, 2500, cfg.Workers[WorkerReview].Timeout)
	assert.Equal(t, "host=localhost port=5432 user=bot password= dbname=intake sslmode=disable",
		cfg.Database.Postgres.GetDSN())
}

func TestLoadFromFile_Validation(t *testing.T) {
	base := `
discord:
  token: t
  application_id: "100"
  guild_id: "200"
  applications_channel_id: "300"
`
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing channel",
			body:    "discord:\n  token: t\n  application_id: \"1\"\n  guild_id: \"2\"\n",
			wantErr: "discord.applications_channel_id is required",
		},
		{
			name:    "unknown audit backend",
			body:    base + "audit:\n  backend: mongo\n",
			wantErr: "audit.backend must be one of",
		},
		{
			name:    "postgres audit without host",
			body:    base + "audit:\n  backend: postgres\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "redis audit without address",
			body:    base + "audit:\n  backend: redis\n",
			wantErr: "database.redis.address is required",
		},
		{
			name:    "ses without recipients",
			body:    base + "alerts:\n  ses:\n    enabled: true\n    from_email: bot@example.com\n",
			wantErr: "alerts.ses.to_emails is required",
		},
		{
			name:    "sns without topic",
			body:    base + "alerts:\n  sns:\n    enabled: true\n",
			wantErr: "alerts.sns.topic_arn is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
}
