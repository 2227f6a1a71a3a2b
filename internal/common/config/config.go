// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Discord       DiscordConfig           `mapstructure:"discord"`
	Registry      RegistryConfig          `mapstructure:"registry"`
	Review        ReviewConfig            `mapstructure:"review"`
	Audit         AuditConfig             `mapstructure:"audit"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Alerts        AlertsConfig            `mapstructure:"alerts"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// DiscordConfig identifies the bot and the channels it works in.
type DiscordConfig struct {
	Token                 string `mapstructure:"token"`
	ApplicationID         string `mapstructure:"application_id"`
	GuildID               string `mapstructure:"guild_id"`
	CommandChannelID      string `mapstructure:"command_channel_id"`
	ApplicationsChannelID string `mapstructure:"applications_channel_id"`
	CommandName           string `mapstructure:"command_name"`
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

type ReviewConfig struct {
	ReviewerRoleIDs []string     `mapstructure:"reviewer_role_ids"`
	NotifyRejected  bool         `mapstructure:"notify_rejected"`
	Colors          ColorsConfig `mapstructure:"colors"`
}

// ColorsConfig holds the embed color per record status.
type ColorsConfig struct {
	Pending  int `mapstructure:"pending"`
	Accepted int `mapstructure:"accepted"`
	Rejected int `mapstructure:"rejected"`
}

// Audit backends.
const (
	AuditBackendNone     = "none"
	AuditBackendPostgres = "postgres"
	AuditBackendRedis    = "redis"
	AuditBackendBoth     = "both"
)

type AuditConfig struct {
	Backend         string `mapstructure:"backend"`
	RedisKeyPrefix  string `mapstructure:"redis_key_prefix"`
	RedisMaxEntries int64  `mapstructure:"redis_max_entries"`
}

// UsesPostgres reports whether audit entries go to postgres.
func (a AuditConfig) UsesPostgres() bool {
	return a.Backend == AuditBackendPostgres || a.Backend == AuditBackendBoth
}

// UsesRedis reports whether audit entries go to redis.
func (a AuditConfig) UsesRedis() bool {
	return a.Backend == AuditBackendRedis || a.Backend == AuditBackendBoth
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the settings applicable to each flow.
type WorkerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds
}

// AlertsConfig holds the out-of-band notification channels.
type AlertsConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	SES struct {
		Enabled   bool     `mapstructure:"enabled"`
		FromEmail string   `mapstructure:"from_email"`
		ToEmails  []string `mapstructure:"to_emails"`
	} `mapstructure:"ses"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	MetricsAddr    string `mapstructure:"metrics_addr"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
