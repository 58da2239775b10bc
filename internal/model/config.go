package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// MailboxConfig holds the IMAP/SMTP settings for the campaign mailbox.
type MailboxConfig struct {
	IMAPHost string `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort string `mapstructure:"imap_port" yaml:"imap_port"`
	SMTPHost string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort string `mapstructure:"smtp_port" yaml:"smtp_port"`

	// Username is the mailbox login and the From address for all
	// outgoing mail.
	Username string `mapstructure:"username" yaml:"username"`

	// Owner receives discovery digests and escalation alerts.
	// Defaults to Username when empty.
	Owner string `mapstructure:"owner" yaml:"owner"`

	// Folder is the mailbox searched for replies.
	Folder string `mapstructure:"folder" yaml:"folder"`

	TLS bool `mapstructure:"tls" yaml:"tls"`

	// WebmailLinkTemplate builds a deep link to a message from its
	// Message-ID, e.g.
	// "https://mail.google.com/mail/u/0/#search/rfc822msgid:%s".
	// Empty disables link generation.
	WebmailLinkTemplate string `mapstructure:"webmail_link_template" yaml:"webmail_link_template"`
}

// AIConfig holds settings for the draft generator integration. The
// endpoint must be OpenAI Chat Completions compatible.
type AIConfig struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// StorageConfig holds the locations of the durable stores.
type StorageConfig struct {
	// DataDir is the directory holding every file-backed store and the
	// campaign database.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// ProcessingConfig holds the reply-processing policy knobs.
type ProcessingConfig struct {
	// SuppressionWindowHours is how long after a manual-handling event
	// automated processing of that recipient is skipped.
	SuppressionWindowHours int `mapstructure:"suppression_window_hours" yaml:"suppression_window_hours"`

	// HistoryLimit is how many recent conversation entries are fed to
	// the draft generator.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`
}

// ScheduleConfig holds cron expressions for the serve command.
type ScheduleConfig struct {
	Track   string `mapstructure:"track" yaml:"track"`
	Respond string `mapstructure:"respond" yaml:"respond"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Mailbox    MailboxConfig    `mapstructure:"mailbox" yaml:"mailbox"`
	AI         AIConfig         `mapstructure:"ai" yaml:"ai"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" yaml:"schedule"`
}

// SuppressionWindow returns the configured suppression window as a
// duration.
func (c *AppConfig) SuppressionWindow() time.Duration {
	return time.Duration(c.Processing.SuppressionWindowHours) * time.Hour
}

// OwnerAddress returns the escalation recipient, falling back to the
// mailbox username.
func (c *AppConfig) OwnerAddress() string {
	if c.Mailbox.Owner != "" {
		return c.Mailbox.Owner
	}
	return c.Mailbox.Username
}

// Store file locations inside the data directory.

func (c *AppConfig) PendingRepliesPath() string {
	return filepath.Join(c.Storage.DataDir, "replies.json")
}

func (c *AppConfig) ConversationLogPath() string {
	return filepath.Join(c.Storage.DataDir, "conversation_log.json")
}

func (c *AppConfig) HandlingLogPath() string {
	return filepath.Join(c.Storage.DataDir, "handling_log.jsonl")
}

func (c *AppConfig) SendLedgerPath() string {
	return filepath.Join(c.Storage.DataDir, "send_ledger.jsonl")
}

func (c *AppConfig) StatusLogPath() string {
	return filepath.Join(c.Storage.DataDir, "reply_status.log")
}

func (c *AppConfig) DatabasePath() string {
	return filepath.Join(c.Storage.DataDir, "campaigns.db")
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/smartreach/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "smartreach", "config.yaml")
}

// defaultDataDir returns ~/.local/share/smartreach, falling back to a
// relative directory when the home directory cannot be resolved.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "smartreach-data")
	}
	return filepath.Join(home, ".local", "share", "smartreach")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Mailbox: MailboxConfig{
			IMAPHost: "imap.gmail.com",
			IMAPPort: "993",
			SMTPHost: "smtp.gmail.com",
			SMTPPort: "465",
			Folder:   "INBOX",
			TLS:      true,
		},
		AI: AIConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Processing: ProcessingConfig{
			SuppressionWindowHours: 24,
			HistoryLimit:           3,
		},
		Schedule: ScheduleConfig{
			Track:   "@every 10m",
			Respond: "@every 15m",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default
// configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("mailbox.imap_host", "imap.gmail.com")
	v.SetDefault("mailbox.imap_port", "993")
	v.SetDefault("mailbox.smtp_host", "smtp.gmail.com")
	v.SetDefault("mailbox.smtp_port", "465")
	v.SetDefault("mailbox.folder", "INBOX")
	v.SetDefault("mailbox.tls", true)
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("storage.data_dir", defaultDataDir())
	v.SetDefault("processing.suppression_window_hours", 24)
	v.SetDefault("processing.history_limit", 3)
	v.SetDefault("schedule.track", "@every 10m")
	v.SetDefault("schedule.respond", "@every 15m")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("mailbox", cfg.Mailbox)
	v.Set("ai", cfg.AI)
	v.Set("storage", cfg.Storage)
	v.Set("processing", cfg.Processing)
	v.Set("schedule", cfg.Schedule)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
