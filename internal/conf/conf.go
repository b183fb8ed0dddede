package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/usecase"
)

// DefaultConfigPath is where the setup wizard writes the user configuration
const DefaultConfigPath = "config/user_config.json"

// Config represents application configuration
type Config struct {
	// User identity
	User UserConfig

	// Slack monitoring preferences
	Slack SlackConfig

	// Email notification preferences
	Email EmailConfig

	// Gmail credential location
	Gmail GmailConfig

	// MCP extension commands
	MCP MCPConfig

	// Summary configuration (optional)
	Summary SummaryConfig

	// Seen-store database path
	SeenDBPath string

	// Poll interval
	CheckInterval time.Duration

	// Max messages fetched per scope per cycle
	MaxMessagesPerCheck int
}

// UserConfig identifies the user being notified
type UserConfig struct {
	EmailAddress  string
	SlackUsername string
	SlackUserID   string
	Workspace     string
}

// SlackConfig contains Slack monitoring preferences
type SlackConfig struct {
	MonitorDMs        bool
	MonitorMentions   bool
	ChannelsToMonitor []string
}

// EmailConfig contains notification category preferences
type EmailConfig struct {
	Keywords           []string
	SendDMSummaries    bool
	SendChannelMention bool
	SendKeywordAlerts  bool
}

// GmailConfig contains Gmail credential configuration
type GmailConfig struct {
	CredentialsPath string
}

// MCPConfig contains the extension commands the bridge spawns
type MCPConfig struct {
	SlackCommand string
	GmailCommand string
}

// SummaryConfig contains the optional digest summary configuration
type SummaryConfig struct {
	APIKey string
	Model  string
}

// fileConfig mirrors the on-disk user_config.json layout. Legacy flat keys
// are read as fallbacks for configs written by older setups. Unknown keys
// are ignored.
type fileConfig struct {
	User struct {
		EmailAddress  string `json:"email_address"`
		SlackUsername string `json:"slack_username"`
		SlackUserID   string `json:"slack_user_id"`
		Workspace     string `json:"workspace"`
	} `json:"user"`
	Slack struct {
		MonitorDMs        *bool    `json:"monitor_dms"`
		MonitorMentions   *bool    `json:"monitor_mentions"`
		ChannelsToMonitor []string `json:"channels_to_monitor"`
	} `json:"slack"`
	Email struct {
		Keywords           []string `json:"keywords"`
		SendDMSummaries    *bool    `json:"send_dm_summaries"`
		SendChannelMention *bool    `json:"send_channel_mentions"`
		SendKeywordAlerts  *bool    `json:"send_keyword_alerts"`
	} `json:"email"`
	Gmail struct {
		CredentialsPath string `json:"credentials_path"`
	} `json:"gmail"`
	CheckInterval       int `json:"check_interval"`
	MaxMessagesPerCheck int `json:"max_messages_per_check"`

	// Legacy flat keys
	LegacyGmailAddress    string   `json:"gmail_address"`
	LegacySlackUserID     string   `json:"slack_user_id"`
	LegacyMonitorDMs      *bool    `json:"monitor_dms"`
	LegacyMonitorMentions *bool    `json:"monitor_mentions"`
	LegacyKeywords        []string `json:"mention_keywords"`
}

// Load reads the user configuration file and applies environment
// overrides. A missing file is a configuration error; run the setup
// command first.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigError{Field: "config file", Message: fmt.Sprintf("not found at %s, run the setup command first", path)}
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, &ConfigError{Field: "config file", Message: "invalid JSON: " + err.Error()}
	}

	cfg := fromFile(&fc)
	applyEnv(cfg)
	return cfg, nil
}

func fromFile(fc *fileConfig) *Config {
	cfg := &Config{
		User: UserConfig{
			EmailAddress:  firstNonEmpty(fc.User.EmailAddress, fc.LegacyGmailAddress),
			SlackUsername: fc.User.SlackUsername,
			SlackUserID:   firstNonEmpty(fc.User.SlackUserID, fc.LegacySlackUserID),
			Workspace:     fc.User.Workspace,
		},
		Slack: SlackConfig{
			MonitorDMs:        boolOr(fc.Slack.MonitorDMs, fc.LegacyMonitorDMs),
			MonitorMentions:   boolOr(fc.Slack.MonitorMentions, fc.LegacyMonitorMentions),
			ChannelsToMonitor: fc.Slack.ChannelsToMonitor,
		},
		Email: EmailConfig{
			Keywords:           fc.Email.Keywords,
			SendDMSummaries:    boolOr(fc.Email.SendDMSummaries, nil),
			SendChannelMention: boolOr(fc.Email.SendChannelMention, nil),
			SendKeywordAlerts:  boolOr(fc.Email.SendKeywordAlerts, nil),
		},
		Gmail: GmailConfig{
			CredentialsPath: expandHome(fc.Gmail.CredentialsPath),
		},
		CheckInterval:       300 * time.Second,
		MaxMessagesPerCheck: 10,
	}
	if len(fc.Email.Keywords) == 0 && len(fc.LegacyKeywords) > 0 {
		cfg.Email.Keywords = fc.LegacyKeywords
	}
	if fc.CheckInterval > 0 {
		cfg.CheckInterval = time.Duration(fc.CheckInterval) * time.Second
	}
	if fc.MaxMessagesPerCheck > 0 {
		cfg.MaxMessagesPerCheck = fc.MaxMessagesPerCheck
	}
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.MCP.SlackCommand = os.Getenv("SLACK_MCP_COMMAND")
	cfg.MCP.GmailCommand = os.Getenv("GMAIL_MCP_COMMAND")
	cfg.Summary.APIKey = os.Getenv("SUMMARY_API_KEY")
	cfg.Summary.Model = os.Getenv("SUMMARY_MODEL")

	cfg.SeenDBPath = os.Getenv("SEEN_DB_PATH")
	if cfg.SeenDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.SeenDBPath = filepath.Join(homeDir, ".slack-gmail-bridge", "seen.db")
	}

	if val := os.Getenv("CHECK_INTERVAL_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			cfg.CheckInterval = time.Duration(parsed) * time.Second
		}
	}
	if val := os.Getenv("GMAIL_CREDENTIALS_PATH"); val != "" {
		cfg.Gmail.CredentialsPath = expandHome(val)
	}
}

// Validate validates the configuration. Missing identity fields abort the
// run before any filtering happens.
func (c *Config) Validate() error {
	if c.User.EmailAddress == "" {
		return &ConfigError{Field: "user.email_address", Message: "required"}
	}
	if c.User.SlackUsername == "" {
		return &ConfigError{Field: "user.slack_username", Message: "required"}
	}
	return nil
}

// ToFilterConfig converts to the filter usecase configuration
func (c *Config) ToFilterConfig() usecase.FilterConfig {
	return usecase.FilterConfig{
		Username:        c.User.SlackUsername,
		MonitorDMs:      c.Slack.MonitorDMs,
		MonitorMentions: c.Slack.MonitorMentions,
		Keywords:        c.Email.Keywords,
		Channels:        c.Slack.ChannelsToMonitor,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// boolOr resolves a nested value over a legacy one; absent means false.
func boolOr(primary, legacy *bool) bool {
	if primary != nil {
		return *primary
	}
	if legacy != nil {
		return *legacy
	}
	return false
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
