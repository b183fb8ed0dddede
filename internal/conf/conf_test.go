package conf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_config.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"user": {
			"email_address": "me@example.com",
			"slack_username": "alice",
			"slack_user_id": "U123",
			"workspace": "acme"
		},
		"slack": {
			"monitor_dms": true,
			"monitor_mentions": true,
			"channels_to_monitor": ["general", "eng"]
		},
		"email": {
			"keywords": ["urgent", "outage"],
			"send_dm_summaries": true,
			"send_channel_mentions": true,
			"send_keyword_alerts": true
		},
		"check_interval": 60
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.User.EmailAddress != "me@example.com" {
		t.Errorf("Unexpected email: %q", cfg.User.EmailAddress)
	}
	if cfg.CheckInterval != 60*time.Second {
		t.Errorf("Unexpected interval: %v", cfg.CheckInterval)
	}
	if diff := cmp.Diff([]string{"general", "eng"}, cfg.Slack.ChannelsToMonitor); diff != "" {
		t.Errorf("Channels mismatch (-want +got):\n%s", diff)
	}

	fc := cfg.ToFilterConfig()
	if fc.Username != "alice" || !fc.MonitorDMs || !fc.MonitorMentions {
		t.Errorf("ToFilterConfig mismatch: %+v", fc)
	}
}

func TestLoad_LegacyFlatKeys(t *testing.T) {
	path := writeTempConfig(t, `{
		"gmail_address": "old@example.com",
		"slack_user_id": "U999",
		"monitor_dms": true,
		"mention_keywords": ["deploy"],
		"user": {"slack_username": "bob"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.User.EmailAddress != "old@example.com" {
		t.Errorf("Legacy gmail_address not picked up: %q", cfg.User.EmailAddress)
	}
	if cfg.User.SlackUserID != "U999" {
		t.Errorf("Legacy slack_user_id not picked up: %q", cfg.User.SlackUserID)
	}
	if !cfg.Slack.MonitorDMs {
		t.Error("Legacy monitor_dms not picked up")
	}
	if diff := cmp.Diff([]string{"deploy"}, cfg.Email.Keywords); diff != "" {
		t.Errorf("Legacy keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DefaultsWhenAbsent(t *testing.T) {
	path := writeTempConfig(t, `{
		"user": {"email_address": "me@example.com", "slack_username": "alice"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Slack.MonitorDMs || cfg.Slack.MonitorMentions {
		t.Error("Boolean fields must default to false")
	}
	if len(cfg.Email.Keywords) != 0 || len(cfg.Slack.ChannelsToMonitor) != 0 {
		t.Error("List fields must default to empty")
	}
	if cfg.CheckInterval != 300*time.Second {
		t.Errorf("Unexpected default interval: %v", cfg.CheckInterval)
	}
	if cfg.MaxMessagesPerCheck != 10 {
		t.Errorf("Unexpected default max messages: %d", cfg.MaxMessagesPerCheck)
	}
}

func TestLoad_UnknownKeysIgnored(t *testing.T) {
	path := writeTempConfig(t, `{
		"user": {"email_address": "me@example.com", "slack_username": "alice"},
		"future_feature": {"enabled": true}
	}`)

	if _, err := Load(path); err != nil {
		t.Fatalf("Load must ignore unknown keys, got: %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		field string
	}{
		{"missing email", `{"user": {"slack_username": "alice"}}`, "user.email_address"},
		{"missing username", `{"user": {"email_address": "me@example.com"}}`, "user.slack_username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeTempConfig(t, tt.json))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			err = cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Expected field %q in error, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError for missing file, got %v", err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, `{not json`)

	_, err := Load(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError for invalid JSON, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `{
		"user": {"email_address": "me@example.com", "slack_username": "alice"}
	}`)

	t.Setenv("SLACK_MCP_COMMAND", "slack-mcp --stdio")
	t.Setenv("GMAIL_MCP_COMMAND", "gmail-mcp")
	t.Setenv("CHECK_INTERVAL_SECONDS", "45")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MCP.SlackCommand != "slack-mcp --stdio" {
		t.Errorf("Unexpected slack command: %q", cfg.MCP.SlackCommand)
	}
	if cfg.MCP.GmailCommand != "gmail-mcp" {
		t.Errorf("Unexpected gmail command: %q", cfg.MCP.GmailCommand)
	}
	if cfg.CheckInterval != 45*time.Second {
		t.Errorf("Env interval override not applied: %v", cfg.CheckInterval)
	}
}
