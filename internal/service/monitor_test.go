package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
	"github.com/slackmail/slack-gmail-bridge/internal/biz/repo"
	"github.com/slackmail/slack-gmail-bridge/internal/conf"
)

// Mock implementations

type mockSlackRepo struct {
	messages map[string][]domain.SlackMessage // keyed by scope name, "" for DMs
	err      error
}

func (m *mockSlackRepo) FetchMessages(ctx context.Context, scope repo.FetchScope) ([]domain.SlackMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.messages[scope.Name], nil
}

func (m *mockSlackRepo) FetchConversation(ctx context.Context, userID string, limit int) ([]domain.SlackMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	msgs := m.messages[userID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (m *mockSlackRepo) Ping(ctx context.Context) error { return m.err }
func (m *mockSlackRepo) Close() error                   { return nil }

type mockMailRepo struct {
	sent []domain.EmailDigest
	err  error
}

func (m *mockMailRepo) Send(ctx context.Context, digest *domain.EmailDigest, recipient string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, *digest)
	return nil
}

func (m *mockMailRepo) Ping(ctx context.Context) error { return nil }
func (m *mockMailRepo) Close() error                   { return nil }

type mockSummaryRepo struct {
	text string
	err  error
}

func (m *mockSummaryRepo) Summarize(ctx context.Context, body string) (string, error) {
	return m.text, m.err
}

func monitorConfig() *conf.Config {
	return &conf.Config{
		User: conf.UserConfig{
			EmailAddress:  "me@example.com",
			SlackUsername: "alice",
		},
		Slack: conf.SlackConfig{
			MonitorDMs:        true,
			MonitorMentions:   true,
			ChannelsToMonitor: []string{"general"},
		},
		Email: conf.EmailConfig{
			Keywords:           []string{"urgent"},
			SendDMSummaries:    true,
			SendChannelMention: true,
			SendKeywordAlerts:  true,
		},
		CheckInterval:       time.Minute,
		MaxMessagesPerCheck: 10,
	}
}

func dmAt(id, sender, text string, ts time.Time) domain.SlackMessage {
	return domain.SlackMessage{
		ID:          id,
		Channel:     sender,
		ChannelType: domain.ChannelTypeDM,
		Sender:      sender,
		Text:        text,
		Timestamp:   ts,
	}
}

func TestMonitor_LiveCycleSendsDigest(t *testing.T) {
	slack := &mockSlackRepo{messages: map[string][]domain.SlackMessage{
		"": {dmAt("1", "bob", "hello", time.Now())},
	}}
	mail := &mockMailRepo{}

	svc := NewMonitorService(monitorConfig(), slack, mail, domain.NewMemorySeenSet(), nil, ModeLive)
	svc.runCycle()

	if len(mail.sent) != 1 {
		t.Fatalf("Expected 1 sent digest, got %d", len(mail.sent))
	}
	if mail.sent[0].Subject != "[Slack] 1 new direct message" {
		t.Errorf("Unexpected subject: %q", mail.sent[0].Subject)
	}
}

func TestMonitor_TestModeSuppressesSend(t *testing.T) {
	slack := &mockSlackRepo{messages: map[string][]domain.SlackMessage{
		"": {dmAt("1", "bob", "hello", time.Now())},
	}}
	mail := &mockMailRepo{}

	svc := NewMonitorService(monitorConfig(), slack, mail, domain.NewMemorySeenSet(), nil, ModeTest)
	svc.runCycle()

	if len(mail.sent) != 0 {
		t.Errorf("Test mode must not send, got %d digests", len(mail.sent))
	}
}

func TestMonitor_NoDuplicateSendsAcrossCycles(t *testing.T) {
	slack := &mockSlackRepo{messages: map[string][]domain.SlackMessage{
		"": {dmAt("1", "bob", "hello", time.Now())},
	}}
	mail := &mockMailRepo{}

	svc := NewMonitorService(monitorConfig(), slack, mail, domain.NewMemorySeenSet(), nil, ModeLive)
	svc.runCycle()
	svc.runCycle()

	if len(mail.sent) != 1 {
		t.Errorf("Expected re-polled batch to send once, got %d digests", len(mail.sent))
	}
}

func TestMonitor_FetchFailureSkipsCycle(t *testing.T) {
	slack := &mockSlackRepo{err: domain.ErrCollaboratorUnavailable}
	mail := &mockMailRepo{}
	seen := domain.NewMemorySeenSet()

	svc := NewMonitorService(monitorConfig(), slack, mail, seen, nil, ModeLive)
	svc.runCycle()

	if len(mail.sent) != 0 {
		t.Error("Cycle with failed fetch must not send")
	}
	if seen.Len() != 0 {
		t.Error("Failed fetch must not touch the seen set")
	}
}

func TestMonitor_ChannelFetchFailureAbortsWholeBatch(t *testing.T) {
	// DMs fetch fine but the channel fetch fails; the filter must never
	// run on partial data.
	slack := &mockSlackRepo{messages: map[string][]domain.SlackMessage{
		"": {dmAt("1", "bob", "hello", time.Now())},
	}}
	mail := &mockMailRepo{}

	cfg := monitorConfig()
	svc := NewMonitorService(cfg, slack, mail, domain.NewMemorySeenSet(), nil, ModeLive)

	slack.err = errors.New("channel fetch failed")
	svc.runCycle()

	if len(mail.sent) != 0 {
		t.Error("Partial fetch must not produce a send")
	}
}

func TestMonitor_CategoryTogglesGateSends(t *testing.T) {
	slack := &mockSlackRepo{messages: map[string][]domain.SlackMessage{
		"": {dmAt("1", "bob", "hello", time.Now())},
	}}
	mail := &mockMailRepo{}

	cfg := monitorConfig()
	cfg.Email.SendDMSummaries = false

	svc := NewMonitorService(cfg, slack, mail, domain.NewMemorySeenSet(), nil, ModeLive)
	svc.runCycle()

	if len(mail.sent) != 0 {
		t.Errorf("DM summaries disabled, expected no send, got %d", len(mail.sent))
	}
}

func TestMonitor_CategoryGateKeepsOtherReasons(t *testing.T) {
	slack := &mockSlackRepo{messages: map[string][]domain.SlackMessage{
		"": {dmAt("1", "bob", "urgent: prod is down", time.Now())},
	}}
	mail := &mockMailRepo{}

	cfg := monitorConfig()
	cfg.Email.SendDMSummaries = false // keyword alerts stay on

	svc := NewMonitorService(cfg, slack, mail, domain.NewMemorySeenSet(), nil, ModeLive)
	svc.runCycle()

	if len(mail.sent) != 1 {
		t.Fatalf("Keyword-tagged DM should still send, got %d digests", len(mail.sent))
	}
}

func TestMonitor_SummaryPrepended(t *testing.T) {
	slack := &mockSlackRepo{messages: map[string][]domain.SlackMessage{
		"": {dmAt("1", "bob", "hello", time.Now())},
	}}
	mail := &mockMailRepo{}
	summary := &mockSummaryRepo{text: "Bob said hello."}

	svc := NewMonitorService(monitorConfig(), slack, mail, domain.NewMemorySeenSet(), summary, ModeLive)
	svc.runCycle()

	if len(mail.sent) != 1 {
		t.Fatalf("Expected 1 sent digest, got %d", len(mail.sent))
	}
	if !strings.HasPrefix(mail.sent[0].Body, "Summary: Bob said hello.") {
		t.Errorf("Expected summary prefix, got:\n%s", mail.sent[0].Body)
	}
}

func TestMonitor_SummaryFailureStillSends(t *testing.T) {
	slack := &mockSlackRepo{messages: map[string][]domain.SlackMessage{
		"": {dmAt("1", "bob", "hello", time.Now())},
	}}
	mail := &mockMailRepo{}
	summary := &mockSummaryRepo{err: errors.New("rate limited")}

	svc := NewMonitorService(monitorConfig(), slack, mail, domain.NewMemorySeenSet(), summary, ModeLive)
	svc.runCycle()

	if len(mail.sent) != 1 {
		t.Fatalf("Summary failure must not block the send, got %d digests", len(mail.sent))
	}
	if strings.Contains(mail.sent[0].Body, "Summary:") {
		t.Error("Failed summary must not appear in the body")
	}
}

func TestMonitor_StartStop(t *testing.T) {
	slack := &mockSlackRepo{}
	mail := &mockMailRepo{}

	cfg := monitorConfig()
	cfg.CheckInterval = time.Hour // only the initial cycle runs

	svc := NewMonitorService(cfg, slack, mail, domain.NewMemorySeenSet(), nil, ModeTest)
	svc.Start()
	svc.Stop()

	// Stop again is a no-op
	svc.Stop()
}
