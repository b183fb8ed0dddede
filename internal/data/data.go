package data

import (
	"context"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/repo"
	"github.com/slackmail/slack-gmail-bridge/internal/conf"
	"github.com/slackmail/slack-gmail-bridge/internal/mcp"
)

// Repositories contains all repositories
type Repositories struct {
	Slack   repo.SlackRepo
	Mail    repo.MailRepo
	Seen    repo.SeenRepo
	Summary repo.SummaryRepo // nil when no summary API key is configured
}

// NewRepositories connects both extensions and opens the seen store
func NewRepositories(ctx context.Context, cfg *conf.Config) (*Repositories, error) {
	slackClient, err := mcp.Connect(ctx, "slack", cfg.MCP.SlackCommand)
	if err != nil {
		return nil, err
	}

	gmailClient, err := mcp.Connect(ctx, "gmail", cfg.MCP.GmailCommand)
	if err != nil {
		slackClient.Close()
		return nil, err
	}

	seenRepo, err := NewSeenRepo(cfg.SeenDBPath)
	if err != nil {
		slackClient.Close()
		gmailClient.Close()
		return nil, err
	}

	repos := &Repositories{
		Slack: NewSlackRepo(slackClient),
		Mail:  NewGmailRepo(gmailClient),
		Seen:  seenRepo,
	}
	if cfg.Summary.APIKey != "" {
		repos.Summary = NewSummaryRepo(cfg.Summary.APIKey, cfg.Summary.Model)
	}
	return repos, nil
}

// Close shuts down all repositories
func (r *Repositories) Close() {
	if r.Slack != nil {
		r.Slack.Close()
	}
	if r.Mail != nil {
		r.Mail.Close()
	}
	if r.Seen != nil {
		r.Seen.Close()
	}
}
