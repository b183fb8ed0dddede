package repo

import (
	"context"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
)

// FetchScope identifies a DM partner or channel to fetch messages from.
type FetchScope struct {
	ChannelType domain.ChannelType
	Name        string // channel name or DM partner identifier
	Limit       int    // max messages to fetch, 0 for the extension default
}

// SlackRepo is the Slack message source interface
type SlackRepo interface {
	// FetchMessages fetches recent messages for one scope in chronological order
	FetchMessages(ctx context.Context, scope FetchScope) ([]domain.SlackMessage, error)

	// FetchConversation fetches the recent DM conversation with a user
	FetchConversation(ctx context.Context, userID string, limit int) ([]domain.SlackMessage, error)

	// Ping verifies the Slack extension is reachable
	Ping(ctx context.Context) error

	Close() error
}
