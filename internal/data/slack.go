package data

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
	"github.com/slackmail/slack-gmail-bridge/internal/biz/repo"
	"github.com/slackmail/slack-gmail-bridge/internal/mcp"
)

// Tool names exposed by the Slack extension
const (
	toolSlackFetchMessages     = "slack_fetch_messages"
	toolSlackFetchConversation = "slack_fetch_conversation"
)

// slackRepo implements the Slack message source via the MCP extension
type slackRepo struct {
	client *mcp.Client
}

// NewSlackRepo creates a Slack repository backed by a connected extension
func NewSlackRepo(client *mcp.Client) repo.SlackRepo {
	return &slackRepo{client: client}
}

// wireMessage is the extension's message record
type wireMessage struct {
	ID          string `json:"id"`
	Channel     string `json:"channel"`
	ChannelType string `json:"channel_type"`
	User        string `json:"user"`
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"`
}

// FetchMessages fetches recent messages for one scope in chronological order
func (r *slackRepo) FetchMessages(ctx context.Context, scope repo.FetchScope) ([]domain.SlackMessage, error) {
	var result struct {
		Messages []wireMessage `json:"messages"`
	}
	args := map[string]any{
		"scope_type": string(scope.ChannelType),
		"scope":      scope.Name,
	}
	if scope.Limit > 0 {
		args["limit"] = scope.Limit
	}
	if err := r.client.CallJSON(ctx, toolSlackFetchMessages, args, &result); err != nil {
		return nil, err
	}
	return toDomainMessages(result.Messages), nil
}

// FetchConversation fetches the recent DM conversation with a user
func (r *slackRepo) FetchConversation(ctx context.Context, userID string, limit int) ([]domain.SlackMessage, error) {
	var result struct {
		Messages []wireMessage `json:"messages"`
	}
	args := map[string]any{"user": userID}
	if limit > 0 {
		args["limit"] = limit
	}
	if err := r.client.CallJSON(ctx, toolSlackFetchConversation, args, &result); err != nil {
		return nil, err
	}
	return toDomainMessages(result.Messages), nil
}

// Ping verifies the Slack extension is reachable
func (r *slackRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func (r *slackRepo) Close() error {
	return r.client.Close()
}

func toDomainMessages(wire []wireMessage) []domain.SlackMessage {
	messages := make([]domain.SlackMessage, 0, len(wire))
	for _, w := range wire {
		channelType := domain.ChannelTypeChannel
		if w.ChannelType == "dm" || w.ChannelType == "im" {
			channelType = domain.ChannelTypeDM
		}
		messages = append(messages, domain.SlackMessage{
			ID:          w.ID,
			Channel:     w.Channel,
			ChannelType: channelType,
			Sender:      w.User,
			Text:        w.Text,
			Timestamp:   parseTimestamp(w.Timestamp),
		})
	}
	return messages
}

// parseTimestamp accepts RFC 3339 timestamps and Slack's
// "1757011169.684219" epoch form.
func parseTimestamp(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	secs := raw
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		secs = raw[:i]
	}
	if epoch, err := strconv.ParseInt(secs, 10, 64); err == nil {
		return time.Unix(epoch, 0)
	}
	return time.Time{}
}
