package data

import (
	"context"
	"fmt"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
	"github.com/slackmail/slack-gmail-bridge/internal/biz/repo"
	"github.com/slackmail/slack-gmail-bridge/internal/mcp"
)

const toolGmailSendEmail = "gmail_send_email"

// gmailRepo implements the mail sender via the Gmail MCP extension
type gmailRepo struct {
	client *mcp.Client
}

// NewGmailRepo creates a mail repository backed by a connected extension
func NewGmailRepo(client *mcp.Client) repo.MailRepo {
	return &gmailRepo{client: client}
}

// Send delivers a digest to the recipient
func (r *gmailRepo) Send(ctx context.Context, digest *domain.EmailDigest, recipient string) error {
	var result struct {
		Status    string `json:"status"`
		MessageID string `json:"message_id"`
	}
	err := r.client.CallJSON(ctx, toolGmailSendEmail, map[string]any{
		"to":      recipient,
		"subject": digest.Subject,
		"body":    digest.Body,
	}, &result)
	if err != nil {
		return err
	}
	if result.Status != "" && result.Status != "sent" {
		return fmt.Errorf("gmail: send returned status %q", result.Status)
	}
	fmt.Printf("[Gmail] Sent %q to %s\n", digest.Subject, recipient)
	return nil
}

// Ping verifies the Gmail extension is reachable
func (r *gmailRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func (r *gmailRepo) Close() error {
	return r.client.Close()
}
