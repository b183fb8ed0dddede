package repo

import (
	"context"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
)

// MailRepo is the mail sender interface
type MailRepo interface {
	// Send delivers a digest to the recipient. Failure is reported upward,
	// not retried here.
	Send(ctx context.Context, digest *domain.EmailDigest, recipient string) error

	// Ping verifies the Gmail extension is reachable
	Ping(ctx context.Context) error

	Close() error
}
