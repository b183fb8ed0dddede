package usecase

import (
	"fmt"
	"strings"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
)

const digestTimeLayout = "2006-01-02 15:04 MST"

// DigestUsecase renders qualifying messages into an email digest.
// Formatting is pure; output is deterministic for a given input sequence.
type DigestUsecase struct{}

// NewDigestUsecase creates a new digest usecase
func NewDigestUsecase() *DigestUsecase {
	return &DigestUsecase{}
}

// Format renders candidates into a digest in input order. Empty input
// yields the empty sentinel; callers must skip sending it.
func (uc *DigestUsecase) Format(candidates []domain.NotificationCandidate) domain.EmailDigest {
	if len(candidates) == 0 {
		return domain.EmailDigest{}
	}

	digest := domain.EmailDigest{
		Subject: subjectFor(candidates),
	}

	var sb strings.Builder
	sb.WriteString("Slack activity digest\n")
	sb.WriteString(fmt.Sprintf("%d message(s) matched your notification settings.\n\n", len(candidates)))

	for _, cand := range candidates {
		msg := cand.Message
		if msg.IsDM() {
			sb.WriteString(fmt.Sprintf("From: %s (direct message)\n", msg.Sender))
		} else {
			sb.WriteString(fmt.Sprintf("From: %s in #%s\n", msg.Sender, msg.Channel))
		}
		sb.WriteString(fmt.Sprintf("Time: %s\n", msg.Timestamp.UTC().Format(digestTimeLayout)))
		sb.WriteString(fmt.Sprintf("Matched: %s\n", joinReasons(cand.Reasons)))
		sb.WriteString(msg.Text)
		sb.WriteString("\n\n")

		digest.MessageIDs = append(digest.MessageIDs, msg.ID)
	}

	sb.WriteString("---\n")
	sb.WriteString("This digest was automatically forwarded from Slack.\n")

	digest.Body = sb.String()
	return digest
}

// subjectFor encodes count and primary reason. When reasons are mixed the
// subject falls back to a generic Slack activity line.
func subjectFor(candidates []domain.NotificationCandidate) string {
	n := len(candidates)

	uniform := func(r domain.Reason) bool {
		for i := range candidates {
			if !candidates[i].OnlyReason(r) {
				return false
			}
		}
		return true
	}

	switch {
	case uniform(domain.ReasonDM):
		return fmt.Sprintf("[Slack] %d new direct %s", n, plural(n, "message", "messages"))
	case uniform(domain.ReasonMention):
		return fmt.Sprintf("[Slack] %d new %s", n, plural(n, "mention", "mentions"))
	case uniform(domain.ReasonKeyword):
		return fmt.Sprintf("[Slack] %d keyword %s", n, plural(n, "alert", "alerts"))
	default:
		return fmt.Sprintf("[Slack] %d new %s", n, plural(n, "message", "messages"))
	}
}

func joinReasons(reasons []domain.Reason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
