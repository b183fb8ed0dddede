package service

import (
	"context"
	"fmt"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
	"github.com/slackmail/slack-gmail-bridge/internal/biz/repo"
	"github.com/slackmail/slack-gmail-bridge/internal/biz/usecase"
)

// ConversationService retrieves one DM conversation and renders it as a
// digest, either previewed on stdout or mailed.
type ConversationService struct {
	slack    repo.SlackRepo
	mail     repo.MailRepo
	digestUC *usecase.DigestUsecase
}

// NewConversationService creates a new conversation service
func NewConversationService(slack repo.SlackRepo, mail repo.MailRepo) *ConversationService {
	return &ConversationService{
		slack:    slack,
		mail:     mail,
		digestUC: usecase.NewDigestUsecase(),
	}
}

// Retrieve fetches the recent conversation with userID and formats it.
// Every message is tagged as a DM; the seen set does not apply to one-shot
// retrieval.
func (s *ConversationService) Retrieve(ctx context.Context, userID string, limit int) (domain.EmailDigest, error) {
	messages, err := s.slack.FetchConversation(ctx, userID, limit)
	if err != nil {
		return domain.EmailDigest{}, fmt.Errorf("fetch conversation with %s: %w", userID, err)
	}

	candidates := make([]domain.NotificationCandidate, 0, len(messages))
	for _, msg := range messages {
		if !msg.IsValid() {
			continue
		}
		candidates = append(candidates, domain.NotificationCandidate{
			Message: msg,
			Reasons: []domain.Reason{domain.ReasonDM},
		})
	}

	return s.digestUC.Format(candidates), nil
}

// Deliver sends the digest, or prints it when send is false. An empty
// digest is never sent.
func (s *ConversationService) Deliver(ctx context.Context, digest domain.EmailDigest, recipient string, send bool) error {
	if digest.IsEmpty() {
		fmt.Println("[Conversation] No messages in conversation, nothing to deliver")
		return nil
	}
	if !send {
		fmt.Printf("Subject: %s\n\n%s", digest.Subject, digest.Body)
		return nil
	}
	if err := s.mail.Send(ctx, &digest, recipient); err != nil {
		return fmt.Errorf("send conversation digest: %w", err)
	}
	return nil
}
