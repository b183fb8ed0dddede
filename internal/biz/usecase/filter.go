package usecase

import (
	"strings"
	"unicode"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
)

// FilterConfig contains the monitoring preferences the filter acts on
type FilterConfig struct {
	Username        string   // Slack username, used for mention detection
	MonitorDMs      bool
	MonitorMentions bool
	Keywords        []string // case-insensitive keyword matches
	Channels        []string // channels to monitor; empty means all channels
}

// FilterResult is one filter pass over a message batch
type FilterResult struct {
	Candidates []domain.NotificationCandidate
	Skipped    int // malformed records dropped from the batch
}

// FilterUsecase decides which Slack messages become email notifications.
// It is pure: no network calls, all decisions are made on already-fetched
// data and configuration.
type FilterUsecase struct {
	cfg FilterConfig
}

// NewFilterUsecase creates a new filter usecase
func NewFilterUsecase(cfg FilterConfig) *FilterUsecase {
	return &FilterUsecase{cfg: cfg}
}

// Filter evaluates a batch of messages against the configuration and the
// seen set. Input order is preserved. Every well-formed message identifier
// is added to seen after evaluation, so re-running an identical batch
// yields an empty result.
func (uc *FilterUsecase) Filter(messages []domain.SlackMessage, seen domain.SeenSet) FilterResult {
	var result FilterResult

	for _, msg := range messages {
		if !msg.IsValid() {
			result.Skipped++
			continue
		}
		if seen.Contains(msg.ID) {
			continue
		}
		seen.Add(msg.ID)

		reasons := uc.qualify(&msg)
		if len(reasons) == 0 {
			continue
		}

		result.Candidates = append(result.Candidates, domain.NotificationCandidate{
			Message: msg,
			Reasons: reasons,
		})
	}

	return result
}

// qualify returns the reasons a message qualifies, or nil.
func (uc *FilterUsecase) qualify(msg *domain.SlackMessage) []domain.Reason {
	if msg.IsDM() {
		// DMs are governed solely by the DM toggle; mention and keyword
		// tags are added on top but never qualify a DM on their own.
		if !uc.cfg.MonitorDMs {
			return nil
		}
		reasons := []domain.Reason{domain.ReasonDM}
		if uc.isMention(msg.Text) {
			reasons = append(reasons, domain.ReasonMention)
		}
		if uc.matchesKeyword(msg.Text) {
			reasons = append(reasons, domain.ReasonKeyword)
		}
		return reasons
	}

	// Channel scoping takes precedence over every match criterion for
	// non-DM messages.
	if !uc.channelMonitored(msg.Channel) {
		return nil
	}

	var reasons []domain.Reason
	if uc.isMention(msg.Text) {
		reasons = append(reasons, domain.ReasonMention)
	}
	if uc.matchesKeyword(msg.Text) {
		reasons = append(reasons, domain.ReasonKeyword)
	}
	return reasons
}

func (uc *FilterUsecase) channelMonitored(channel string) bool {
	if len(uc.cfg.Channels) == 0 {
		return true
	}
	for _, c := range uc.cfg.Channels {
		if strings.EqualFold(c, channel) {
			return true
		}
	}
	return false
}

// isMention checks whether the text mentions the configured username as a
// whole token. A leading @ is part of the same token in Slack text.
func (uc *FilterUsecase) isMention(text string) bool {
	if !uc.cfg.MonitorMentions || uc.cfg.Username == "" {
		return false
	}
	for _, token := range tokenize(text) {
		if strings.EqualFold(token, uc.cfg.Username) {
			return true
		}
	}
	return false
}

func (uc *FilterUsecase) matchesKeyword(text string) bool {
	if len(uc.cfg.Keywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range uc.cfg.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// tokenize splits text into username-shaped tokens. @, ., _ and - are
// username characters, everything else is a separator.
func tokenize(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		switch r {
		case '@', '.', '_', '-':
			return false
		}
		return true
	})
	// Strip the mention sigil so "@alice" matches username "alice", and
	// trailing periods so sentence-final mentions still match.
	for i, tok := range tokens {
		tok = strings.TrimPrefix(tok, "@")
		tokens[i] = strings.TrimRight(tok, ".")
	}
	return tokens
}
