package domain

import "time"

// ChannelType identifies where a Slack message came from.
type ChannelType string

const (
	ChannelTypeDM      ChannelType = "dm"
	ChannelTypeChannel ChannelType = "channel"
)

// SlackMessage represents a message fetched from the Slack extension.
// Immutable once fetched.
type SlackMessage struct {
	ID          string
	Channel     string // channel name, or DM partner identifier for DMs
	ChannelType ChannelType
	Sender      string
	Text        string
	Timestamp   time.Time
}

// IsDM checks if the message came from a direct-message channel
func (m *SlackMessage) IsDM() bool {
	return m.ChannelType == ChannelTypeDM
}

// IsValid checks that the message carries the fields the filter depends on.
// Records failing this are skipped, not rejected.
func (m *SlackMessage) IsValid() bool {
	return m.ID != "" && m.Sender != ""
}

// Reason is why a message qualified for a notification.
type Reason string

const (
	ReasonDM      Reason = "dm"
	ReasonMention Reason = "mention"
	ReasonKeyword Reason = "keyword"
)

// NotificationCandidate is a SlackMessage tagged with the reasons it
// qualified. Lives only within one poll cycle.
type NotificationCandidate struct {
	Message SlackMessage
	Reasons []Reason
}

// HasReason checks whether the candidate carries the given reason
func (c *NotificationCandidate) HasReason(r Reason) bool {
	for _, got := range c.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

// OnlyReason reports whether the candidate qualified for exactly one reason
func (c *NotificationCandidate) OnlyReason(r Reason) bool {
	return len(c.Reasons) == 1 && c.Reasons[0] == r
}
