package domain

// EmailDigest is the rendered notification email for one poll cycle.
// Produced fresh per send, never persisted.
type EmailDigest struct {
	Subject    string
	Body       string
	MessageIDs []string // source message identifiers included in the body
}

// IsEmpty reports whether this is the "no digest" sentinel. Callers must
// skip sending when it is.
func (d *EmailDigest) IsEmpty() bool {
	return len(d.MessageIDs) == 0
}
