package repo

import (
	"time"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
)

// SeenRepo is a SeenSet persisted across runs
type SeenRepo interface {
	domain.SeenSet

	// Prune removes identifiers first seen before the cutoff
	Prune(before time.Time) (int64, error)

	Close() error
}
