package repo

import "context"

// SummaryRepo is the optional digest summarization interface.
// A nil SummaryRepo means no summaries are produced.
type SummaryRepo interface {
	// Summarize produces a short plain-text summary of a digest body
	Summarize(ctx context.Context, body string) (string, error)
}
