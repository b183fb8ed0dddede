package data

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/repo"
)

const summarySystemPrompt = `You summarize Slack notification digests.
Given a digest body, reply with one or two plain sentences saying who wrote and what needs attention.
No markdown, no preamble.`

// summaryRepo produces short digest summaries through an
// OpenAI-compatible API
type summaryRepo struct {
	client *openai.Client
	model  string
}

// NewSummaryRepo creates a summary repository. Model falls back to
// gpt-4o-mini when unset.
func NewSummaryRepo(apiKey, model string) repo.SummaryRepo {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &summaryRepo{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Summarize produces a short plain-text summary of a digest body
func (r *summaryRepo) Summarize(ctx context.Context, body string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: body},
		},
		MaxTokens: 120,
	})
	if err != nil {
		return "", fmt.Errorf("summarize digest: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarize digest: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
