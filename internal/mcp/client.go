// Package mcp wraps the MCP SDK client for talking to the Slack and Gmail
// extensions over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slackmail/slack-gmail-bridge/internal/biz/domain"
)

// Client is a connected MCP extension session
type Client struct {
	name    string
	session *sdk.ClientSession
}

// Connect spawns the extension command and performs the MCP handshake over
// its stdio. The command string may carry arguments.
func Connect(ctx context.Context, name, command string) (*Client, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%s: no extension command configured: %w", name, domain.ErrCollaboratorUnavailable)
	}
	cmd := exec.Command(parts[0], parts[1:]...)

	client := sdk.NewClient(&sdk.Implementation{
		Name:    "slack-gmail-bridge",
		Version: "v1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdk.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: connect %q: %v: %w", name, parts[0], err, domain.ErrCollaboratorUnavailable)
	}

	fmt.Printf("[MCP] Connected to %s extension (%s)\n", name, parts[0])
	return &Client{name: name, session: session}, nil
}

// CallJSON invokes a tool and decodes its text content as JSON into out.
// Pass a nil out to discard the result.
func (c *Client) CallJSON(ctx context.Context, tool string, args map[string]any, out any) error {
	res, err := c.session.CallTool(ctx, &sdk.CallToolParams{
		Name:      tool,
		Arguments: args,
	})
	if err != nil {
		return fmt.Errorf("%s: call %s: %v: %w", c.name, tool, err, domain.ErrCollaboratorUnavailable)
	}

	text := textContent(res)
	if res.IsError {
		return fmt.Errorf("%s: tool %s failed: %s", c.name, tool, text)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%s: decode %s result: %w", c.name, tool, err)
	}
	return nil
}

// Ping verifies the session is still alive
func (c *Client) Ping(ctx context.Context) error {
	if err := c.session.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%s: ping: %v: %w", c.name, err, domain.ErrCollaboratorUnavailable)
	}
	return nil
}

// Close shuts down the extension session
func (c *Client) Close() error {
	return c.session.Close()
}

func textContent(res *sdk.CallToolResult) string {
	var sb strings.Builder
	for _, content := range res.Content {
		if tc, ok := content.(*sdk.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
