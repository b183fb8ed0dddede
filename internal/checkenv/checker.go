// Package checkenv verifies the environment the bridge needs before a run.
package checkenv

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/slackmail/slack-gmail-bridge/internal/conf"
)

// Status of a single check
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

// Result is the outcome of one check
type Result struct {
	Name    string
	Status  Status
	Message string
}

// Checker runs all environment checks
type Checker struct {
	configPath string
	out        io.Writer
}

// NewChecker creates a checker for the given config path
func NewChecker(configPath string, out io.Writer) *Checker {
	if configPath == "" {
		configPath = conf.DefaultConfigPath
	}
	return &Checker{configPath: configPath, out: out}
}

// Run executes every check, prints a summary, and reports whether all
// required checks passed. The config file is read once and its result
// shared by every check that needs it.
func (c *Checker) Run() bool {
	cfg, loadErr := conf.Load(c.configPath)

	results := []Result{
		c.checkConfig(cfg, loadErr),
		c.checkCredentials(cfg),
		c.checkExtension("Slack MCP extension", "SLACK_MCP_COMMAND"),
		c.checkExtension("Gmail MCP extension", "GMAIL_MCP_COMMAND"),
	}

	fmt.Fprintln(c.out, "Environment check")
	fmt.Fprintln(c.out, "=================")

	ok := true
	for _, r := range results {
		fmt.Fprintf(c.out, "%-6s %s: %s\n", label(r.Status), r.Name, r.Message)
		if r.Status == StatusFail {
			ok = false
		}
	}

	if ok {
		fmt.Fprintln(c.out, "\nAll required checks passed.")
	} else {
		fmt.Fprintln(c.out, "\nSome checks failed. Fix them and re-run.")
	}
	return ok
}

func (c *Checker) checkConfig(cfg *conf.Config, loadErr error) Result {
	if loadErr != nil {
		return Result{"User configuration", StatusFail, loadErr.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return Result{"User configuration", StatusFail, err.Error()}
	}
	return Result{"User configuration", StatusOK, c.configPath}
}

func (c *Checker) checkCredentials(cfg *conf.Config) Result {
	if cfg == nil || cfg.Gmail.CredentialsPath == "" {
		return Result{"Gmail credentials", StatusWarn, "no credentials path configured, the Gmail extension must supply its own"}
	}
	if _, err := os.Stat(cfg.Gmail.CredentialsPath); err != nil {
		return Result{"Gmail credentials", StatusFail, fmt.Sprintf("not found at %s", cfg.Gmail.CredentialsPath)}
	}
	return Result{"Gmail credentials", StatusOK, cfg.Gmail.CredentialsPath}
}

func (c *Checker) checkExtension(name, envVar string) Result {
	parts := strings.Fields(os.Getenv(envVar))
	if len(parts) == 0 {
		return Result{name, StatusFail, envVar + " is not set"}
	}
	binary := parts[0]
	if _, err := exec.LookPath(binary); err != nil {
		return Result{name, StatusFail, fmt.Sprintf("%s not found on PATH", binary)}
	}
	return Result{name, StatusOK, binary}
}

func label(s Status) string {
	switch s {
	case StatusOK:
		return "[ok]"
	case StatusWarn:
		return "[warn]"
	default:
		return "[FAIL]"
	}
}
