// Package setup implements the first-run configuration wizard.
package setup

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// errInputClosed reports that stdin was closed before the wizard finished
var errInputClosed = errors.New("setup aborted: input closed")

// Wizard collects user configuration interactively and writes
// user_config.json.
type Wizard struct {
	in  *bufio.Scanner
	out io.Writer
	err error // sticky input error, set once Scan fails
}

// NewWizard creates a wizard reading from in and writing prompts to out
func NewWizard(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{in: bufio.NewScanner(in), out: out}
}

// fileConfig is the on-disk layout the wizard produces
type fileConfig struct {
	User struct {
		EmailAddress  string `json:"email_address"`
		SlackUsername string `json:"slack_username"`
		Workspace     string `json:"workspace"`
	} `json:"user"`
	Slack struct {
		MonitorDMs        bool     `json:"monitor_dms"`
		MonitorMentions   bool     `json:"monitor_mentions"`
		ChannelsToMonitor []string `json:"channels_to_monitor"`
	} `json:"slack"`
	Email struct {
		Keywords           []string `json:"keywords"`
		SendDMSummaries    bool     `json:"send_dm_summaries"`
		SendChannelMention bool     `json:"send_channel_mentions"`
		SendKeywordAlerts  bool     `json:"send_keyword_alerts"`
	} `json:"email"`
	Gmail struct {
		CredentialsPath string `json:"credentials_path"`
	} `json:"gmail"`
	CheckInterval int `json:"check_interval"`
}

// Run walks through all prompts and writes the configuration to path.
// An existing file is only overwritten after confirmation.
func (w *Wizard) Run(path string) error {
	fmt.Fprintln(w.out, "Slack-Gmail bridge setup")
	fmt.Fprintln(w.out, "========================")

	if _, err := os.Stat(path); err == nil {
		overwrite := w.askYesNo(fmt.Sprintf("%s already exists. Overwrite?", path), false)
		if w.err != nil {
			return w.err
		}
		if !overwrite {
			fmt.Fprintln(w.out, "Keeping existing configuration.")
			return nil
		}
	}

	var fc fileConfig

	fc.User.EmailAddress = w.askRequired("Email address to receive notifications")
	fc.User.SlackUsername = w.askRequired("Your Slack username")
	fc.User.Workspace = w.ask("Slack workspace name (optional)")

	fc.Slack.MonitorDMs = w.askYesNo("Monitor direct messages?", true)
	fc.Slack.MonitorMentions = w.askYesNo("Monitor mentions of your username?", true)
	fc.Slack.ChannelsToMonitor = w.askList("Channels to monitor (comma-separated, empty for all)")

	fc.Email.Keywords = w.askList("Alert keywords (comma-separated, optional)")
	fc.Email.SendDMSummaries = fc.Slack.MonitorDMs
	fc.Email.SendChannelMention = fc.Slack.MonitorMentions
	fc.Email.SendKeywordAlerts = len(fc.Email.Keywords) > 0

	fc.Gmail.CredentialsPath = w.ask("Path to Gmail credentials.json (optional)")
	fc.CheckInterval = 300

	if w.err != nil {
		return w.err
	}

	if err := writeConfig(path, &fc); err != nil {
		return err
	}

	fmt.Fprintf(w.out, "\nConfiguration written to %s\n", path)
	fmt.Fprintln(w.out, "Next: run the checkenv command to verify your environment.")
	return nil
}

func writeConfig(path string, fc *fileConfig) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	raw, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (w *Wizard) ask(prompt string) string {
	if w.err != nil {
		return ""
	}
	fmt.Fprintf(w.out, "%s: ", prompt)
	if !w.in.Scan() {
		w.err = errInputClosed
		return ""
	}
	return strings.TrimSpace(w.in.Text())
}

func (w *Wizard) askRequired(prompt string) string {
	for w.err == nil {
		if answer := w.ask(prompt); answer != "" {
			return answer
		}
		if w.err == nil {
			fmt.Fprintln(w.out, "This field is required.")
		}
	}
	return ""
}

func (w *Wizard) askYesNo(prompt string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer := strings.ToLower(w.ask(fmt.Sprintf("%s [%s]", prompt, hint)))
	switch answer {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

func (w *Wizard) askList(prompt string) []string {
	answer := w.ask(prompt)
	if answer == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(answer, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
