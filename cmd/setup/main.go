package main

import (
	"flag"
	"log"
	"os"

	"github.com/slackmail/slack-gmail-bridge/internal/conf"
	"github.com/slackmail/slack-gmail-bridge/internal/setup"
)

func main() {
	configPath := flag.String("config", conf.DefaultConfigPath, "where to write user_config.json")
	flag.Parse()

	wizard := setup.NewWizard(os.Stdin, os.Stdout)
	if err := wizard.Run(*configPath); err != nil {
		log.Fatalf("Setup failed: %v", err)
	}
}
