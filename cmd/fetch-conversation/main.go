package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/slackmail/slack-gmail-bridge/internal/conf"
	"github.com/slackmail/slack-gmail-bridge/internal/data"
	"github.com/slackmail/slack-gmail-bridge/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", conf.DefaultConfigPath, "path to user_config.json")
		user       = flag.String("user", "", "Slack user to fetch the DM conversation with")
		limit      = flag.Int("limit", 10, "maximum number of messages to fetch")
		send       = flag.Bool("send", false, "email the conversation instead of previewing it")
	)
	flag.Parse()

	if *user == "" {
		log.Fatal("-user is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := conf.Load(*configPath)
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx := context.Background()
	repos, err := data.NewRepositories(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect extensions: %v", err)
	}
	defer repos.Close()

	convSvc := service.NewConversationService(repos.Slack, repos.Mail)

	digest, err := convSvc.Retrieve(ctx, *user, *limit)
	if err != nil {
		log.Fatalf("Retrieve failed: %v", err)
	}
	if err := convSvc.Deliver(ctx, digest, cfg.User.EmailAddress, *send); err != nil {
		log.Fatalf("Deliver failed: %v", err)
	}
}
