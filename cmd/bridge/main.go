package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/slackmail/slack-gmail-bridge/internal/conf"
	"github.com/slackmail/slack-gmail-bridge/internal/data"
	"github.com/slackmail/slack-gmail-bridge/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", conf.DefaultConfigPath, "path to user_config.json")
		live       = flag.Bool("live", false, "live mode: send real emails")
		testMode   = flag.Bool("test", false, "test mode: log digests instead of sending (default)")
		interval   = flag.Duration("interval", 0, "override the poll interval, e.g. 60s")
	)
	flag.Parse()

	if *live && *testMode {
		log.Fatal("choose one of -live or -test")
	}

	// Load .env file
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
	if *interval > 0 {
		cfg.CheckInterval = *interval
	}

	mode := service.ModeTest
	if *live {
		mode = service.ModeLive
		fmt.Println("[Bridge] LIVE MODE, real emails will be sent")
	} else {
		fmt.Println("[Bridge] Test mode, digests are logged, not sent")
	}

	ctx := context.Background()
	repos, err := data.NewRepositories(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect extensions: %v", err)
	}
	defer repos.Close()

	// Drop seen entries older than two weeks before starting
	if pruned, err := repos.Seen.Prune(time.Now().AddDate(0, 0, -14)); err == nil && pruned > 0 {
		fmt.Printf("[Bridge] Pruned %d old seen entries\n", pruned)
	}

	monitor := service.NewMonitorService(cfg, repos.Slack, repos.Mail, repos.Seen, repos.Summary, mode)
	monitor.Start()

	fmt.Printf("[Bridge] Forwarding to %s every %v\n", cfg.User.EmailAddress, cfg.CheckInterval)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")
	monitor.Stop()
}
