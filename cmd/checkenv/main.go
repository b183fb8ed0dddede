package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/slackmail/slack-gmail-bridge/internal/checkenv"
	"github.com/slackmail/slack-gmail-bridge/internal/conf"
)

func main() {
	configPath := flag.String("config", conf.DefaultConfigPath, "path to user_config.json")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	checker := checkenv.NewChecker(*configPath, os.Stdout)
	if !checker.Run() {
		os.Exit(1)
	}
}
