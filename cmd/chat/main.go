package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/supersafe-ai/guard-agent/internal/setup"
	setuplogger "github.com/supersafe-ai/guard-agent/internal/setup/logger"
)

func main() {
	logger := setuplogger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	clientID, _ := os.Hostname()
	if clientID == "" {
		clientID = "local"
	}

	fmt.Println("Guard Agent chat. Type 'quit' or 'exit' to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		reply, err := deps.Agent.Chat(ctx, clientID, line)
		if err != nil {
			log.Error().Err(err).Msg("Chat failed")
			continue
		}

		fmt.Println(reply.Text)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("Failed to read input")
	}
}
