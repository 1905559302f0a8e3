// Command chatter-ask streams a single completion to stdout. Handy for
// checking endpoint credentials without starting the server.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/fbarret/chatter/internal/config"
	"github.com/fbarret/chatter/internal/llm"
	"github.com/fbarret/chatter/internal/models"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load("", logger)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	prompt := strings.Join(os.Args[1:], " ")
	if prompt == "" {
		prompt = "Say hello in one short sentence."
	}

	client := llm.New(cfg.BaseURL, cfg.APIKey, cfg.Model, logger)

	printed := 0
	final, err := client.StreamChat(context.Background(), []llm.ChatMessage{
		{Role: models.RoleUser, Content: prompt},
	}, func(partial string) {
		fmt.Print(partial[printed:])
		printed = len(partial)
	})
	if err != nil {
		logger.Fatal("completion failed", zap.Error(err))
	}
	if len(final) > printed {
		fmt.Print(final[printed:])
	}
	fmt.Println()
}
