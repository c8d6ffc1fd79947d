// Package chat wires the interactive chat session and its sibling commands.
package chat

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lioran/chatterm/internal/api"
	"github.com/lioran/chatterm/internal/cli"
	"github.com/lioran/chatterm/internal/composer"
	"github.com/lioran/chatterm/internal/configuration"
	"github.com/lioran/chatterm/internal/conversation"
	"github.com/lioran/chatterm/internal/storage"
	"github.com/lioran/chatterm/internal/tui"
)

// NewCmd instantiates the chat command.
func NewCmd(config *configuration.Config, store *storage.Storage) *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := config.Chat.SessionID
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			conversationStore := conversation.New(store)
			conversationStore.UpdateSettings(conversation.Settings{
				Model:        config.Chat.Model,
				Temperature:  config.Chat.Temperature,
				SystemPrompt: config.Chat.SystemPrompt,
			})
			if model != "" {
				conversationStore.UpdateSettings(conversation.Settings{Model: model})
			}
			settings := conversationStore.Snapshot().Settings

			client := api.NewClient(api.ResolveBaseURL(config.APIHost), sessionID)
			c := composer.New(conversationStore, client)

			session, err := tui.New(cmd.Context(), conversationStore, c, tui.Options{
				Model:     settings.Model,
				SessionID: sessionID,
			})
			if err != nil {
				return errors.Wrap(err, "creating session")
			}
			return tui.Run(session)
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "specify a model")
	return cmd
}

// NewStatusCmd instantiates the status command, which pings the backend.
func NewStatusCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the backend's health",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL := api.ResolveBaseURL(config.APIHost)
			client := api.NewClient(baseURL, "")
			health, err := client.CheckHealth(cmd.Context())
			if err != nil {
				cli.Error("%s is unreachable", baseURL)
				return errors.Wrap(err, "checking health")
			}
			cli.Success("%s: %s (%s)", baseURL, health.Status, health.Message)
			return nil
		},
	}
}

// NewResetCmd instantiates the reset command, which wipes the persisted
// conversation. Settings survive.
func NewResetCmd(store *storage.Storage) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the persisted conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cli.QueryUser("Clear the conversation history?") {
				return nil
			}
			conversationStore := conversation.New(store)
			conversationStore.ClearMessages()
			conversationStore.SetStatus(conversation.StatusIdle, nil)
			cli.Success("Conversation cleared.")
			return nil
		},
	}
}
