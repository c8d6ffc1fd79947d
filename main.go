package main

import (
	"github.com/spf13/cobra"

	"github.com/lioran/chatterm/internal/chat"
	"github.com/lioran/chatterm/internal/configuration"
	"github.com/lioran/chatterm/internal/grade"
	"github.com/lioran/chatterm/internal/storage"
)

const configFilepath = "~/.config/chatterm/config.json"

var rootCmd = &cobra.Command{
	Use:     "chatterm",
	Short:   "A terminal client for agent chat and grading backends",
	Version: "1.0",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	store, err := storage.New(config.Database)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	rootCmd.AddCommand(chat.NewCmd(config, store))
	rootCmd.AddCommand(chat.NewStatusCmd(config))
	rootCmd.AddCommand(chat.NewResetCmd(store))
	rootCmd.AddCommand(grade.NewCmd(config))
	rootCmd.Execute()
}
