package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"matrixchat/internal/store"
	"matrixchat/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "matrixchat",
	Short: "Anonymous Matrix-styled chat in your terminal",
	RunE:  runChat,
}

var (
	flagDataPath  string
	flagLogFile   string
	flagEphemeral bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagDataPath, "data-path", os.Getenv("MATRIXCHAT_DATA"), "directory for the persistent store (default ~/.matrixchat, from env MATRIXCHAT_DATA if set)")
	flags.StringVar(&flagLogFile, "log-file", "", "optional file for debug logs; logging is discarded without it")
	flags.BoolVar(&flagEphemeral, "ephemeral", false, "keep all state in memory; nothing touches disk")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal, so logs go to a file or nowhere.
	log.Logger = zerolog.New(io.Discard)
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	}

	kv, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	return ui.Run(kv)
}

func openStore() (store.KV, error) {
	if flagEphemeral {
		return store.NewMemory(), nil
	}
	dir := flagDataPath
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".matrixchat")
	}
	return store.OpenPebble(dir)
}
