package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"prguard/internal/config"
	"prguard/internal/storage"

	"github.com/spf13/cobra"
)

// errChecksFailed makes the process exit non-zero after the summary has been printed.
var errChecksFailed = errors.New("pull request checks failed")

var (
	dbPath     string
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "prguard",
		Short:         "Check pull requests against repository rules and the PR template",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "prguard.db", "Path to the run history database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTemplateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	return rootCmd
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// initStore opens the run history database.
func initStore() (*storage.SQLiteStore, error) {
	return storage.NewSQLiteStore(dbPath)
}
