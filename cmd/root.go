package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/config"
	"github.com/abhisek/mathquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mathquest",
	Short: "Themed math word problems for kids",
	Long: `MathQuest is a terminal game of themed math word problems.

Pick a chapter, clear its 30 levels of 25 questions each, and collect
points for correct answers. Questions come from an LLM when an API key
is configured, otherwise from the built-in offline generator.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHQUEST_DB env var)")
	rootCmd.PersistentFlags().String("player", "", "Player profile name (overrides config)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/mathquest/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write debug records to the log file")

	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env, the config file and the environment, then applies
// command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("player"); p != "" {
		cfg.Player = p
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path (--db flag, then
// config/MATHQUEST_DB), falling back to the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore loads configuration and opens the database for a subcommand.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}

// setupLogging points the default slog logger at mathquest.log beside the
// database. The terminal belongs to the UI while the game runs.
func setupLogging(dbPath string, verbose bool) (io.Closer, error) {
	logPath := filepath.Join(filepath.Dir(dbPath), "mathquest.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return f, nil
}
