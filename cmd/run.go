package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/app"
	"github.com/abhisek/mathquest/internal/config"
	"github.com/abhisek/mathquest/internal/llm"
	"github.com/abhisek/mathquest/internal/oracle"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/screens/game"
	"github.com/abhisek/mathquest/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logFile, err := setupLogging(dbPath, verbose)
	if err != nil {
		return err
	}
	defer logFile.Close()

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	tracker, err := progress.Load(ctx, st.Documents(), cfg.Player)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	sessionID := uuid.NewString()
	ctx = llm.WithSessionID(ctx, sessionID)
	slog.Info("session started", "session_id", sessionID, "player", cfg.Player, "db", dbPath)

	orc, offline := buildOracle(ctx, cfg, st.EventRepo())

	return app.Run(game.Deps{
		Context:      ctx,
		Oracle:       orc,
		Tracker:      tracker,
		Results:      st.ResultRepo(),
		Player:       cfg.Player,
		SessionID:    sessionID,
		AdvanceDelay: cfg.Game.AdvanceDelay,
		Fetch:        cfg.Retry(),
		Offline:      offline,
	})
}

// buildOracle returns the LLM-backed oracle when a provider is configured,
// and the offline generator otherwise. offline reports which one was chosen.
func buildOracle(ctx context.Context, cfg *config.Config, recorder llm.EventRecorder) (orc oracle.Oracle, offline bool) {
	llmCfg, ok, err := llm.LoadConfig()
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
	case !ok:
		fmt.Fprintln(os.Stderr, "No LLM API key found.")
	case llmCfg.Provider == "offline":
	default:
		if cfg.LLM.RequestsPerMinute > 0 {
			llmCfg.RequestsPerMinute = cfg.LLM.RequestsPerMinute
		}
		provider, err := llm.NewProvider(ctx, llmCfg, recorder)
		if err == nil {
			slog.Info("using LLM oracle", "provider", llmCfg.Provider, "model", provider.ModelID())
			return oracle.NewLLM(provider, oracle.DefaultLLMConfig()), false
		}
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
	}

	fmt.Fprintln(os.Stderr, "Playing with offline questions.")
	slog.Info("using offline oracle")
	return oracle.NewLocal(uint64(time.Now().UnixNano())), true
}
