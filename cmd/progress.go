package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/chapter"
	"github.com/abhisek/mathquest/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a player's completed levels and recent results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		chapterID, _ := cmd.Flags().GetString("chapter")
		if chapterID != "" {
			if _, err := chapter.Get(chapterID); err != nil {
				return err
			}
		}

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if all, _ := cmd.Flags().GetBool("players"); all {
			keys, err := s.Documents().Keys(ctx, progress.KeyPrefix)
			if err != nil {
				return fmt.Errorf("list players: %w", err)
			}
			for _, name := range playerNames(keys) {
				fmt.Println(name)
			}
			return nil
		}

		tracker, err := progress.Load(ctx, s.Documents(), cfg.Player)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		p := tracker.Progress()

		fmt.Printf("Player: %s\n\n", cfg.Player)
		fmt.Printf("%-28s  %9s  %s\n", "Chapter", "Completed", "High scores")
		fmt.Println(strings.Repeat("─", 90))

		for _, c := range chapter.All() {
			if chapterID != "" && c.ID != chapterID {
				continue
			}
			cp := p.Chapter(c.ID)
			fmt.Printf("%-28s  %5d/%-3d  %s\n",
				c.Title, progress.CompletedCount(p, c.ID), chapter.LevelsPerChapter, formatScores(cp))
		}

		results, err := s.ResultRepo().ListLevelResults(ctx, cfg.Player, chapterID, limit)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(results) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Recent Levels")
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%-19s  %-16s  %5s  %6s\n", "Finished", "Chapter", "Level", "Score")
		for _, r := range results {
			fmt.Printf("%-19s  %-16s  %5d  %6d\n",
				r.Timestamp.Local().Format("2006-01-02 15:04:05"), r.ChapterID, r.Level, r.Score)
		}
		return nil
	},
}

// formatScores renders "L1:120 L2:95 ..." for completed levels.
func formatScores(cp progress.ChapterProgress) string {
	if cp.HighestLevel == 0 {
		return "-"
	}
	parts := make([]string, 0, cp.HighestLevel)
	for l := 1; l <= cp.HighestLevel && l <= chapter.LevelsPerChapter; l++ {
		parts = append(parts, fmt.Sprintf("L%d:%d", l, cp.HighScore(l)))
	}
	return strings.Join(parts, " ")
}

// playerNames extracts player names from progress document keys.
func playerNames(keys []string) []string {
	var names []string
	for _, k := range keys {
		if name, ok := progress.PlayerFromKey(k); ok {
			names = append(names, name)
		}
	}
	return names
}

func init() {
	progressCmd.Flags().IntP("limit", "n", 10, "Number of recent results to show")
	progressCmd.Flags().String("chapter", "", "Only show this chapter (e.g. addition)")
	progressCmd.Flags().Bool("players", false, "List players with saved progress")
}
