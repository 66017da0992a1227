package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/chapter"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the chapter catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		chapters := chapter.All()

		fmt.Printf("%-16s  %-28s  %-36s  %s\n", "ID", "Title", "Topic", "Theme")
		fmt.Println(strings.Repeat("─", 115))

		for _, c := range chapters {
			fmt.Printf("%-16s  %-28s  %-36s  %s\n",
				c.ID, c.Icon+" "+c.Title, truncate(c.Topic, 36), c.Theme)
		}

		fmt.Printf("\n%d chapters, %d levels each, %d questions per level\n",
			len(chapters), chapter.LevelsPerChapter, chapter.QuestionsPerLevel)
		return nil
	},
}
