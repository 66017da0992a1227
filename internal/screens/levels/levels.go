package levels

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/chapter"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/game"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// columns is the number of level tiles per row.
const columns = 6

// LevelsScreen shows the level grid of one chapter.
type LevelsScreen struct {
	deps     game.Deps
	chapter  chapter.Chapter
	progress progress.ChapterProgress
	cursor   int // zero-based level index
	flash    string
}

var _ screen.Screen = (*LevelsScreen)(nil)
var _ screen.KeyHintProvider = (*LevelsScreen)(nil)
var _ screen.Refresher = (*LevelsScreen)(nil)

// New creates the level grid for ch with the cursor on the next level to play.
func New(deps game.Deps, ch chapter.Chapter) *LevelsScreen {
	s := &LevelsScreen{deps: deps, chapter: ch}
	s.reload()
	s.cursor = min(s.progress.HighestLevel, chapter.LevelsPerChapter-1)
	return s
}

func (s *LevelsScreen) Init() tea.Cmd { return nil }

func (s *LevelsScreen) Title() string { return s.chapter.Title }

// Refresh re-reads progress after a level was played.
func (s *LevelsScreen) Refresh() tea.Cmd {
	s.reload()
	s.flash = ""
	return nil
}

func (s *LevelsScreen) reload() {
	if s.deps.Tracker != nil {
		s.progress = s.deps.Tracker.Progress().Chapter(s.chapter.ID)
	}
}

func (s *LevelsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	last := chapter.LevelsPerChapter - 1
	switch kmsg.String() {
	case "left", "h":
		s.cursor = max(s.cursor-1, 0)
	case "right", "l":
		s.cursor = min(s.cursor+1, last)
	case "up", "k":
		if s.cursor-columns >= 0 {
			s.cursor -= columns
		}
	case "down", "j":
		if s.cursor+columns <= last {
			s.cursor += columns
		}
	case "enter":
		return s, s.play(s.cursor + 1)
	default:
		return s, nil
	}
	s.flash = ""
	return s, nil
}

func (s *LevelsScreen) play(lvl int) tea.Cmd {
	p := progress.PlayerProgress{s.chapter.ID: s.progress}
	if err := progress.CheckSelectable(p, s.chapter.ID, lvl); err != nil {
		if errors.Is(err, progress.ErrLevelLocked) {
			s.flash = fmt.Sprintf("Level %d is locked. Finish level %d first!", lvl, s.progress.HighestLevel+1)
		} else {
			s.flash = err.Error()
		}
		return nil
	}
	s.flash = ""
	g := game.New(s.deps, s.chapter, lvl)
	return func() tea.Msg { return router.PushScreenMsg{Screen: g} }
}

func (s *LevelsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Choose level"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Chapters"},
	}
}

func (s *LevelsScreen) View(width, height int) string {
	accent := theme.ChapterColor(s.chapter.Color)
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(accent).Bold(true).Render(s.chapter.Icon + "  " + s.chapter.Title))
	b.WriteString("\n")

	done := progress.CompletedCount(progress.PlayerProgress{s.chapter.ID: s.progress}, s.chapter.ID)
	bar := components.NewProgressBar("Completed", done, chapter.LevelsPerChapter, components.ContentWidth(width))
	bar.Color = accent
	b.WriteString(center.Render(bar.View()))
	b.WriteString("\n\n")

	var rows []string
	for start := 0; start < chapter.LevelsPerChapter; start += columns {
		var tiles []string
		for i := start; i < min(start+columns, chapter.LevelsPerChapter); i++ {
			tiles = append(tiles, s.tile(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	if s.flash != "" {
		b.WriteString(center.Foreground(theme.Error).Render(s.flash))
	} else {
		b.WriteString(center.Inherit(theme.Hint).Render(s.describe(s.cursor + 1)))
	}
	return b.String()
}

// tile renders one level cell: the number and, once completed, its high score.
func (s *LevelsScreen) tile(i int) string {
	lvl := i + 1
	label := fmt.Sprintf("%2d", lvl)
	sub := " "

	style := lipgloss.NewStyle().
		Width(8).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	switch {
	case s.progress.Completed(lvl):
		sub = fmt.Sprintf("★%d", s.progress.HighScore(lvl))
		style = style.Foreground(theme.Accent)
	case s.progress.Unlocked(lvl):
		style = style.Foreground(theme.Text).Bold(true)
	default:
		sub = "locked"
		style = style.Foreground(theme.Locked)
	}
	if i == s.cursor {
		style = style.BorderForeground(theme.ChapterColor(s.chapter.Color))
	}
	return style.Render(label + "\n" + sub)
}

func (s *LevelsScreen) describe(lvl int) string {
	switch {
	case s.progress.Completed(lvl):
		return fmt.Sprintf("Level %d  completed  high score %d", lvl, s.progress.HighScore(lvl))
	case s.progress.Unlocked(lvl):
		return fmt.Sprintf("Level %d  %d questions  ready to play", lvl, chapter.QuestionsPerLevel)
	}
	return fmt.Sprintf("Level %d  locked", lvl)
}
