package chapters

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/chapter"
	"github.com/abhisek/mathquest/internal/progress"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/game"
	"github.com/abhisek/mathquest/internal/screens/levels"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

const banner = `
 __  __       _   _      ___                  _
|  \/  | __ _| |_| |__  / _ \ _   _  ___  ___| |_
| |\/| |/ _` + "`" + ` | __| '_ \| | | | | | |/ _ \/ __| __|
| |  | | (_| | |_| | | | |_| | |_| |  __/\__ \ |_
|_|  |_|\__,_|\__|_| |_|\__\_\\__,_|\___||___/\__|`

// ChaptersScreen is the home screen: one menu entry per chapter.
type ChaptersScreen struct {
	deps game.Deps
	menu components.Menu
}

var _ screen.Screen = (*ChaptersScreen)(nil)
var _ screen.Refresher = (*ChaptersScreen)(nil)

// New creates the chapter menu.
func New(deps game.Deps) *ChaptersScreen {
	s := &ChaptersScreen{deps: deps}
	s.menu = components.NewMenu(s.items())
	return s
}

func (s *ChaptersScreen) items() []components.MenuItem {
	var p progress.PlayerProgress
	if s.deps.Tracker != nil {
		p = s.deps.Tracker.Progress()
	}

	all := chapter.All()
	items := make([]components.MenuItem, 0, len(all))
	for _, ch := range all {
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("%s  %s", ch.Icon, ch.Title),
			Detail: fmt.Sprintf("%d/%d levels", progress.CompletedCount(p, ch.ID), chapter.LevelsPerChapter),
			Color:  theme.ChapterColor(ch.Color),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: levels.New(s.deps, ch)}
				}
			},
		})
	}
	return items
}

func (s *ChaptersScreen) Init() tea.Cmd { return nil }

func (s *ChaptersScreen) Title() string { return "Chapters" }

// Refresh rebuilds the completed-level counts, keeping the selection.
func (s *ChaptersScreen) Refresh() tea.Cmd {
	selected := s.menu.Selected
	s.menu = components.NewMenu(s.items())
	s.menu.Selected = selected
	return nil
}

func (s *ChaptersScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ChaptersScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	if layout.ShowBanner(height) {
		b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(banner))
		b.WriteString("\n\n")
	}
	b.WriteString(center.Inherit(theme.Subtitle).Render("Pick a world and solve its puzzles!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))

	if s.deps.Offline {
		b.WriteString("\n")
		b.WriteString(center.Inherit(theme.Hint).Render("Offline mode: puzzles come from the built-in generator."))
	}
	return b.String()
}
