package game

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/level"
	"github.com/abhisek/mathquest/internal/oracle"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

func (g *GameScreen) View(width, height int) string {
	if g.session == nil {
		return renderError(width, g.errMsg)
	}
	if g.done != nil {
		return g.renderComplete(width, height)
	}

	st := g.session.State()
	if st.Status == level.StatusError {
		return renderError(width, st.Error)
	}

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	accent := theme.ChapterColor(g.chapter.Color)
	cw := components.ContentWidth(width)

	var b strings.Builder

	b.WriteString(g.renderInfoLine(st, width))
	b.WriteString("\n")
	bar := components.NewProgressBar("", st.Index, st.Total, cw)
	bar.Color = accent
	b.WriteString(center.Render(bar.View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(g.questionText(st), cw)))
	b.WriteString("\n\n")

	if st.HasQuestion && st.Status != level.StatusLoading {
		b.WriteString(center.Render("Answer: " + g.input.View()))
		b.WriteString("\n")
		if g.flash != "" {
			b.WriteString(center.Foreground(theme.Error).Render(g.flash))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(g.renderFeedback(st, width))
	return b.String()
}

func (g *GameScreen) renderInfoLine(st level.State, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.ChapterColor(g.chapter.Color)).
		Bold(true).
		Render(fmt.Sprintf("  %s Level %d", g.chapter.Icon, g.level))

	question := st.Index + 1
	if question > st.Total {
		question = st.Total
	}
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d/%d   Score %s   Multiplier %s",
			question, st.Total,
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprint(st.Score)),
			lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(fmt.Sprintf("%dx", st.Multiplier)),
		))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func (g *GameScreen) questionText(st level.State) string {
	if st.Status == level.StatusLoading || !st.HasQuestion {
		msg := "Loading next question..."
		if st.Index == 0 {
			msg = "Preparing your first challenge..."
		}
		if notice := g.loadingNotice(st); notice != "" {
			msg = notice
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(msg)
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(st.Question.Text)
}

// loadingNotice returns the retry notice for the question the player is
// waiting on. Prefetch retries become visible once the player catches up.
func (g *GameScreen) loadingNotice(st level.State) string {
	if st.Status != level.StatusLoading || g.noticeSlot != st.Index {
		return ""
	}
	return g.notice
}

func (g *GameScreen) renderFeedback(st level.State, width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	wrap := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text)
	block := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, wrap.Render(s))
	}

	var b strings.Builder
	switch st.Status {
	case level.StatusAnswered:
		if st.LastCorrect {
			b.WriteString(center.Inherit(theme.Correct).Render(fmt.Sprintf("That's right! +%d", st.LastPoints)))
			break
		}
		b.WriteString(center.Inherit(theme.Incorrect).Render("Not quite!"))
		b.WriteString("\n\n")
		switch {
		case st.HintLoading:
			b.WriteString(center.Inherit(theme.Hint).Render("Thinking..."))
		case st.Hint != "":
			b.WriteString(block(st.Hint))
		}
		b.WriteString("\n\n")
		buttons := []components.Button{{Key: "t", Label: "Try again", Active: true}}
		if st.CanRequestHint() {
			buttons = append(buttons, components.Button{Key: "h", Label: "Show hint"})
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ButtonRow(buttons...)))

	case level.StatusRevealed:
		b.WriteString(center.Inherit(theme.Incorrect).Render(
			"The answer was " + oracle.FormatNumber(st.Question.Answer)))
		b.WriteString("\n\n")
		if st.Solution == nil {
			b.WriteString(center.Inherit(theme.Hint).Render("Working it out..."))
		} else {
			b.WriteString(block(st.Solution.Text))
			if steps := svgText(st.Solution.Visual); len(steps) > 0 {
				b.WriteString("\n\n")
				b.WriteString(block(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Join(steps, "\n"))))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.ButtonRow(components.Button{Key: "enter", Label: "Continue", Active: true})))
	}
	return b.String()
}

func (g *GameScreen) renderComplete(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Level complete!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(
		fmt.Sprintf("%s  Level %d", g.chapter.Title, g.done.Level)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
		fmt.Sprintf("Score: %d", g.done.Score)))
	b.WriteString("\n\n")

	switch {
	case !g.saved:
		b.WriteString(theme.Hint.Render("Saving..."))
	case g.saveErr != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Could not save: " + g.saveErr))
	case g.newBest:
		b.WriteString(theme.Correct.Render("New high score!"))
	default:
		b.WriteString(theme.Hint.Render("Progress saved."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Frame(b.String(), theme.ChapterColor(g.chapter.Color), cw+6, min(height, 12)))
}

func renderError(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" +
			theme.Incorrect.Render("Oh no!") + "\n\n" +
			theme.Body.Render(msg) + "\n\n" +
			theme.Hint.Render("Press Enter to go back."))
}
