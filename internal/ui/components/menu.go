package components

import (
	"image/color"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

// MenuItem is one selectable row.
type MenuItem struct {
	Label    string
	Detail   string      // dim text after the label
	Color    color.Color // marker color when selected; nil uses theme.Accent
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list navigated with the arrow keys, vim keys, or the
// item's 1-based number.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.next(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// next returns the first enabled index after from in direction dir, or -1.
func (m Menu) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	item := m.Items[m.Selected]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

// Update handles navigation and activation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if i := m.next(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case "down", "j":
		if i := m.next(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case "home", "g":
		if i := m.next(-1, 1); i >= 0 {
			m.Selected = i
		}
	case "end", "G":
		if i := m.next(len(m.Items), -1); i >= 0 {
			m.Selected = i
		}
	case "enter", "space":
		return m, m.activate()
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Items) && !m.Items[n-1].Disabled {
			m.Selected = n - 1
			return m, m.activate()
		}
	}
	return m, nil
}

// View renders one line per item.
func (m Menu) View() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	locked := lipgloss.NewStyle().Foreground(theme.Locked)

	var b strings.Builder
	for i, item := range m.Items {
		detail := ""
		if item.Detail != "" {
			detail = "  " + dim.Render(item.Detail)
		}

		switch {
		case i == m.Selected:
			marker := item.Color
			if marker == nil {
				marker = theme.Accent
			}
			b.WriteString(lipgloss.NewStyle().Foreground(marker).Bold(true).Render("  ▸ "))
			b.WriteString(theme.Selected.Render(item.Label))
		case item.Disabled:
			b.WriteString(locked.Render("    " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteString(detail)
		b.WriteString("\n")
	}
	return b.String()
}
