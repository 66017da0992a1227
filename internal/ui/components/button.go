package components

import (
	"strings"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

// Button is a labelled action with its shortcut key.
type Button struct {
	Key    string
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	label := "[" + b.Key + "] " + b.Label
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow renders buttons side by side.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "  ")
}
