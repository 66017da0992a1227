package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

// AnswerChars are the characters a numeric answer may contain: digits,
// a sign, a decimal point and a fraction bar.
const AnswerChars = "0123456789-./"

// TextInput wraps bubbles/textinput with MathQuest styling.
type TextInput struct {
	Model    textinput.Model
	Allowed  string // accepted characters; empty accepts anything
	MaxWidth int
	marked   bool
	correct  bool
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder, allowed string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:    ti,
		Allowed:  allowed,
		MaxWidth: maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages, dropping printable keys outside Allowed.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Allowed != "" {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			text := kmsg.Key().Text
			if text != "" && !allowedText(text, t.Allowed) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func allowedText(text, allowed string) bool {
	for _, r := range text {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}

// View renders the text input with a check or cross once marked.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.marked {
		if t.correct {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Mark shows whether the submitted value was correct.
func (t *TextInput) Mark(correct bool) {
	t.marked = true
	t.correct = correct
}

// Reset clears the value and any mark.
func (t *TextInput) Reset() {
	t.Model.SetValue("")
	t.marked = false
}
