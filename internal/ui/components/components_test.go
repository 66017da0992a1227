package components

import (
	"strconv"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestTextInput_FiltersToAllowedChars(t *testing.T) {
	in := NewTextInput("answer", AnswerChars, 10)
	for _, r := range "3a/4x" {
		in, _ = in.Update(keyPress(r))
	}
	if got := in.Value(); got != "3/4" {
		t.Errorf("value = %q, want %q", got, "3/4")
	}

	in.Reset()
	if in.Value() != "" {
		t.Errorf("value after reset = %q", in.Value())
	}
}

func TestTextInput_AcceptsAnythingWhenUnrestricted(t *testing.T) {
	in := NewTextInput("name", "", 0)
	for _, r := range "ana" {
		in, _ = in.Update(keyPress(r))
	}
	if got := in.Value(); got != "ana" {
		t.Errorf("value = %q", got)
	}
}

func TestMenu_SkipsDisabledItems(t *testing.T) {
	var chosen string
	pick := func(name string) func() tea.Cmd {
		return func() tea.Cmd {
			chosen = name
			return nil
		}
	}
	m := NewMenu([]MenuItem{
		{Label: "locked", Disabled: true},
		{Label: "one", Action: pick("one")},
		{Label: "locked", Disabled: true},
		{Label: "two", Action: pick("two")},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Fatalf("selection after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if chosen != "two" {
		t.Errorf("chosen = %q, want two", chosen)
	}
}

func TestMenu_NumberKeyActivates(t *testing.T) {
	var chosen int
	items := make([]MenuItem, 3)
	for i := range items {
		items[i] = MenuItem{Label: strconv.Itoa(i), Action: func() tea.Cmd { chosen = i + 1; return nil }}
	}
	items[1].Disabled = true
	m := NewMenu(items)

	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if chosen != 3 || m.Selected != 2 {
		t.Fatalf("chosen = %d, selected = %d; want 3, 2", chosen, m.Selected)
	}

	chosen = 0
	m, _ = m.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	if chosen != 0 || m.Selected != 2 {
		t.Errorf("disabled item must not activate: chosen = %d, selected = %d", chosen, m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	if m.Selected != 0 {
		t.Errorf("home selected %d, want 0", m.Selected)
	}
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar("Question", 5, 25, 40)
	if p.Fraction() != 0.2 {
		t.Errorf("fraction = %v", p.Fraction())
	}
	if !strings.Contains(p.View(), "5/25") {
		t.Error("view missing count")
	}
	if NewProgressBar("", 3, 0, 10).Fraction() != 0 {
		t.Error("zero total should be empty")
	}
	if NewProgressBar("", 9, 3, 10).Fraction() != 1 {
		t.Error("overfull bar should clamp")
	}
}

func TestButtonRow(t *testing.T) {
	row := ButtonRow(Button{Key: "t", Label: "Try again", Active: true}, Button{Key: "h", Label: "Hint"})
	if !strings.Contains(row, "[t] Try again") || !strings.Contains(row, "[h] Hint") {
		t.Errorf("row = %q", row)
	}
}
