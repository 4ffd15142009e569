package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// Form is a vertical stack of labelled text inputs. Tab and the arrow keys
// move focus; every other message goes to the focused input.
type Form struct {
	Fields  []TextInput
	Focused int
}

// NewForm creates a form with one field per label. The first field is
// focused.
func NewForm(labels ...string) Form {
	fields := make([]TextInput, len(labels))
	for i, l := range labels {
		fields[i] = NewTextInput("", false, 0)
		fields[i].Label = l
		if i > 0 {
			fields[i].Blur()
		}
	}
	return Form{Fields: fields}
}

// Init focuses the first field.
func (f Form) Init() tea.Cmd {
	if len(f.Fields) == 0 {
		return nil
	}
	return f.Fields[f.Focused].Init()
}

// Update handles focus movement and forwards input to the focused field.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if len(f.Fields) == 0 {
		return f, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return f, f.focus((f.Focused + 1) % len(f.Fields))
		case "shift+tab", "up":
			return f, f.focus((f.Focused - 1 + len(f.Fields)) % len(f.Fields))
		}
	}
	var cmd tea.Cmd
	f.Fields[f.Focused], cmd = f.Fields[f.Focused].Update(msg)
	return f, cmd
}

func (f *Form) focus(i int) tea.Cmd {
	f.Fields[f.Focused].Blur()
	f.Focused = i
	return f.Fields[i].Focus()
}

// FocusField moves focus to field i.
func (f *Form) FocusField(i int) tea.Cmd {
	if i < 0 || i >= len(f.Fields) {
		return nil
	}
	return f.focus(i)
}

// Blur removes focus from every field, for when focus moves outside the form.
func (f *Form) Blur() {
	for i := range f.Fields {
		f.Fields[i].Blur()
	}
}

// Last reports whether the last field is focused.
func (f Form) Last() bool {
	return f.Focused == len(f.Fields)-1
}

// Value returns the trimmed value of field i.
func (f Form) Value(i int) string {
	if i < 0 || i >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[i].Value())
}

// SetValue prefills field i.
func (f *Form) SetValue(i int, v string) {
	if i >= 0 && i < len(f.Fields) {
		f.Fields[i].SetValue(v)
	}
}

// View renders every field with a blank line between them.
func (f Form) View() string {
	parts := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		parts[i] = field.View()
	}
	return strings.Join(parts, "\n\n")
}
