package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduelevate/internal/ui/theme"
)

// Pending tracks the one request a screen is waiting on and animates a
// spinner while it runs. An ID of zero means nothing is in flight.
type Pending struct {
	ID    uint64
	Label string
	spin  spinner.Model
}

// NewPending creates an idle Pending.
func NewPending() Pending {
	return Pending{
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

// Start marks id as in flight and returns the spinner's first tick.
func (p *Pending) Start(id uint64, label string) tea.Cmd {
	p.ID = id
	p.Label = label
	return p.spin.Tick
}

// Active reports whether a request is in flight.
func (p Pending) Active() bool {
	return p.ID != 0
}

// Accept reports whether id is the request being waited on, and if so
// clears it. Results for any other id are stale.
func (p *Pending) Accept(id uint64) bool {
	if p.ID == 0 || id != p.ID {
		return false
	}
	p.ID = 0
	return true
}

// Cancel stops waiting; the result will be dropped when it arrives.
func (p *Pending) Cancel() {
	p.ID = 0
}

// Update advances the spinner while a request is in flight.
func (p Pending) Update(msg tea.Msg) (Pending, tea.Cmd) {
	if !p.Active() {
		return p, nil
	}
	var cmd tea.Cmd
	p.spin, cmd = p.spin.Update(msg)
	return p, cmd
}

// View renders the spinner and label, or "" when idle.
func (p Pending) View() string {
	if !p.Active() {
		return ""
	}
	return p.spin.View() + lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Label)
}
