package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/planbook"
	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/store"
	"github.com/abhisek/eduelevate/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Coach submits coaching requests. *coaching.Gateway satisfies it.
type Coach interface {
	Submit(ctx context.Context, req coaching.Request) coaching.Report
}

// Settings are toggled from the home menu and read by every screen that
// builds a coaching request.
type Settings struct {
	AlignmentMode bool
}

// Flags returns the request flags for the current settings.
func (s *Settings) Flags() coaching.Flags {
	if s == nil {
		return coaching.Flags{}
	}
	return coaching.Flags{AlignmentMode: s.AlignmentMode}
}

// Deps bundles what screens need. Roster and Catalog are only touched from
// the Bubble Tea update loop; Coach calls receive snapshots.
type Deps struct {
	Roster   *roster.Store
	Catalog  *planbook.Catalog
	Coach    Coach
	Events   store.EventRepo
	Settings *Settings

	// Provider names the configured model provider; empty when none is.
	Provider string
}
