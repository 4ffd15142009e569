package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/router"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/screens/activity"
	"github.com/abhisek/eduelevate/internal/screens/audit"
	"github.com/abhisek/eduelevate/internal/screens/console"
	"github.com/abhisek/eduelevate/internal/screens/optimizer"
	"github.com/abhisek/eduelevate/internal/screens/students"
	"github.com/abhisek/eduelevate/internal/ui/components"
)

const (
	itemConsole = iota
	itemOptimizer
	itemAudit
	itemRoster
	itemActivity
	itemAlignment
	itemExit
)

// HomeScreen is the main menu.
type HomeScreen struct {
	deps screen.Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. Optimizer and Audit are disabled when no
// model provider is configured; Activity when there is no event log.
func New(deps screen.Deps) *HomeScreen {
	if deps.Settings == nil {
		deps.Settings = &screen.Settings{}
	}
	h := &HomeScreen{deps: deps}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}
	noLLM := deps.Provider == ""

	items := []components.MenuItem{
		itemConsole: {Label: "Console", Action: push(func() screen.Screen { return console.New(deps) })},
		itemOptimizer: {Label: "Lesson Optimizer", Disabled: noLLM,
			Action: push(func() screen.Screen { return optimizer.New(deps) })},
		itemAudit: {Label: "Observation Audit", Disabled: noLLM,
			Action: push(func() screen.Screen { return audit.New(deps) })},
		itemRoster: {Label: "Roster", Action: push(func() screen.Screen { return students.New(deps) })},
		itemActivity: {Label: "LLM Activity", Disabled: deps.Events == nil,
			Action: push(func() screen.Screen { return activity.New(deps.Events) })},
		itemAlignment: {Label: alignmentLabel(deps.Settings.AlignmentMode), Action: h.toggleAlignment},
		itemExit:      {Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func alignmentLabel(on bool) string {
	if on {
		return "T-TESS Alignment: On"
	}
	return "T-TESS Alignment: Off"
}

func (h *HomeScreen) toggleAlignment() tea.Cmd {
	h.deps.Settings.AlignmentMode = !h.deps.Settings.AlignmentMode
	h.menu.SetLabel(itemAlignment, alignmentLabel(h.deps.Settings.AlignmentMode))
	return nil
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 100
	cw := contentWidth(width)

	labels := make([]string, len(h.menu.Items))
	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		labels[i] = item.Label
		disabled[i] = item.Disabled
	}

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if h.deps.Provider == "" {
		sections = append(sections, renderLLMBanner(cw))
	}
	if h.deps.Roster != nil {
		plans := 0
		if h.deps.Catalog != nil {
			plans = h.deps.Catalog.Len()
		}
		sections = append(sections, renderStatsBar(progress.Summarize(h.deps.Roster.Students()), plans, cw))
	}
	sections = append(sections, renderMenu(labels, h.menu.Selected, disabled, cw))

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
