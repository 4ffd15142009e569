package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduelevate/internal/planbook"
)

// NewPlanMenu builds a menu with one item per plan. Choosing an item calls
// onPick with that plan.
func NewPlanMenu(plans []planbook.LessonPlan, onPick func(planbook.LessonPlan) tea.Cmd) Menu {
	items := make([]MenuItem, len(plans))
	for i, p := range plans {
		items[i] = MenuItem{
			Label:  fmt.Sprintf("%s  (%s · %s)", p.Title, p.Curriculum, p.Status),
			Action: func() tea.Cmd { return onPick(p) },
		}
	}
	return NewMenu(items)
}
