package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduelevate/internal/planbook"
	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/screen"
)

func testOptions(skipSplash bool) Options {
	return Options{
		Deps: screen.Deps{
			Roster:  roster.NewStore(roster.WithSeed(roster.SeedStudents())),
			Catalog: planbook.NewCatalog(planbook.Seed()...),
		},
		SkipSplash: skipSplash,
	}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newAppModel(testOptions(true))
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_SplashReplacedByHome(t *testing.T) {
	m := newAppModel(testOptions(false))
	assert.NotNil(t, m.Init())
	assert.Equal(t, "", m.router.Active().Title())

	m, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "Home", m.router.Active().Title())
	assert.Equal(t, 1, m.router.Depth())
}

func TestApp_EscAtHomeIsNotIntercepted(t *testing.T) {
	m := newAppModel(testOptions(true))
	m, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.router.Depth())
}

func TestApp_RenderHeaderFollowsSettings(t *testing.T) {
	m := newAppModel(testOptions(true))
	assert.Empty(t, m.render())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	out := m.render()
	assert.Contains(t, out, "EduElevate")
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "T-TESS off")
	assert.Contains(t, out, "Quit")

	m.settings.AlignmentMode = true
	assert.Contains(t, m.render(), "T-TESS on")
}

func TestApp_TooSmall(t *testing.T) {
	m := newAppModel(testOptions(true))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, m.render(), "Terminal too small")
}

func TestApp_FooterUsesScreenHints(t *testing.T) {
	m := newAppModel(testOptions(true))
	m, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Equal(t, 2, m.router.Depth())

	hints := m.footerHints(m.router.Active())
	require.NotEmpty(t, hints)
	assert.Equal(t, "Ctrl+C", hints[len(hints)-1].Key)
}
