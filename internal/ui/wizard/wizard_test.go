package wizard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"regdraft/internal/registration"
	"regdraft/internal/schema"
	"regdraft/internal/testutil"
	wiz "regdraft/internal/wizard"
)

type fakeDraft struct {
	responses registration.ResponseMap
}

func (d *fakeDraft) ID() string { return "draft-1" }

func (d *fakeDraft) RegistrationResponses() registration.ResponseMap {
	return d.responses.Clone()
}

func (d *fakeDraft) SetRegistrationResponses(m registration.ResponseMap) {
	d.responses = m
}

func (d *fakeDraft) Schema(context.Context) (registration.Schema, error) {
	return registration.Schema{ID: "s1", Name: "Test Schema", Version: 1}, nil
}

func (d *fakeDraft) Save(context.Context) error { return nil }

type fakeProvider struct{ draft *fakeDraft }

func (p *fakeProvider) ResolveDraft(context.Context) (registration.Draft, error) {
	return p.draft, nil
}

type fakeLoader struct{ blocks []schema.Block }

func (l *fakeLoader) SchemaBlocks(context.Context, registration.Schema) ([]schema.Block, error) {
	return l.blocks, nil
}

// newTestModel initializes a manager over the given blocks and wraps it
// in a wizard view. The debounce is long enough that no save fires
// during a test.
func newTestModel(t *testing.T, blocks []schema.Block) *Model {
	t.Helper()

	mgr := wiz.New(wiz.Config{
		Provider: &fakeProvider{draft: &fakeDraft{responses: registration.ResponseMap{}}},
		Blocks:   &fakeLoader{blocks: blocks},
		Debounce: time.Hour,
	})
	require.NoError(t, mgr.Init(context.Background()))
	t.Cleanup(mgr.Close)

	m := New(mgr, Options{ShowStatusBar: true, MarkdownStyle: "dark"})
	t.Cleanup(m.Close)
	return m
}

// update runs one message through the model and hands back the concrete
// type for assertions.
func update(t *testing.T, m *Model, msg tea.Msg) *Model {
	t.Helper()
	next, _ := m.Update(msg)
	require.IsType(t, &Model{}, next)
	return next.(*Model)
}

func typeString(t *testing.T, m *Model, s string) *Model {
	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(t *testing.T, m *Model, k string) *Model {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "pgdown":
		msg = tea.KeyMsg{Type: tea.KeyPgDown}
	case "pgup":
		msg = tea.KeyMsg{Type: tea.KeyPgUp}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return update(t, m, msg)
}

func TestUpdateSatisfiesProgramContract(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithTwoPageSchema().Build())

	// tea.NewProgram drives the model through the tea.Model interface;
	// Update must hand the same model back through it.
	var prog tea.Model = m
	next, _ := prog.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	require.Same(t, m, next)
	require.Equal(t, 100, m.width)
}

func TestView_ShowsHeadingAndQuestions(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithTwoPageSchema().Build())

	view := m.View()
	require.Contains(t, view, "Study Design")
	require.Contains(t, view, "What is your hypothesis?")
	require.Contains(t, view, "(required)")
	require.Contains(t, view, "Page 1/2")
	require.Contains(t, view, "incomplete")
}

func TestTyping_StagesResponseAndArmsAutosave(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithTwoPageSchema().Build())

	m = typeString(t, m, "more sleep")

	pm := m.mgr.CurrentPageManager()
	require.Equal(t, "more sleep", pm.Response("q-hypothesis"))
	require.True(t, m.mgr.AutoSaving(), "typing must schedule an autosave")
	require.Contains(t, m.View(), "unsaved edits")
}

func TestPageNavigation(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithTwoPageSchema().Build())

	m = key(t, m, "pgdown")
	require.Equal(t, 2, m.mgr.CurrentPage())
	require.Contains(t, m.View(), "Data Collection")

	// Past the last page is a no-op.
	m = key(t, m, "pgdown")
	require.Equal(t, 2, m.mgr.CurrentPage())

	m = key(t, m, "pgup")
	require.Equal(t, 1, m.mgr.CurrentPage())
	require.Contains(t, m.View(), "Study Design")
}

func TestNavigationKeepsStagedValues(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithTwoPageSchema().Build())

	m = typeString(t, m, "h1")
	m = key(t, m, "pgdown")
	m = key(t, m, "pgup")

	require.Equal(t, "h1", m.fields[0].input.Value(), "staged value must survive page round-trip")
}

func TestSelectCycling(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithSelectSchema().Build())

	pm := m.mgr.CurrentPageManager()
	require.Nil(t, pm.Response("q-type"))

	m = key(t, m, "enter")
	require.Equal(t, "Experiment", pm.Response("q-type"))

	m = key(t, m, "enter")
	require.Equal(t, "Observational", pm.Response("q-type"))

	m = key(t, m, "left")
	require.Equal(t, "Experiment", pm.Response("q-type"))

	require.Contains(t, m.View(), "> Experiment")
}

func TestTabMovesFocus(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithSelectSchema().Build())

	require.Equal(t, 0, m.focus)
	m = key(t, m, "tab")
	require.Equal(t, 1, m.focus)
	require.True(t, m.fields[1].input.Focused())

	// Wraps around.
	m = key(t, m, "tab")
	require.Equal(t, 0, m.focus)
}

func TestValidityReachesStatusBar(t *testing.T) {
	blocks := testutil.NewBuilder().
		WithPage("Only").
		WithQuestion("Q", schema.TypeShortTextInput, "q1", testutil.Required(true)).
		Build()
	m := newTestModel(t, blocks)

	require.Contains(t, m.View(), "incomplete")

	m = typeString(t, m, "x")
	require.NotContains(t, m.View(), "incomplete")
	require.True(t, m.valid)
}

func TestSubmittedView(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithTwoPageSchema().Build())

	m = update(t, m, submitResultMsg{err: nil})
	view := m.View()
	require.Contains(t, view, "Registration submitted")
	require.False(t, strings.Contains(view, "Study Design"))
}

func TestSubmitFailureShowsError(t *testing.T) {
	m := newTestModel(t, testutil.NewBuilder().WithTwoPageSchema().Build())

	m = update(t, m, submitResultMsg{err: context.DeadlineExceeded})
	require.Contains(t, m.View(), "save failed")
	require.False(t, m.submitted)
}
