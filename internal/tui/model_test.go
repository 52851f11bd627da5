package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/planner/internal/config"
	"github.com/Makepad-fr/planner/internal/model"
	"github.com/Makepad-fr/planner/internal/planner"
	"github.com/Makepad-fr/planner/internal/ui"
)

type stubService struct {
	mu            sync.Mutex
	items         []model.Item
	listErr       error
	failLists     int // the next n List calls fail
	lists         int
	message       string
	deleted       []string
	rejectDeletes bool
}

func (s *stubService) List(context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.failLists > 0 {
		s.failLists--
		return nil, errors.New("boom")
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]model.Item(nil), s.items...), nil
}

func (s *stubService) Append(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, model.Item{Name: name})
	return s.message, nil
}

func (s *stubService) Delete(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, name)
	if s.rejectDeletes {
		return "not found", errors.New("delete: http 404: rejected")
	}
	for i, it := range s.items {
		if it.Name == name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return "deleted", nil
		}
	}
	return "not found", nil
}

// runCommands feeds every message produced by cmd back into the model until
// nothing is left. Spinner ticks are dropped so the loop terminates.
func runCommands(t *testing.T, m tea.Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var next tea.Cmd
			m, next = m.Update(msg)
			queue = append(queue, next)
		}
	}
	out, ok := m.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(k)
		m = runCommands(t, next, cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func mount(t *testing.T, svc *stubService, opts Options) Model {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })
	opts.Service = svc
	m := New(opts)
	return runCommands(t, m, m.Init())
}

func TestMountRendersRiceRow(t *testing.T) {
	svc := &stubService{items: []model.Item{{Name: "rice", Eaten: false}}}

	m := mount(t, svc, Options{})

	assert.Equal(t, 1, svc.lists)
	assert.Equal(t, []model.Item{{Name: "rice"}}, m.State().Items)
	assert.Len(t, m.list.Items(), 1)
	assert.Contains(t, m.View(), "[ ] rice  to eat")
	assert.False(t, m.State().Busy())
}

func TestAddKimchi(t *testing.T) {
	svc := &stubService{message: "added"}
	m := mount(t, svc, Options{})

	m = press(t, m, runes("a"))
	require.True(t, m.adding)
	m = press(t, m, runes("kimchi"))
	assert.Equal(t, "kimchi", m.State().PendingName)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "added", m.State().Status)
	assert.Empty(t, m.State().PendingName)
	assert.Empty(t, m.ti.Value())
	assert.Equal(t, 2, svc.lists)
	assert.Equal(t, []model.Item{{Name: "kimchi"}}, m.State().Items)
	assert.Contains(t, m.View(), "added")
}

func TestEscClosesInputButKeepsText(t *testing.T) {
	svc := &stubService{}
	m := mount(t, svc, Options{})

	m = press(t, m, runes("a"), runes("tteok"), tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.adding)
	assert.Equal(t, "tteok", m.State().PendingName)
	assert.Equal(t, 1, svc.lists)
}

func TestDeleteSelected(t *testing.T) {
	svc := &stubService{items: []model.Item{{Name: "rice"}, {Name: "kimchi", Eaten: true}}}
	m := mount(t, svc, Options{})

	m = press(t, m, runes("d"))

	assert.Equal(t, []string{"rice"}, svc.deleted)
	assert.Equal(t, "deleted", m.State().Status)
	assert.Equal(t, []model.Item{{Name: "kimchi", Eaten: true}}, m.State().Items)
}

func TestDeleteOnEmptyListDoesNothing(t *testing.T) {
	svc := &stubService{}
	m := mount(t, svc, Options{})

	m = press(t, m, runes("d"))

	assert.Empty(t, svc.deleted)
	assert.Contains(t, m.View(), "nothing planned yet")
}

func TestLoadErrorIsSurfaced(t *testing.T) {
	svc := &stubService{listErr: errors.New("invalid character '<'")}

	m := mount(t, svc, Options{OnError: config.OnErrorSurface})

	require.NotNil(t, m.State().Err)
	assert.Equal(t, 1, svc.lists)
	view := m.View()
	assert.True(t, strings.Contains(view, "list: invalid character"), view)

	svc.listErr = nil
	svc.items = []model.Item{{Name: "rice"}}
	m = press(t, m, runes("r"))

	assert.Nil(t, m.State().Err)
	assert.Equal(t, 2, svc.lists)
	assert.Len(t, m.State().Items, 1)
}

func TestReloadPolicyResetsAfterError(t *testing.T) {
	svc := &stubService{failLists: 1, items: []model.Item{{Name: "rice"}}}

	m := mount(t, svc, Options{OnError: config.OnErrorReload, ReloadDelay: time.Millisecond})

	assert.Nil(t, m.State().Err)
	assert.Equal(t, 2, svc.lists)
	assert.Len(t, m.State().Items, 1)
}

func TestSurfacePolicyDoesNotReset(t *testing.T) {
	svc := &stubService{failLists: 1}

	m := mount(t, svc, Options{OnError: config.OnErrorSurface, ReloadDelay: time.Millisecond})

	assert.NotNil(t, m.State().Err)
	assert.Equal(t, 1, svc.lists)
}

func TestQuit(t *testing.T) {
	m := mount(t, &stubService{}, Options{})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestReloadPolicyOutlivesOlderLoad(t *testing.T) {
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })
	svc := &stubService{items: []model.Item{{Name: "rice"}}}
	m := New(Options{Service: svc, OnError: config.OnErrorReload, ReloadDelay: time.Millisecond})

	// The mount load and the append stay in flight; their answers are
	// delivered out of order by hand.
	step := func(m tea.Model, ev planner.Event) (tea.Model, tea.Cmd) {
		return m.Update(eventMsg{ev})
	}
	next, _ := step(m, planner.Mounted{})
	next, _ = step(next, planner.NameChanged{Text: "kimchi"})
	next, _ = step(next, planner.Submitted{})
	next, reset := step(next, planner.Failed{Seq: 2, Kind: planner.KindAppend, Err: errors.New("connection refused")})
	next, _ = step(next, planner.ItemsLoaded{Seq: 1, Items: []model.Item{{Name: "rice"}}})

	got := next.(Model)
	require.NotNil(t, got.State().Err)
	assert.Contains(t, got.View(), "append: connection refused")
	assert.Zero(t, svc.lists)

	got = runCommands(t, next, reset)

	assert.Nil(t, got.State().Err)
	assert.Equal(t, 1, svc.lists)
	assert.Empty(t, got.State().PendingName)
	assert.Len(t, got.State().Items, 1)
}

func TestRejectedDeleteIsMarked(t *testing.T) {
	svc := &stubService{items: []model.Item{{Name: "rice"}}, rejectDeletes: true}
	m := mount(t, svc, Options{})

	m = press(t, m, runes("d"))

	assert.True(t, m.State().Rejected)
	assert.Nil(t, m.State().Err)
	assert.Contains(t, m.View(), "! not found")
}
