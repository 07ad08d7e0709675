//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/pullrefresh/internal/config"
	"github.com/ensigniasec/pullrefresh/internal/refresh"
	"github.com/ensigniasec/pullrefresh/internal/scheduler"
	"github.com/ensigniasec/pullrefresh/internal/source"
	"github.com/ensigniasec/pullrefresh/internal/storage"
)

type fixture struct {
	model   Model
	clock   *scheduler.Manual
	history *storage.Storage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c/d.txt"} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
	}
	history, err := storage.NewStorage(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	settings := config.Default()
	settings.Demo.Root = root
	clock := scheduler.NewManual()
	m, err := New(context.Background(), settings, clock, history)
	require.NoError(t, err)
	m.minRefresh = 0
	t.Cleanup(m.Close)

	return &fixture{model: m, clock: clock, history: history}
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	f.model = m
	return cmd
}

func (f *fixture) key(t *testing.T, k string) tea.Cmd {
	t.Helper()
	if k == "enter" {
		return f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	}
	return f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func (f *fixture) frames(t *testing.T, n int) {
	t.Helper()
	for range n {
		f.send(t, frameMsg{})
	}
}

// findMsg runs cmd, flattening batches, and returns the first message of type T.
func findMsg[T tea.Msg](cmd tea.Cmd) (T, bool) {
	var zero T
	if cmd == nil {
		return zero, false
	}
	switch msg := cmd().(type) {
	case T:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if found, ok := findMsg[T](c); ok {
				return found, true
			}
		}
	}
	return zero, false
}

func sourceListing(n int) source.Listing {
	l := source.Listing{Root: "/demo"}
	for i := range n {
		l.Entries = append(l.Entries, source.Entry{Path: "file" + strconv.Itoa(i), Size: int64(i)})
	}
	return l
}

func (f *fixture) phase() refresh.Phase { return f.model.Snapshot().State.Phase() }

func TestNew_RejectsHorizontal(t *testing.T) {
	t.Parallel()

	settings := config.Default()
	settings.Refresh.Orientation = refresh.Horizontal
	_, err := New(context.Background(), settings, scheduler.NewManual(), nil)
	require.ErrorIs(t, err, ErrUnsupportedOrientation)
}

func TestModel_PullReleaseRefreshCycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// Threshold is twice the three-row indicator.
	for range 5 {
		require.Nil(t, f.key(t, "p"))
	}
	require.InDelta(t, 5.0/6.0, f.model.Snapshot().State.PullProgress, 1e-9)
	f.key(t, "p")
	snap := f.model.Snapshot()
	require.InDelta(t, 1.0, snap.State.PullProgress, 1e-9)
	require.True(t, snap.State.Tracking)
	require.Contains(t, f.model.View(), "release to refresh")

	cmd := f.key(t, "enter")
	require.NotNil(t, cmd)
	require.Equal(t, refresh.PhaseRefreshing, f.phase())
	require.InDelta(t, 3.0, f.model.view.inset.Value(refresh.SideTop), 1e-9)
	require.Contains(t, f.model.View(), "refreshing")

	listed, ok := findMsg[listedMsg](cmd)
	require.True(t, ok)
	require.NoError(t, listed.Err)
	require.Len(t, listed.Listing.Entries, 3)
	require.NotEmpty(t, listed.CycleID)

	// The view is still stretched past the band, so the machine waits for rest.
	f.send(t, listed)
	require.Equal(t, refresh.PhaseWaitingToRest, f.phase())
	require.Equal(t, 1, f.model.cycles)

	f.frames(t, 40)
	require.Equal(t, 1, f.clock.Pending())
	f.clock.Advance(refresh.DefaultMomentumSettleDelay)
	require.Equal(t, refresh.PhaseReturningToTop, f.phase())
	require.False(t, f.model.Snapshot().InteractionEnabled)

	// Interaction is locked while returning.
	f.key(t, "p")
	require.False(t, f.model.view.dragging)

	f.frames(t, 40)
	require.InDelta(t, 0.0, f.model.view.offset, 1e-9)
	f.clock.Advance(refresh.DefaultRestoreTimeout)
	require.Equal(t, refresh.PhaseIdle, f.phase())
	require.True(t, f.model.Snapshot().InteractionEnabled)

	cycles := f.history.Cycles()
	require.Len(t, cycles, 1)
	require.Equal(t, 3, cycles[0].Items)
	require.False(t, cycles[0].EndedAt.IsZero())
}

func TestModel_MouseDrag(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.send(t, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Y: 5})
	require.True(t, f.model.Snapshot().State.Tracking)

	f.send(t, tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft, Y: 9})
	require.InDelta(t, -4.0, f.model.view.offset, 1e-9)
	require.InDelta(t, 4.0/6.0, f.model.Snapshot().State.PullProgress, 1e-9)

	cmd := f.send(t, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft, Y: 9})
	require.Nil(t, cmd)
	require.False(t, f.model.Snapshot().State.Tracking)
	require.Equal(t, refresh.PhaseIdle, f.phase())

	// The band relaxes back and progress follows.
	f.frames(t, 40)
	require.InDelta(t, 0.0, f.model.view.offset, 1e-9)
	require.InDelta(t, 0.0, f.model.Snapshot().State.PullProgress, 1e-9)
}

func TestModel_TimerCallbacksRunOnLoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ran := false
	f.send(t, runMsg{f: func() { ran = true }})
	require.True(t, ran)
}

func TestModel_ScrollClamped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.key(t, "k")
	require.InDelta(t, 0.0, f.model.view.offset, 1e-9)

	f.send(t, listedMsg{Listing: sourceListing(40)})
	f.send(t, tea.WindowSizeMsg{Width: 60, Height: 13})
	require.Equal(t, 10, f.model.view.height)

	for range 50 {
		f.key(t, "j")
	}
	require.InDelta(t, 30.0, f.model.view.offset, 1e-9)
	require.Zero(t, f.model.Snapshot().State.PullProgress)
}

func TestModel_QuitAndHelp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.key(t, "?")
	require.True(t, f.model.helpVisible)
	require.True(t, f.model.help.ShowAll)

	cmd := f.key(t, "q")
	require.NotNil(t, cmd)
	require.True(t, f.model.quitting)
	require.Equal(t, "Shutting down...\n", f.model.View())
}

func TestHumanSize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "512 B", humanSize(512))
	require.Equal(t, "1.5 KiB", humanSize(1536))
	require.Equal(t, "2.0 MiB", humanSize(2*1024*1024))
}

func TestScrollView_StepAnimatesTarget(t *testing.T) {
	t.Parallel()

	v := &scrollView{height: 10, contentRows: 5, offset: -3}
	v.ScrollTo(refresh.Point{Y: 0})
	for range 30 {
		moved, settled := v.step()
		require.False(t, settled)
		if !moved {
			break
		}
	}
	require.Nil(t, v.target)
	require.InDelta(t, 0.0, v.offset, 1e-9)
}
