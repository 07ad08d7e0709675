package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/pullrefresh/internal/config"
	"github.com/ensigniasec/pullrefresh/internal/refresh"
	"github.com/ensigniasec/pullrefresh/internal/source"
	"github.com/ensigniasec/pullrefresh/internal/storage"
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context //nolint:containedctx // commands outlive Update calls.
	machine *refresh.Machine
	view    *scrollView
	demo    config.Demo
	history *storage.Storage

	listing source.Listing
	lastErr error
	cycles  int
	// minRefresh is the shortest time a refresh keeps the indicator active.
	minRefresh time.Duration

	spinner  spinner.Model
	progress progress.Model
	content  viewport.Model
	help     help.Model
	keys     keyMap

	width       int
	height      int
	helpVisible bool
	quitting    bool
}

// New builds the demo model and its refresh machine. Timer callbacks are
// scheduled on sched; history may be nil.
func New(ctx context.Context, settings config.Settings, sched refresh.TimerScheduler, history *storage.Storage) (Model, error) {
	if settings.Refresh.Orientation != refresh.Vertical {
		return Model{}, ErrUnsupportedOrientation
	}
	view := &scrollView{height: defaultHeight - headerLines - footerLines}
	machine, err := refresh.New(settings.Refresh, view, sched, view.queueStart,
		refresh.WithLogger(logrus.WithField("component", "refresh")))
	if err != nil {
		return Model{}, err
	}

	// The host applies the initial inset; later changes are pushed by the machine.
	view.SetContentInset(machine.ExposedInset())
	view.offset = view.rest()
	machine.OnIndicatorLayout(float64(settings.Demo.IndicatorRows))
	machine.OnScroll(view.metrics())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = progressWidth

	return Model{
		ctx:        ctx,
		machine:    machine,
		view:       view,
		demo:       settings.Demo,
		history:    history,
		minRefresh: minRefreshDuration,
		spinner:    sp,
		progress:   p,
		content:    viewport.New(defaultWidth, view.height),
		help:       help.New(),
		keys:       newKeyMap(),
		width:      defaultWidth,
		height:     defaultHeight,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.list(nil, ""),
		frame(),
	)
}

// Close stops the machine's timers.
func (m Model) Close() { m.machine.Close() }

// Snapshot exposes the machine's presentation for callers and tests.
func (m Model) Snapshot() refresh.Snapshot { return m.machine.Snapshot() }

// frame schedules the next physics step.
func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// list returns a command that lists the demo root. done and cycleID are set when
// the listing is a refresh.
func (m Model) list(done func(), cycleID string) tea.Cmd {
	ctx, root, minWait := m.ctx, m.demo.Root, m.minRefresh
	opts := source.Options{MaxEntries: m.demo.MaxEntries}
	if done == nil {
		minWait = 0
	}
	return func() tea.Msg {
		start := time.Now()
		lctx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()
		listing, err := source.List(lctx, root, opts)
		if wait := minWait - time.Since(start); wait > 0 {
			time.Sleep(wait)
		}
		return listedMsg{Listing: listing, Err: err, CycleID: cycleID, done: done}
	}
}

// startRefreshes turns refresh starts queued by the machine into listing
// commands, opening a history cycle for each.
func (m Model) startRefreshes() tea.Cmd {
	starts := m.view.takeStarts()
	if len(starts) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(starts))
	for _, done := range starts {
		var id string
		if m.history != nil {
			id = m.history.BeginCycle(m.machine.Config().Orientation.String(), time.Now())
		}
		cmds = append(cmds, m.list(done, id))
	}
	return tea.Batch(cmds...)
}
