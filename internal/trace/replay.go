package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/pullrefresh/internal/config"
	"github.com/ensigniasec/pullrefresh/internal/refresh"
	"github.com/ensigniasec/pullrefresh/internal/scheduler"
)

// Step records the machine's response to one event.
type Step struct {
	Index    int                 `json:"index"`
	At       time.Duration       `json:"at"`
	Event    Event               `json:"event"`
	Snapshot refresh.Snapshot    `json:"snapshot"`
	ScrollTo []refresh.Point     `json:"scroll_to,omitempty"`
	Insets   []refresh.InsetSpec `json:"insets,omitempty"`
	Started  int                 `json:"started,omitempty"`
	Fired    int                 `json:"fired,omitempty"`
}

// Transcript is the full record of a replay.
type Transcript struct {
	Config  refresh.Config   `json:"-"`
	Initial refresh.Snapshot `json:"initial"`
	Steps   []Step           `json:"steps"`
	Starts  int              `json:"starts"`
	Pending int              `json:"pending"`
}

// recorder is the surface seen by the machine during a replay.
type recorder struct {
	scrolls []refresh.Point
	insets  []refresh.InsetSpec
}

func (r *recorder) ScrollTo(p refresh.Point)            { r.scrolls = append(r.scrolls, p) }
func (r *recorder) SetContentInset(i refresh.InsetSpec) { r.insets = append(r.insets, i) }

func (r *recorder) take() ([]refresh.Point, []refresh.InsetSpec) {
	s, i := r.scrolls, r.insets
	r.scrolls, r.insets = nil, nil
	return s, i
}

// Replay runs tr against a fresh machine on a virtual clock. Refreshes started
// by the machine stay pending until a "complete" event ends the oldest one.
func Replay(tr Trace, log logrus.FieldLogger) (Transcript, error) {
	settings := config.Default()
	if err := tr.Config.Apply(&settings); err != nil {
		return Transcript{}, err
	}
	if err := settings.Validate(); err != nil {
		return Transcript{}, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	clock := scheduler.NewManual()
	surface := &recorder{}
	var pending []func()
	starts := 0
	onStart := func(done func()) {
		starts++
		pending = append(pending, done)
	}

	m, err := refresh.New(settings.Refresh, surface, clock, onStart, refresh.WithLogger(log))
	if err != nil {
		return Transcript{}, err
	}
	defer m.Close()

	out := Transcript{Config: settings.Refresh, Initial: m.Snapshot()}
	for i, ev := range tr.Events {
		before := starts
		fired := 0
		switch ev.Kind {
		case KindLayout:
			m.OnIndicatorLayout(ev.Extent)
		case KindGrant:
			m.OnResponderGrant()
		case KindRelease:
			m.OnResponderRelease()
		case KindScroll:
			m.OnScroll(ev.Metrics)
		case KindMomentumEnd:
			m.OnMomentumScrollEnd()
		case KindComplete:
			if len(pending) == 0 {
				return out, fmt.Errorf("event %d: %w", i, ErrNothingToEnd)
			}
			done := pending[0]
			pending = pending[1:]
			done()
		case KindAdvance:
			fired = clock.Advance(ev.Advance)
		default:
			return out, fmt.Errorf("event %d: %w %q", i, ErrUnknownEvent, ev.Kind)
		}
		scrolls, insets := surface.take()
		out.Steps = append(out.Steps, Step{
			Index:    i,
			At:       clock.Now(),
			Event:    ev,
			Snapshot: m.Snapshot(),
			ScrollTo: scrolls,
			Insets:   insets,
			Started:  starts - before,
			Fired:    fired,
		})
	}
	out.Starts = starts
	out.Pending = len(pending)
	return out, nil
}

// Final returns the snapshot after the last event.
func (t Transcript) Final() refresh.Snapshot {
	if len(t.Steps) == 0 {
		return t.Initial
	}
	return t.Steps[len(t.Steps)-1].Snapshot
}

// WriteJSON writes the transcript as indented JSON.
func (t Transcript) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteText writes one line per step.
func (t Transcript) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "orientation=%s release_to_refresh=%t initial_inset=%s\n",
		t.Config.Orientation, t.Config.ReleaseToRefresh, t.Initial.ExposedInset); err != nil {
		return err
	}
	for _, s := range t.Steps {
		if _, err := fmt.Fprintln(w, s.line()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "refreshes started=%d pending=%d\n", t.Starts, t.Pending)
	return err
}

func (s Step) line() string {
	st := s.Snapshot.State
	var b strings.Builder
	fmt.Fprintf(&b, "%3d %8s  %-34s %-15s progress=%.2f", s.Index, s.At, s.Event, st.Phase(), st.PullProgress)
	if st.Tracking {
		b.WriteString(" tracking")
	}
	if !s.Snapshot.InteractionEnabled {
		b.WriteString(" locked")
	}
	for _, in := range s.Insets {
		fmt.Fprintf(&b, " inset=%s", in)
	}
	for _, p := range s.ScrollTo {
		fmt.Fprintf(&b, " scroll_to=(%g,%g)", p.X, p.Y)
	}
	if s.Started > 0 {
		b.WriteString(" refresh_started")
	}
	if s.Fired > 0 {
		fmt.Fprintf(&b, " timers_fired=%d", s.Fired)
	}
	return b.String()
}
