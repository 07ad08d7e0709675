package tui

import (
	"math"

	"github.com/ensigniasec/pullrefresh/internal/refresh"
)

// scrollView simulates a vertically scrolling surface measured in terminal rows.
// It is only touched from the update loop.
type scrollView struct {
	offset float64
	inset  refresh.InsetSpec

	contentRows int
	height      int

	dragging         bool
	dragOriginY      int
	dragOriginOffset float64
	// settling is set on release and cleared when the view comes to rest.
	settling bool
	// target is the destination of a programmatic scroll in progress.
	target *float64

	// starts holds refresh completions handed out by the machine and not yet
	// turned into commands.
	starts []func()
}

// ScrollTo implements refresh.ScrollableSurface. The move is animated.
func (v *scrollView) ScrollTo(p refresh.Point) {
	y := p.Y
	v.target = &y
}

// SetContentInset implements refresh.ScrollableSurface.
func (v *scrollView) SetContentInset(i refresh.InsetSpec) { v.inset = i }

func (v *scrollView) queueStart(done func()) { v.starts = append(v.starts, done) }

func (v *scrollView) takeStarts() []func() {
	s := v.starts
	v.starts = nil
	return s
}

// rest is the offset at which the content start touches the inset edge.
func (v *scrollView) rest() float64 { return -v.inset.Value(refresh.SideTop) }

func (v *scrollView) maxOffset() float64 {
	return math.Max(v.rest(), float64(v.contentRows-v.height))
}

func (v *scrollView) metrics() refresh.ScrollMetrics {
	return refresh.ScrollMetrics{
		ContentInset:  v.inset.Resolve(),
		ContentOffset: refresh.Point{Y: v.offset},
	}
}

func (v *scrollView) beginDrag(y int) {
	v.dragging = true
	v.settling = false
	v.target = nil
	v.dragOriginY = y
	v.dragOriginOffset = v.offset
}

// dragTo follows the pointer one row per row. Past the bottom the content does
// not move; past the top it is pulled into the overscroll area.
func (v *scrollView) dragTo(y int) bool {
	next := math.Min(v.dragOriginOffset-float64(y-v.dragOriginY), v.maxOffset())
	if next == v.offset {
		return false
	}
	v.offset = next
	return true
}

// pointerY is where the pointer would be for the current drag offset.
func (v *scrollView) pointerY() int {
	return v.dragOriginY + int(math.Round(v.dragOriginOffset-v.offset))
}

func (v *scrollView) endDrag() {
	v.dragging = false
	v.settling = true
}

// scrollBy moves the content while nobody is dragging, clamped to the scrollable
// range.
func (v *scrollView) scrollBy(rows float64) bool {
	next := math.Min(math.Max(v.offset+rows, v.rest()), v.maxOffset())
	if next == v.offset {
		return false
	}
	v.offset = next
	return true
}

// step advances one frame. moved reports an offset change; settled reports the
// end of the motion that followed a release.
func (v *scrollView) step() (moved, settled bool) {
	if v.target != nil {
		var done bool
		v.offset, done = approach(v.offset, *v.target)
		if done {
			v.target = nil
		}
		return true, false
	}
	if v.dragging {
		return false, false
	}
	if rest := v.rest(); v.offset < rest {
		v.offset, _ = approach(v.offset, rest)
		return true, false
	}
	if v.settling {
		v.settling = false
		return false, true
	}
	return false, false
}

func approach(cur, target float64) (float64, bool) {
	d := target - cur
	if math.Abs(d) < snapDistance {
		return target, true
	}
	return cur + d*relaxFactor, false
}

// gap is the number of rows between the top edge and the content start.
func (v *scrollView) gap() int {
	if v.offset >= 0 {
		return 0
	}
	return min(int(math.Round(-v.offset)), v.height)
}

// firstRow is the index of the first content row on screen.
func (v *scrollView) firstRow() int {
	if v.offset <= 0 {
		return 0
	}
	return int(math.Round(v.offset))
}
