package refresh

import (
	"fmt"
	"strings"
)

// Point is a content offset reported by or commanded to the scroll surface.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Side names one edge of an inset.
type Side int

const (
	SideTop Side = iota
	SideLeft
	SideBottom
	SideRight
)

// allSides is the iteration order used when comparing or adjusting insets.
//
//nolint:gochecknoglobals // immutable lookup table.
var allSides = [...]Side{SideTop, SideLeft, SideBottom, SideRight}

// EdgeInsets is an inset as reported by the platform. Every side has a value.
type EdgeInsets struct {
	Top    float64 `json:"top" yaml:"top"`
	Left   float64 `json:"left" yaml:"left"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Right  float64 `json:"right" yaml:"right"`
}

// Get returns the value of one side.
func (e EdgeInsets) Get(s Side) float64 {
	switch s {
	case SideTop:
		return e.Top
	case SideLeft:
		return e.Left
	case SideBottom:
		return e.Bottom
	case SideRight:
		return e.Right
	}
	return 0
}

func (e *EdgeInsets) set(s Side, v float64) {
	switch s {
	case SideTop:
		e.Top = v
	case SideLeft:
		e.Left = v
	case SideBottom:
		e.Bottom = v
	case SideRight:
		e.Right = v
	}
}

// InsetSpec is an inset requested from the surface. Unset sides are left to the
// platform and never take part in adjustment math.
type InsetSpec struct {
	Top    *float64 `json:"top,omitempty" yaml:"top,omitempty"`
	Left   *float64 `json:"left,omitempty" yaml:"left,omitempty"`
	Bottom *float64 `json:"bottom,omitempty" yaml:"bottom,omitempty"`
	Right  *float64 `json:"right,omitempty" yaml:"right,omitempty"`
}

func (i InsetSpec) ptr(s Side) *float64 {
	switch s {
	case SideTop:
		return i.Top
	case SideLeft:
		return i.Left
	case SideBottom:
		return i.Bottom
	case SideRight:
		return i.Right
	}
	return nil
}

// Has reports whether the side was requested.
func (i InsetSpec) Has(s Side) bool { return i.ptr(s) != nil }

// Value returns the requested value of a side, or 0 when unset.
func (i InsetSpec) Value(s Side) float64 {
	if p := i.ptr(s); p != nil {
		return *p
	}
	return 0
}

// With returns a copy of i with side s set to v.
func (i InsetSpec) With(s Side, v float64) InsetSpec {
	switch s {
	case SideTop:
		i.Top = &v
	case SideLeft:
		i.Left = &v
	case SideBottom:
		i.Bottom = &v
	case SideRight:
		i.Right = &v
	}
	return i
}

// Resolve fills unset sides with zero.
func (i InsetSpec) Resolve() EdgeInsets {
	var out EdgeInsets
	for _, s := range allSides {
		out.set(s, i.Value(s))
	}
	return out
}

// Equal compares two specs side by side, treating set and unset as different.
func (i InsetSpec) Equal(o InsetSpec) bool {
	for _, s := range allSides {
		if i.Has(s) != o.Has(s) || i.Value(s) != o.Value(s) {
			return false
		}
	}
	return true
}

func (i InsetSpec) String() string {
	parts := make([]string, 0, len(allSides))
	for _, s := range allSides {
		if i.Has(s) {
			parts = append(parts, fmt.Sprintf("%s=%g", s, i.Value(s)))
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideLeft:
		return "left"
	case SideBottom:
		return "bottom"
	case SideRight:
		return "right"
	}
	return "unknown"
}

// ScrollMetrics is the snapshot delivered with every scroll event.
type ScrollMetrics struct {
	ContentInset  EdgeInsets `json:"content_inset" yaml:"inset"`
	ContentOffset Point      `json:"content_offset" yaml:"offset"`
}

// Orientation selects the pull axis.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Leading is the inset side content is pulled away from.
func (o Orientation) Leading() Side {
	if o == Horizontal {
		return SideLeft
	}
	return SideTop
}

// Axis returns the coordinate of p along the pull axis.
func (o Orientation) Axis(p Point) float64 {
	if o == Horizontal {
		return p.X
	}
	return p.Y
}

// WithAxis returns p with its pull-axis coordinate replaced.
func (o Orientation) WithAxis(p Point, v float64) Point {
	if o == Horizontal {
		p.X = v
	} else {
		p.Y = v
	}
	return p
}

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool { return o == Vertical || o == Horizontal }

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// ParseOrientation accepts "vertical"/"horizontal" and their first letters.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
}

func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOrientation, int(o))
	}
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
