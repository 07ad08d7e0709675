// Package trace replays scripted host events through a refresh.Machine on a
// virtual clock and records what the machine did in response.
package trace

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/pullrefresh/internal/config"
	"github.com/ensigniasec/pullrefresh/internal/refresh"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrBadEvent     = errors.New("malformed event")
	ErrNothingToEnd = errors.New("complete without a pending refresh")
)

// Kind enumerates trace events.
type Kind string

const (
	KindLayout      Kind = "layout"
	KindGrant       Kind = "grant"
	KindRelease     Kind = "release"
	KindScroll      Kind = "scroll"
	KindMomentumEnd Kind = "momentum_end"
	KindComplete    Kind = "complete"
	KindAdvance     Kind = "advance"
)

// Valid implements validate.Enum.
func (k Kind) Valid() bool {
	switch k {
	case KindLayout, KindGrant, KindRelease, KindScroll, KindMomentumEnd, KindComplete, KindAdvance:
		return true
	}
	return false
}

func (k Kind) takesValue() bool {
	return k == KindLayout || k == KindScroll || k == KindAdvance
}

// Event is one scripted input. In YAML it is either a bare kind ("grant") or a
// single-key mapping ("layout: 60", "advance: 300ms", "scroll: {offset: {y: -90}}").
type Event struct {
	Kind    Kind                  `json:"kind"`
	Extent  float64               `json:"extent,omitempty"`
	Metrics refresh.ScrollMetrics `json:"metrics"`
	Advance time.Duration         `json:"advance,omitempty"`
}

// Trace is a config plus an ordered list of events.
type Trace struct {
	Config config.File `yaml:"config"`
	Events []Event     `yaml:"events"`
}

// ReadFile loads a YAML trace.
func ReadFile(path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, err
	}
	return Parse(data)
}

// Parse decodes a YAML trace.
func Parse(data []byte) (Trace, error) {
	var tr Trace
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return Trace{}, err
	}
	return tr, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Event) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		k := Kind(node.Value)
		if !k.Valid() {
			return fmt.Errorf("line %d: %w %q", node.Line, ErrUnknownEvent, node.Value)
		}
		if k.takesValue() {
			return fmt.Errorf("line %d: %w: %s needs a value", node.Line, ErrBadEvent, k)
		}
		*e = Event{Kind: k}
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: %w: expected exactly one key", node.Line, ErrBadEvent)
		}
		k := Kind(node.Content[0].Value)
		if !k.Valid() {
			return fmt.Errorf("line %d: %w %q", node.Line, ErrUnknownEvent, node.Content[0].Value)
		}
		*e = Event{Kind: k}
		return e.decodeValue(node.Content[1])
	}
	return fmt.Errorf("line %d: %w", node.Line, ErrBadEvent)
}

func (e *Event) decodeValue(v *yaml.Node) error {
	var err error
	switch e.Kind {
	case KindLayout:
		err = v.Decode(&e.Extent)
	case KindScroll:
		err = v.Decode(&e.Metrics)
	case KindAdvance:
		var s string
		if err = v.Decode(&s); err == nil {
			e.Advance, err = time.ParseDuration(s)
		}
	case KindGrant, KindRelease, KindMomentumEnd, KindComplete:
		// Value ignored ("grant: {}" is accepted).
	}
	if err != nil {
		return fmt.Errorf("line %d: %w: %s: %w", v.Line, ErrBadEvent, e.Kind, err)
	}
	return nil
}

func (e Event) String() string {
	switch e.Kind {
	case KindLayout:
		return fmt.Sprintf("layout %g", e.Extent)
	case KindScroll:
		m := e.Metrics
		return fmt.Sprintf("scroll (%g,%g) inset t%g l%g", m.ContentOffset.X, m.ContentOffset.Y, m.ContentInset.Top, m.ContentInset.Left)
	case KindAdvance:
		return "advance " + e.Advance.String()
	case KindGrant, KindRelease, KindMomentumEnd, KindComplete:
	}
	return string(e.Kind)
}
