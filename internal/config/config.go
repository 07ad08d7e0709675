// Package config loads refresh and demo settings from a YAML or TOML file, an
// optional .env file and PULLREFRESH_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/pullrefresh/internal/refresh"
	"github.com/ensigniasec/pullrefresh/internal/validate"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrInvalid           = errors.New("invalid config")
)

const (
	defaultIndicatorRows = 3
	defaultMaxEntries    = 5000
	defaultHistoryLimit  = 200
)

// Demo holds settings for the terminal demo host.
type Demo struct {
	Root          string
	IndicatorRows int `validate:"gte=1,lte=12"`
	MaxEntries    int `validate:"gte=0"`
	HistoryLimit  int `validate:"gte=0"`
}

// Settings is the effective configuration.
type Settings struct {
	Refresh refresh.Config
	Demo    Demo
}

// Default returns built-in settings.
func Default() Settings {
	return Settings{
		Refresh: refresh.DefaultConfig(),
		Demo: Demo{
			IndicatorRows: defaultIndicatorRows,
			MaxEntries:    defaultMaxEntries,
			HistoryLimit:  defaultHistoryLimit,
		},
	}
}

// Validate checks both sections.
func (s Settings) Validate() error {
	if err := s.Refresh.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := validate.Struct(s.Demo); err != nil {
		return fmt.Errorf("%w: demo: %w", ErrInvalid, err)
	}
	return nil
}

// Inset mirrors refresh.InsetSpec with file tags.
type Inset struct {
	Top    *float64 `yaml:"top,omitempty" toml:"top,omitempty"`
	Left   *float64 `yaml:"left,omitempty" toml:"left,omitempty"`
	Bottom *float64 `yaml:"bottom,omitempty" toml:"bottom,omitempty"`
	Right  *float64 `yaml:"right,omitempty" toml:"right,omitempty"`
}

// DemoFile is the [demo] section of a config file.
type DemoFile struct {
	Root          string `yaml:"root,omitempty" toml:"root,omitempty"`
	IndicatorRows *int   `yaml:"indicator_rows,omitempty" toml:"indicator_rows,omitempty"`
	MaxEntries    *int   `yaml:"max_entries,omitempty" toml:"max_entries,omitempty"`
	HistoryLimit  *int   `yaml:"history_limit,omitempty" toml:"history_limit,omitempty"`
}

// File is the on-disk schema. Absent keys keep the defaults.
type File struct {
	Orientation         string    `yaml:"orientation,omitempty" toml:"orientation,omitempty" validate:"omitempty,oneof=vertical horizontal v h"`
	PullDistance        *float64  `yaml:"pull_distance,omitempty" toml:"pull_distance,omitempty"`
	ReleaseToRefresh    *bool     `yaml:"release_to_refresh,omitempty" toml:"release_to_refresh,omitempty"`
	ContentInset        *Inset    `yaml:"content_inset,omitempty" toml:"content_inset,omitempty"`
	RestoreTimeout      string    `yaml:"restore_timeout,omitempty" toml:"restore_timeout,omitempty"`
	MomentumSettleDelay string    `yaml:"momentum_settle_delay,omitempty" toml:"momentum_settle_delay,omitempty"`
	Demo                *DemoFile `yaml:"demo,omitempty" toml:"demo,omitempty"`
}

// Load returns defaults overlaid with the file at path (if any) and the
// environment. An empty path skips the file.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		f, err := ReadFile(path)
		if err != nil {
			return s, err
		}
		if err := f.Apply(&s); err != nil {
			return s, fmt.Errorf("%s: %w", path, err)
		}
	}
	ApplyEnv(&s, os.LookupEnv)
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// ReadFile decodes a config file, choosing the format by extension.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data in the format named by ext (".yaml", ".yml" or ".toml").
func Decode(data []byte, ext string) (File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// Apply overlays the keys present in f onto s.
func (f File) Apply(s *Settings) error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if f.Orientation != "" {
		o, err := refresh.ParseOrientation(f.Orientation)
		if err != nil {
			return err
		}
		s.Refresh.Orientation = o
	}
	if f.PullDistance != nil {
		s.Refresh = s.Refresh.WithPullDistance(*f.PullDistance)
	}
	if f.ReleaseToRefresh != nil {
		s.Refresh.ReleaseToRefresh = *f.ReleaseToRefresh
	}
	if f.ContentInset != nil {
		s.Refresh.ContentInset = refresh.InsetSpec{
			Top:    f.ContentInset.Top,
			Left:   f.ContentInset.Left,
			Bottom: f.ContentInset.Bottom,
			Right:  f.ContentInset.Right,
		}
	}
	if err := parseDuration(f.RestoreTimeout, &s.Refresh.RestoreTimeout); err != nil {
		return fmt.Errorf("restore_timeout: %w", err)
	}
	if err := parseDuration(f.MomentumSettleDelay, &s.Refresh.MomentumSettleDelay); err != nil {
		return fmt.Errorf("momentum_settle_delay: %w", err)
	}
	if d := f.Demo; d != nil {
		if d.Root != "" {
			s.Demo.Root = d.Root
		}
		if d.IndicatorRows != nil {
			s.Demo.IndicatorRows = *d.IndicatorRows
		}
		if d.MaxEntries != nil {
			s.Demo.MaxEntries = *d.MaxEntries
		}
		if d.HistoryLimit != nil {
			s.Demo.HistoryLimit = *d.HistoryLimit
		}
	}
	return nil
}

// ToFile renders s in file form, with every key present.
func ToFile(s Settings) File {
	c := s.Refresh
	release := c.ReleaseToRefresh
	rows, maxEntries, limit := s.Demo.IndicatorRows, s.Demo.MaxEntries, s.Demo.HistoryLimit
	f := File{
		Orientation:         c.Orientation.String(),
		PullDistance:        c.PullDistance,
		ReleaseToRefresh:    &release,
		RestoreTimeout:      c.RestoreTimeout.String(),
		MomentumSettleDelay: c.MomentumSettleDelay.String(),
		Demo: &DemoFile{
			Root:          s.Demo.Root,
			IndicatorRows: &rows,
			MaxEntries:    &maxEntries,
			HistoryLimit:  &limit,
		},
	}
	in := c.ContentInset
	if in.Top != nil || in.Left != nil || in.Bottom != nil || in.Right != nil {
		f.ContentInset = &Inset{Top: in.Top, Left: in.Left, Bottom: in.Bottom, Right: in.Right}
	}
	return f
}

// MarshalYAML renders the effective settings as a YAML document.
func MarshalYAML(s Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToFile(s)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseDuration(v string, dst *time.Duration) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	*dst = d
	return nil
}
