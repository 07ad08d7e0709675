package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/pullrefresh/internal/refresh"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "PULLREFRESH_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overlays PULLREFRESH_* variables. Malformed values are logged and
// ignored.
func ApplyEnv(s *Settings, lookup LookupFunc) {
	e := env{lookup: lookup}
	if v, ok := e.str("ORIENTATION"); ok {
		if o, err := refresh.ParseOrientation(v); err == nil {
			s.Refresh.Orientation = o
		} else {
			e.warn("ORIENTATION", v, err)
		}
	}
	if v, ok := e.floatVal("PULL_DISTANCE"); ok {
		s.Refresh = s.Refresh.WithPullDistance(v)
	}
	if v, ok := e.boolVal("RELEASE_TO_REFRESH"); ok {
		s.Refresh.ReleaseToRefresh = v
	}
	if v, ok := e.floatVal("CONTENT_INSET_TOP"); ok {
		s.Refresh.ContentInset = s.Refresh.ContentInset.With(refresh.SideTop, v)
	}
	if v, ok := e.floatVal("CONTENT_INSET_LEFT"); ok {
		s.Refresh.ContentInset = s.Refresh.ContentInset.With(refresh.SideLeft, v)
	}
	if v, ok := e.duration("RESTORE_TIMEOUT"); ok {
		s.Refresh.RestoreTimeout = v
	}
	if v, ok := e.duration("MOMENTUM_SETTLE_DELAY"); ok {
		s.Refresh.MomentumSettleDelay = v
	}
	if v, ok := e.str("DEMO_ROOT"); ok {
		s.Demo.Root = v
	}
	if v, ok := e.intVal("INDICATOR_ROWS"); ok {
		s.Demo.IndicatorRows = v
	}
	if v, ok := e.intVal("MAX_ENTRIES"); ok {
		s.Demo.MaxEntries = v
	}
	if v, ok := e.intVal("HISTORY_LIMIT"); ok {
		s.Demo.HistoryLimit = v
	}
}

type env struct{ lookup LookupFunc }

func (e env) str(key string) (string, bool) {
	if e.lookup == nil {
		return "", false
	}
	v, ok := e.lookup(EnvPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e env) warn(key, value string, err error) {
	logrus.WithFields(logrus.Fields{"key": EnvPrefix + key, "value": value}).
		Warnf("ignoring invalid environment override: %v", err)
}

func (e env) floatVal(key string) (float64, bool) {
	s, ok := e.str(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		e.warn(key, s, err)
		return 0, false
	}
	return v, true
}

func (e env) intVal(key string) (int, bool) {
	s, ok := e.str(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		e.warn(key, s, err)
		return 0, false
	}
	return v, true
}

func (e env) boolVal(key string) (bool, bool) {
	s, ok := e.str(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		e.warn(key, s, err)
		return false, false
	}
	return v, true
}

func (e env) duration(key string) (time.Duration, bool) {
	s, ok := e.str(key)
	if !ok {
		return 0, false
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		e.warn(key, s, err)
		return 0, false
	}
	return v, true
}
