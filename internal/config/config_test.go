//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/pullrefresh/internal/refresh"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, refresh.Vertical, s.Refresh.Orientation)
	assert.True(t, s.Refresh.ReleaseToRefresh)
	assert.Nil(t, s.Refresh.PullDistance)
	assert.Equal(t, refresh.DefaultRestoreTimeout, s.Refresh.RestoreTimeout)
	assert.Equal(t, defaultIndicatorRows, s.Demo.IndicatorRows)
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "pull.yaml", `
orientation: horizontal
pull_distance: 80
release_to_refresh: false
content_inset:
  left: 12
restore_timeout: 450ms
demo:
  indicator_rows: 4
  max_entries: 10
`)
	s, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, refresh.Horizontal, s.Refresh.Orientation)
	require.NotNil(t, s.Refresh.PullDistance)
	assert.InDelta(t, 80.0, *s.Refresh.PullDistance, 1e-9)
	assert.False(t, s.Refresh.ReleaseToRefresh)
	assert.True(t, s.Refresh.ContentInset.Has(refresh.SideLeft))
	assert.False(t, s.Refresh.ContentInset.Has(refresh.SideTop))
	assert.Equal(t, 450*time.Millisecond, s.Refresh.RestoreTimeout)
	assert.Equal(t, refresh.DefaultMomentumSettleDelay, s.Refresh.MomentumSettleDelay)
	assert.Equal(t, 4, s.Demo.IndicatorRows)
	assert.Equal(t, 10, s.Demo.MaxEntries)
	assert.Equal(t, defaultHistoryLimit, s.Demo.HistoryLimit)
}

func TestLoad_TOML(t *testing.T) {
	p := writeFile(t, "pull.toml", `
orientation = "vertical"
release_to_refresh = true
momentum_settle_delay = "0s"

[content_inset]
top = 64.0

[demo]
root = "."
indicator_rows = 2
`)
	s, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, refresh.Vertical, s.Refresh.Orientation)
	assert.InDelta(t, 64.0, s.Refresh.ContentInset.Value(refresh.SideTop), 1e-9)
	assert.Zero(t, s.Refresh.MomentumSettleDelay)
	assert.Equal(t, ".", s.Demo.Root)
	assert.Equal(t, 2, s.Demo.IndicatorRows)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "pull.json", `{}`))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "pull.yaml", "pul_distance: 3\n"))
	require.ErrorIs(t, err, ErrInvalid, "unknown keys are rejected")

	_, err = Load(writeFile(t, "pull.yaml", "orientation: diagonal\n"))
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "pull.yaml", "restore_timeout: soon\n"))
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "pull.yaml", "demo:\n  indicator_rows: 0\n"))
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyYAML(t *testing.T) {
	s, err := Load(writeFile(t, "pull.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		EnvPrefix + "ORIENTATION":        "h",
		EnvPrefix + "PULL_DISTANCE":      "42.5",
		EnvPrefix + "RELEASE_TO_REFRESH": "false",
		EnvPrefix + "RESTORE_TIMEOUT":    "1s",
		EnvPrefix + "CONTENT_INSET_TOP":  "8",
		EnvPrefix + "INDICATOR_ROWS":     "nope",
	}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
	s := Default()
	ApplyEnv(&s, lookup)
	assert.Equal(t, refresh.Horizontal, s.Refresh.Orientation)
	require.NotNil(t, s.Refresh.PullDistance)
	assert.InDelta(t, 42.5, *s.Refresh.PullDistance, 1e-9)
	assert.False(t, s.Refresh.ReleaseToRefresh)
	assert.Equal(t, time.Second, s.Refresh.RestoreTimeout)
	assert.InDelta(t, 8.0, s.Refresh.ContentInset.Value(refresh.SideTop), 1e-9)
	assert.Equal(t, defaultIndicatorRows, s.Demo.IndicatorRows, "malformed values are ignored")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvPrefix+"PULL_DISTANCE", "99")
	s, err := Load(writeFile(t, "pull.yaml", "pull_distance: 10\n"))
	require.NoError(t, err)
	require.NotNil(t, s.Refresh.PullDistance)
	assert.InDelta(t, 99.0, *s.Refresh.PullDistance, 1e-9)
}

func TestLoadDotEnv(t *testing.T) {
	p := writeFile(t, ".env", EnvPrefix+"MAX_ENTRIES=17\n")
	t.Setenv(EnvPrefix+"MAX_ENTRIES", "")
	require.NoError(t, os.Unsetenv(EnvPrefix+"MAX_ENTRIES"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), p))
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 17, s.Demo.MaxEntries)
}

func TestMarshalYAML_RoundTrip(t *testing.T) {
	in := Default()
	in.Refresh = in.Refresh.WithPullDistance(64)
	in.Refresh.ContentInset = refresh.InsetSpec{}.With(refresh.SideTop, 20)

	b, err := MarshalYAML(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), "orientation: vertical")
	assert.Contains(t, string(b), "restore_timeout: 300ms")

	f, err := Decode(b, ".yaml")
	require.NoError(t, err)
	out := Default()
	require.NoError(t, f.Apply(&out))
	assert.InDelta(t, 64.0, *out.Refresh.PullDistance, 1e-9)
	assert.True(t, out.Refresh.ContentInset.Equal(in.Refresh.ContentInset))
	assert.Equal(t, in.Demo, out.Demo)
}
