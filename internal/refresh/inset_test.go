//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package refresh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsetAdjustment_OnlyRequestedSides(t *testing.T) {
	reported := EdgeInsets{Top: 84, Left: 3, Bottom: 34, Right: 0}
	requested := InsetSpec{}.With(SideTop, 20).With(SideBottom, 0)

	adj := InsetAdjustment(reported, requested)
	require.Equal(t, EdgeInsets{Top: 64, Bottom: 34}, adj)
}

func TestInsetAdjustment_NothingRequested(t *testing.T) {
	adj := InsetAdjustment(EdgeInsets{Top: 64, Left: 1}, InsetSpec{})
	require.Equal(t, EdgeInsets{}, adj)
}

func TestExposeInset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContentInset = InsetSpec{}.With(SideTop, 10).With(SideBottom, 5)

	t.Run("not increasing returns configured", func(t *testing.T) {
		got := ExposeInset(cfg, f64(60), EdgeInsets{}, false)
		require.True(t, got.Equal(cfg.ContentInset))
	})

	t.Run("unknown extent returns configured", func(t *testing.T) {
		got := ExposeInset(cfg, nil, EdgeInsets{}, true)
		require.True(t, got.Equal(cfg.ContentInset))
	})

	t.Run("pads leading side net of platform adjustment", func(t *testing.T) {
		got := ExposeInset(cfg, f64(60), EdgeInsets{Top: 20}, true)
		require.InDelta(t, 40.0, got.Value(SideTop), 1e-9)
		require.InDelta(t, 5.0, got.Value(SideBottom), 1e-9)
		require.False(t, got.Has(SideLeft))
	})

	t.Run("never shrinks below configured", func(t *testing.T) {
		got := ExposeInset(cfg, f64(12), EdgeInsets{Top: 8}, true)
		require.InDelta(t, 10.0, got.Value(SideTop), 1e-9)
	})

	t.Run("horizontal pads left", func(t *testing.T) {
		h := DefaultConfig()
		h.Orientation = Horizontal
		got := ExposeInset(h, f64(30), EdgeInsets{}, true)
		require.InDelta(t, 30.0, got.Value(SideLeft), 1e-9)
		require.False(t, got.Has(SideTop))
	})
}

func TestIsOverscrolled(t *testing.T) {
	require.True(t, IsOverscrolled(Point{Y: -61}, EdgeInsets{Top: 60}, Vertical))
	require.False(t, IsOverscrolled(Point{Y: -60}, EdgeInsets{Top: 60}, Vertical))
	require.False(t, IsOverscrolled(Point{Y: 15}, EdgeInsets{}, Vertical))
	require.True(t, IsOverscrolled(Point{X: -1, Y: -100}, EdgeInsets{Top: 200}, Horizontal))
}

func TestInsetSpec_EqualAndString(t *testing.T) {
	a := InsetSpec{}.With(SideTop, 0)
	require.False(t, a.Equal(InsetSpec{}), "set zero differs from unset")
	require.True(t, a.Equal(InsetSpec{}.With(SideTop, 0)))
	require.Equal(t, "{top=0}", a.String())
	require.Equal(t, EdgeInsets{}, a.Resolve())
}

func TestOrientation_Text(t *testing.T) {
	var o Orientation
	require.NoError(t, o.UnmarshalText([]byte("Horizontal")))
	require.Equal(t, Horizontal, o)
	b, err := o.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "horizontal", string(b))

	require.ErrorIs(t, o.UnmarshalText([]byte("diagonal")), ErrUnknownOrientation)
	_, err = Orientation(9).MarshalText()
	require.ErrorIs(t, err, ErrUnknownOrientation)
}
