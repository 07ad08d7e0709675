package refresh

// IsOverscrolled reports whether the content start still sits past its physical
// container edge, i.e. the rubber band has not relaxed.
func IsOverscrolled(offset Point, nativeInset EdgeInsets, o Orientation) bool {
	return o.Axis(offset)+nativeInset.Get(o.Leading()) < 0
}
