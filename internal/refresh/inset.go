package refresh

// InsetAdjustment isolates how much of the reported inset the platform injected on
// top of what was requested. Sides that were not requested adjust by zero.
func InsetAdjustment(reported EdgeInsets, requested InsetSpec) EdgeInsets {
	var adj EdgeInsets
	for _, s := range allSides {
		if requested.Has(s) {
			adj.set(s, reported.Get(s)-requested.Value(s))
		}
	}
	return adj
}

// ExposeInset returns the inset to hand to the surface. While increase is set the
// leading side is padded so the indicator has room, net of platform adjustment.
func ExposeInset(cfg Config, extent *float64, adj EdgeInsets, increase bool) InsetSpec {
	if !increase || extent == nil {
		return cfg.ContentInset
	}
	lead := cfg.Orientation.Leading()
	padded := *extent - adj.Get(lead)
	if configured := cfg.ContentInset.Value(lead); configured > padded {
		padded = configured
	}
	return cfg.ContentInset.With(lead, padded)
}
