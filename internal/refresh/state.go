package refresh

// Phase names the mutually exclusive post-pull lifecycle stages.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRefreshing
	PhaseWaitingToRest
	PhaseReturningToTop
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseWaitingToRest:
		return "waiting_to_rest"
	case PhaseReturningToTop:
		return "returning_to_top"
	}
	return "unknown"
}

// InteractionState is owned by a Machine. Tracking and PullProgress are orthogonal
// to the lifecycle phase; at most one of Refreshing, WaitingToRest and
// ReturningToTop is set.
type InteractionState struct {
	Tracking                   bool    `json:"tracking"`
	PullProgress               float64 `json:"pull_progress"`
	Refreshing                 bool    `json:"refreshing"`
	WaitingToRest              bool    `json:"waiting_to_rest"`
	ReturningToTop             bool    `json:"returning_to_top"`
	ShouldIncreaseContentInset bool    `json:"should_increase_content_inset"`
}

// Phase collapses the lifecycle flags.
func (s InteractionState) Phase() Phase {
	switch {
	case s.Refreshing:
		return PhaseRefreshing
	case s.WaitingToRest:
		return PhaseWaitingToRest
	case s.ReturningToTop:
		return PhaseReturningToTop
	}
	return PhaseIdle
}

// busy is true while any post-pull phase is in progress.
func (s InteractionState) busy() bool {
	return s.Refreshing || s.WaitingToRest || s.ReturningToTop
}

// IndicatorProps is what the indicator renderer receives.
type IndicatorProps struct {
	Progress float64 `json:"progress"`
	Active   bool    `json:"active"`
	// Visible is false while the indicator is idle and nothing has been pulled.
	Visible bool `json:"visible"`
}

// Snapshot is the presentation derived from state.
type Snapshot struct {
	State              InteractionState `json:"state"`
	Indicator          IndicatorProps   `json:"indicator"`
	ExposedInset       InsetSpec        `json:"exposed_inset"`
	InteractionEnabled bool             `json:"interaction_enabled"`
}

// Equal is the memoisation guard: presentation is only recomputed and pushed out
// when it differs from the previous snapshot.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.State == o.State &&
		s.Indicator == o.Indicator &&
		s.InteractionEnabled == o.InteractionEnabled &&
		s.ExposedInset.Equal(o.ExposedInset)
}

func indicatorFor(s InteractionState) IndicatorProps {
	active := s.Refreshing || s.WaitingToRest
	return IndicatorProps{
		Progress: s.PullProgress,
		Active:   active,
		Visible:  active || s.PullProgress > 0,
	}
}
