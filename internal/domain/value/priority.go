package value

// Priority is the outreach priority derived from a digital readiness score.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityGood     Priority = "Good"
)

const (
	criticalBelow = 50
	highBelow     = 70
)

// ClassifyScore is total over int: anything below 50 is Critical, below 70
// High, everything else Good.
func ClassifyScore(score int) Priority {
	switch {
	case score < criticalBelow:
		return PriorityCritical
	case score < highBelow:
		return PriorityHigh
	default:
		return PriorityGood
	}
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) Label() string {
	return string(p)
}

// Theme is the colour family a renderer uses for the priority badge.
func (p Priority) Theme() string {
	switch p {
	case PriorityCritical:
		return "rose"
	case PriorityHigh:
		return "amber"
	case PriorityGood:
		return "emerald"
	default:
		return "slate"
	}
}

// NeedsRedesign reports whether a business at this priority gets a redesign
// proposal.
func (p Priority) NeedsRedesign() bool {
	return p == PriorityCritical || p == PriorityHigh
}
