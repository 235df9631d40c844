package value

const (
	MinScore = 0
	MaxScore = 100
)

// Score is a digital readiness score in [0, 100].
type Score int

// NewScore clamps s into [MinScore, MaxScore].
func NewScore(s int) Score {
	return Score(min(max(s, MinScore), MaxScore))
}

func (s Score) Int() int {
	return int(s)
}

func (s Score) Priority() Priority {
	return ClassifyScore(int(s))
}
