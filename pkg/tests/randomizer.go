package tests

import (
	"math/rand"
	"strings"
	"time"
)

//nolint:gochecknoglobals
var searchTermRunes = []rune("abcXYZ019 -_/!?&'.,éüñ北京🙂\t")

type Randomizer struct {
	Intn func(n int) int
	Bool func() bool
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // for tests

	return Randomizer{
		Intn: random.Intn,
		Bool: func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
	}
}

// SearchTerm returns up to maxLen runes mixing ASCII, punctuation and
// multi-byte characters, the way users type locations and niches.
func (r Randomizer) SearchTerm(maxLen int) string {
	var b strings.Builder

	n := r.Intn(maxLen + 1)
	for range n {
		b.WriteRune(searchTermRunes[r.Intn(len(searchTermRunes))])
	}

	return b.String()
}
