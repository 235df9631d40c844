package value

import (
	"errors"
	"strings"
)

var (
	ErrEmptyLocation = errors.New("location is required")
	ErrEmptyNiche    = errors.New("niche is required")
)

// SearchQuery is a validated location/niche pair.
type SearchQuery struct {
	location string
	niche    string
}

func NewSearchQuery(location, niche string) (SearchQuery, error) {
	location = strings.TrimSpace(location)
	niche = strings.TrimSpace(niche)

	var errs []error

	if location == "" {
		errs = append(errs, ErrEmptyLocation)
	}

	if niche == "" {
		errs = append(errs, ErrEmptyNiche)
	}

	if len(errs) > 0 {
		return SearchQuery{}, errors.Join(errs...)
	}

	return SearchQuery{location: location, niche: niche}, nil
}

func (q SearchQuery) Location() string {
	return q.location
}

func (q SearchQuery) Niche() string {
	return q.niche
}

// Text is the free-form query sent to the places provider.
func (q SearchQuery) Text() string {
	return q.niche + " in " + q.location
}

// Key is case and whitespace insensitive.
func (q SearchQuery) Key() string {
	return strings.ToLower(strings.Join(strings.Fields(q.niche), " ")) + "|" +
		strings.ToLower(strings.Join(strings.Fields(q.location), " "))
}

func (q SearchQuery) IsZero() bool {
	return q.location == "" && q.niche == ""
}
