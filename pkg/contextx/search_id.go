package contextx

import (
	"context"
	"fmt"
)

// SearchID identifies one run of the review pipeline; it is attached to the
// logger of every request that belongs to that run.
type SearchID string

type contextKeySearchID struct{}

func (s SearchID) String() string {
	return string(s)
}

func WithSearchID(ctx context.Context, searchID SearchID) context.Context {
	return context.WithValue(ctx, contextKeySearchID{}, searchID)
}

func SearchIDFromContext(ctx context.Context) (SearchID, error) {
	searchID, ok := ctx.Value(contextKeySearchID{}).(SearchID)
	if !ok {
		return "", fmt.Errorf("search id: %w", ErrNoValue)
	}

	return searchID, nil
}
