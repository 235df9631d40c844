package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"website_revolution/pkg/contextx"
)

func TestSearchID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testSearchIDEmpty contextx.SearchID

	testSearchIDNotEmpty := contextx.SearchID("test-search-id")

	searchID, err := contextx.SearchIDFromContext(ctx)
	rq.Equal(testSearchIDEmpty, searchID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "search id: no value in context")

	ctx = contextx.WithSearchID(ctx, testSearchIDNotEmpty)

	searchID, err = contextx.SearchIDFromContext(ctx)
	rq.Equal(testSearchIDNotEmpty, searchID)
	rq.NoError(err)
}
