package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"website_revolution/internal/domain/value"
)

func TestNewRedesignFilename(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		businessID string
		filename   value.RedesignFilename
	}{
		{name: "Joe's Diner", businessID: "ChIJ1a2B3c4D5e", filename: "joe-s-diner-7b829e5e.html"},
		{name: "Joe's Diner", businessID: "ChIJ1a2B3c4D5f", filename: "joe-s-diner-3d4416ca.html"},
		{name: "  ", businessID: "abc", filename: "business-b01d8779.html"},
		{name: "Café & Bar", businessID: "", filename: "caf-bar.html"},
	}

	for _, tc := range testCases {
		filename := value.NewRedesignFilename(tc.name, tc.businessID)

		rq.Equal(tc.filename, filename)

		parsed, err := value.ParseRedesignFilename(filename.String())
		rq.NoError(err)
		rq.Equal(filename, parsed)
	}

	rq.Equal("/redesigns/caf-bar.html", value.RedesignFilename("caf-bar.html").Path())
}

func TestNewRedesignFilenameBranchesDoNotCollide(t *testing.T) {
	rq := require.New(t)

	ids := []string{
		"ChIJN1t_tDeuEmsRUsoyG83frY4",
		"ChIJN1t_tDeuEmsRUsoyG83frY5",
		"ChIJN1t_tDeuEmsRAAAAAAAAAAA",
		"ChIJ2eUgeAK6j4ARbn5u_wAGqWA",
	}

	seen := make(map[value.RedesignFilename]string, len(ids))

	for _, id := range ids {
		filename := value.NewRedesignFilename("Joe's Pizza", id)
		rq.NotContains(seen, filename, "%s collides with %s", id, seen[filename])
		seen[filename] = id

		rq.Equal(filename, value.NewRedesignFilename("Joe's Pizza", id))
	}
}

func TestParseRedesignFilename(t *testing.T) {
	rq := require.New(t)

	for _, invalid := range []string{"", "../etc/passwd", "UPPER.html", "name.htm", "a--b.html", "-a.html"} {
		_, err := value.ParseRedesignFilename(invalid)
		rq.ErrorIs(err, value.ErrInvalidRedesignFilename, invalid)
	}
}

func TestSlugify(t *testing.T) {
	rq := require.New(t)

	rq.Equal("joe-s-diner", value.Slugify("Joe's Diner!"))
	rq.Equal("a-b", value.Slugify("--A  B--"))
	rq.Empty(value.Slugify("!!!"))
}
