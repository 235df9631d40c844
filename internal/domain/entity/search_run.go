package entity

import (
	"time"

	"website_revolution/internal/domain/value"
)

// SearchRun is one persisted execution of a review search.
type SearchRun struct {
	ID         value.SearchID
	Location   string
	Niche      string
	Businesses []Business
	CreatedAt  time.Time
}

// SearchSummary is a SearchRun without its businesses.
type SearchSummary struct {
	ID          value.SearchID
	Location    string
	Niche       string
	ResultCount int
	CreatedAt   time.Time
}
