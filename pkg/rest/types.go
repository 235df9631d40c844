package rest

import "time"

type OutreachMessages struct {
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	SMS      string `json:"sms"`
}

type Business struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Website          string           `json:"website"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	Address          string           `json:"address"`
	Score            int              `json:"score"                 validate:"min=0,max=100"`
	Issues           []string         `json:"issues"`
	RedesignURL      string           `json:"redesignUrl,omitempty"`
	OutreachMessages OutreachMessages `json:"outreachMessages"`
}

type BusinessesReviewRequest struct {
	Location string `json:"location" validate:"max=200"`
	Niche    string `json:"niche"    validate:"max=200"`
}

// BusinessesReviewResponse is the review envelope. Servers write it on success
// and BusinessesReviewFailure otherwise; clients decode either into it.
type BusinessesReviewResponse struct {
	Success       bool       `json:"success"`
	SearchID      string     `json:"searchId,omitempty"`
	Businesses    []Business `json:"businesses"`
	SetupRequired bool       `json:"setupRequired,omitempty"`
	Error         string     `json:"error,omitempty"`
	Details       string     `json:"details,omitempty"`
}

// BusinessesReviewFailure is the review envelope without businesses.
type BusinessesReviewFailure struct {
	Success       bool   `json:"success"`
	SetupRequired bool   `json:"setupRequired,omitempty"`
	Error         string `json:"error,omitempty"`
	Details       string `json:"details,omitempty"`
}

type CSVExportRequest struct {
	Businesses      []Business `json:"businesses"      validate:"dive"`
	IncludeOutreach bool       `json:"includeOutreach"`
	IncludeAnalysis bool       `json:"includeAnalysis"`
	Niche           string     `json:"niche"`
	Location        string     `json:"location"`
}

type Redesign struct {
	Filename     string    `json:"filename"`
	HTML         string    `json:"html"`
	CSS          string    `json:"css"`
	BusinessName string    `json:"businessName"`
	Improvements []string  `json:"improvements"`
	DesignNotes  []string  `json:"designNotes"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SearchSummary struct {
	ID          string    `json:"id"`
	Location    string    `json:"location"`
	Niche       string    `json:"niche"`
	ResultCount int       `json:"resultCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SearchRun struct {
	ID         string     `json:"id"`
	Location   string     `json:"location"`
	Niche      string     `json:"niche"`
	Businesses []Business `json:"businesses"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type SearchList struct {
	Searches []SearchSummary `json:"searches"`
}

// Error is the body of every non-review failure.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId,omitempty"`
}

type ErrorCode string
