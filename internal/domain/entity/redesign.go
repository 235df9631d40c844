package entity

import (
	"time"

	"website_revolution/internal/domain/value"
)

// Redesign is a generated website proposal for one business.
type Redesign struct {
	Filename     value.RedesignFilename
	BusinessID   string
	BusinessName string
	HTML         string
	CSS          string
	Improvements []string
	DesignNotes  []string
	CreatedAt    time.Time
}
