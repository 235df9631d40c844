package entity

import (
	"website_revolution/internal/domain/value"
)

// OutreachMessages holds one ready-to-send message per channel.
type OutreachMessages struct {
	Email    string
	WhatsApp string
	SMS      string
}

func (m OutreachMessages) IsZero() bool {
	return m.Email == "" && m.WhatsApp == "" && m.SMS == ""
}

// Business is a reviewed lead.
type Business struct {
	ID               string
	Name             string
	Website          string
	Phone            string
	Email            string
	Address          string
	Score            int
	Issues           []string
	RedesignURL      string
	OutreachMessages OutreachMessages
}

func (b Business) Priority() value.Priority {
	return value.ClassifyScore(b.Score)
}

// TopIssues returns at most n issues in their original order.
func (b Business) TopIssues(n int) []string {
	if n < 0 {
		n = 0
	}

	if len(b.Issues) <= n {
		return b.Issues
	}

	return b.Issues[:n]
}

func (b Business) HasRedesign() bool {
	return b.RedesignURL != ""
}
