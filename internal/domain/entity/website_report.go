package entity

import "time"

// WebsiteReport is the raw outcome of inspecting a business website.
type WebsiteReport struct {
	URL        string
	Domain     string
	HasWebsite bool
	Reachable  bool
	StatusCode int
	HTTPS      bool
	LoadTime   time.Duration

	HasViewport        bool
	HasTitle           bool
	HasMetaDescription bool
	HasH1              bool
	HasContactPath     bool
	HasSocialLinks     bool

	TextLength       int
	Images           int
	ImagesMissingAlt int
	CopyrightYear    int

	Emails []string
}

// ContactEmail is the first address found on the site.
func (r WebsiteReport) ContactEmail() string {
	if len(r.Emails) == 0 {
		return ""
	}

	return r.Emails[0]
}
