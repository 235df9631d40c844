package scoring

import (
	"fmt"
	"sync"
	"time"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
)

type RuleID string

const (
	RuleNoWebsite         RuleID = "no_website"
	RuleUnreachable       RuleID = "unreachable"
	RuleNoHTTPS           RuleID = "no_https"
	RuleNoViewport        RuleID = "no_viewport"
	RuleSlowLoad          RuleID = "slow_load"
	RuleNoTitle           RuleID = "no_title"
	RuleNoMetaDescription RuleID = "no_meta_description"
	RuleNoH1              RuleID = "no_h1"
	RuleThinContent       RuleID = "thin_content"
	RuleImagesMissingAlt  RuleID = "images_missing_alt"
	RuleOutdatedCopyright RuleID = "outdated_copyright"
	RuleNoContact         RuleID = "no_contact"
	RuleNoSocial          RuleID = "no_social"
)

// Rule deducts Weight points and reports Issue when its check fails.
type Rule struct {
	ID      RuleID
	Issue   string
	Weight  int
	Enabled bool
}

type Thresholds struct {
	SlowLoad        time.Duration
	MinTextLength   int
	StaleAfterYears int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SlowLoad:        3 * time.Second,
		MinTextLength:   500,
		StaleAfterYears: 2,
	}
}

// DefaultRules is ordered by how much each problem hurts a lead.
func DefaultRules() []Rule {
	return []Rule{
		{ID: RuleNoWebsite, Issue: "No website found", Weight: 85, Enabled: true},
		{ID: RuleUnreachable, Issue: "Website is down or unreachable", Weight: 70, Enabled: true},
		{ID: RuleNoHTTPS, Issue: "No SSL certificate (site is not served over HTTPS)", Weight: 15, Enabled: true},
		{ID: RuleNoViewport, Issue: "Not mobile-friendly", Weight: 20, Enabled: true},
		{ID: RuleSlowLoad, Issue: "Slow page load", Weight: 10, Enabled: true},
		{ID: RuleNoMetaDescription, Issue: "Missing meta description (poor search visibility)", Weight: 10, Enabled: true},
		{ID: RuleOutdatedCopyright, Issue: "Outdated design (stale copyright year)", Weight: 10, Enabled: true},
		{ID: RuleNoContact, Issue: "No contact form or email link", Weight: 10, Enabled: true},
		{ID: RuleThinContent, Issue: "Very little written content", Weight: 10, Enabled: true},
		{ID: RuleNoTitle, Issue: "Missing page title", Weight: 5, Enabled: true},
		{ID: RuleNoH1, Issue: "No clear main heading", Weight: 5, Enabled: true},
		{ID: RuleImagesMissingAlt, Issue: "Images missing alt text", Weight: 5, Enabled: true},
		{ID: RuleNoSocial, Issue: "No social media links", Weight: 5, Enabled: true},
	}
}

type check func(r entity.WebsiteReport, t Thresholds, year int) bool

//nolint:gochecknoglobals
var checks = map[RuleID]check{
	RuleNoWebsite: func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return !r.HasWebsite
	},
	RuleUnreachable: func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return r.HasWebsite && !r.Reachable
	},
	RuleNoHTTPS: page(func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return !r.HTTPS
	}),
	RuleNoViewport: page(func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return !r.HasViewport
	}),
	RuleSlowLoad: page(func(r entity.WebsiteReport, t Thresholds, _ int) bool {
		return t.SlowLoad > 0 && r.LoadTime > t.SlowLoad
	}),
	RuleNoTitle: page(func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return !r.HasTitle
	}),
	RuleNoMetaDescription: page(func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return !r.HasMetaDescription
	}),
	RuleNoH1: page(func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return !r.HasH1
	}),
	RuleThinContent: page(func(r entity.WebsiteReport, t Thresholds, _ int) bool {
		return r.TextLength < t.MinTextLength
	}),
	RuleImagesMissingAlt: page(func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return r.ImagesMissingAlt > 0
	}),
	RuleOutdatedCopyright: page(func(r entity.WebsiteReport, t Thresholds, year int) bool {
		return r.CopyrightYear > 0 && year-r.CopyrightYear >= t.StaleAfterYears
	}),
	RuleNoContact: page(func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return !r.HasContactPath
	}),
	RuleNoSocial: page(func(r entity.WebsiteReport, _ Thresholds, _ int) bool {
		return !r.HasSocialLinks
	}),
}

// page restricts a check to sites that actually answered.
func page(c check) check {
	return func(r entity.WebsiteReport, t Thresholds, year int) bool {
		return r.HasWebsite && r.Reachable && c(r, t, year)
	}
}

// Scorer turns a WebsiteReport into a score and an ordered issue list. Rules
// can be replaced at runtime.
type Scorer struct {
	mu         sync.RWMutex
	rules      []Rule
	thresholds Thresholds
	now        func() time.Time
}

func NewScorer(rules []Rule, thresholds Thresholds) (*Scorer, error) {
	s := &Scorer{
		thresholds: thresholds,
		now:        time.Now,
	}

	if err := s.SetRules(rules); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// SetRules validates and swaps the active rule set.
func (s *Scorer) SetRules(rules []Rule) error {
	for _, r := range rules {
		if _, ok := checks[r.ID]; !ok {
			return fmt.Errorf("unknown rule %q", r.ID)
		}

		if r.Weight < 0 || r.Weight > value.MaxScore {
			return fmt.Errorf("rule %q: weight %d out of range", r.ID, r.Weight)
		}
	}

	cp := make([]Rule, len(rules))
	copy(cp, rules)

	s.mu.Lock()
	s.rules = cp
	s.mu.Unlock()

	return nil
}

func (s *Scorer) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]Rule, len(s.rules))
	copy(cp, s.rules)

	return cp
}

func (s *Scorer) Score(report entity.WebsiteReport) (value.Score, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	year := s.now().Year()
	score := value.MaxScore
	issues := make([]string, 0, len(s.rules))

	for _, r := range s.rules {
		if !r.Enabled {
			continue
		}

		if checks[r.ID](report, s.thresholds, year) {
			score -= r.Weight
			issues = append(issues, r.Issue)
		}
	}

	return value.NewScore(score), issues
}

// MergeRules applies overrides on top of base, keyed by rule id. Overrides
// for rules missing from base are appended in their given order.
func MergeRules(base, overrides []Rule) []Rule {
	out := make([]Rule, len(base))
	copy(out, base)

	index := make(map[RuleID]int, len(out))
	for i, r := range out {
		index[r.ID] = i
	}

	for _, o := range overrides {
		if i, ok := index[o.ID]; ok {
			out[i] = o
			continue
		}

		index[o.ID] = len(out)
		out = append(out, o)
	}

	return out
}
