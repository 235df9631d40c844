package scoring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/service/scoring"
	"website_revolution/internal/domain/value"
)

func healthySite() entity.WebsiteReport {
	return entity.WebsiteReport{
		URL:                "https://example.com",
		HasWebsite:         true,
		Reachable:          true,
		HTTPS:              true,
		LoadTime:           time.Second,
		HasViewport:        true,
		HasTitle:           true,
		HasMetaDescription: true,
		HasH1:              true,
		HasContactPath:     true,
		HasSocialLinks:     true,
		TextLength:         2000,
		Images:             4,
		CopyrightYear:      2026,
	}
}

func newScorer(t *testing.T) *scoring.Scorer {
	t.Helper()

	s, err := scoring.NewScorer(scoring.DefaultRules(), scoring.DefaultThresholds())
	require.NoError(t, err)

	return s.WithClock(func() time.Time {
		return time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	})
}

func TestScorerScore(t *testing.T) {
	rq := require.New(t)
	scorer := newScorer(t)

	testCases := []struct {
		name     string
		mutate   func(r *entity.WebsiteReport)
		score    value.Score
		issues   []string
		priority value.Priority
	}{
		{
			name:     "Healthy site",
			mutate:   func(*entity.WebsiteReport) {},
			score:    100,
			issues:   []string{},
			priority: value.PriorityGood,
		},
		{
			name: "No website",
			mutate: func(r *entity.WebsiteReport) {
				*r = entity.WebsiteReport{}
			},
			score:    15,
			issues:   []string{"No website found"},
			priority: value.PriorityCritical,
		},
		{
			name: "Unreachable website skips page checks",
			mutate: func(r *entity.WebsiteReport) {
				*r = entity.WebsiteReport{URL: "http://down.example", HasWebsite: true}
			},
			score:    30,
			issues:   []string{"Website is down or unreachable"},
			priority: value.PriorityCritical,
		},
		{
			name: "Plain HTTP and no viewport",
			mutate: func(r *entity.WebsiteReport) {
				r.HTTPS = false
				r.HasViewport = false
			},
			score: 65,
			issues: []string{
				"No SSL certificate (site is not served over HTTPS)",
				"Not mobile-friendly",
			},
			priority: value.PriorityHigh,
		},
		{
			name: "Stale copyright and slow",
			mutate: func(r *entity.WebsiteReport) {
				r.CopyrightYear = 2019
				r.LoadTime = 5 * time.Second
			},
			score:    80,
			issues:   []string{"Slow page load", "Outdated design (stale copyright year)"},
			priority: value.PriorityGood,
		},
		{
			name: "Everything wrong clamps at zero",
			mutate: func(r *entity.WebsiteReport) {
				*r = entity.WebsiteReport{
					HasWebsite:       true,
					Reachable:        true,
					LoadTime:         10 * time.Second,
					ImagesMissingAlt: 3,
					CopyrightYear:    2010,
				}
			},
			score:    0,
			priority: value.PriorityCritical,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			report := healthySite()
			tc.mutate(&report)

			score, issues := scorer.Score(report)

			rq.Equal(tc.score, score)
			rq.Equal(tc.priority, score.Priority())

			if tc.issues != nil {
				rq.Equal(tc.issues, issues)
			}
		})
	}
}

func TestScorerSetRules(t *testing.T) {
	rq := require.New(t)
	scorer := newScorer(t)

	rq.Error(scorer.SetRules([]scoring.Rule{{ID: "made_up", Weight: 1, Enabled: true}}))
	rq.Error(scorer.SetRules([]scoring.Rule{{ID: scoring.RuleNoH1, Weight: 101, Enabled: true}}))
	rq.Len(scorer.Rules(), len(scoring.DefaultRules()))

	rq.NoError(scorer.SetRules([]scoring.Rule{
		{ID: scoring.RuleNoHTTPS, Issue: "Insecure", Weight: 40, Enabled: true},
		{ID: scoring.RuleNoViewport, Issue: "Desktop only", Weight: 20, Enabled: false},
	}))

	report := healthySite()
	report.HTTPS = false
	report.HasViewport = false

	score, issues := scorer.Score(report)
	rq.Equal(value.Score(60), score)
	rq.Equal([]string{"Insecure"}, issues)
}

func TestMergeRules(t *testing.T) {
	rq := require.New(t)

	base := []scoring.Rule{
		{ID: scoring.RuleNoHTTPS, Issue: "a", Weight: 10, Enabled: true},
		{ID: scoring.RuleNoH1, Issue: "b", Weight: 5, Enabled: true},
	}

	merged := scoring.MergeRules(base, []scoring.Rule{
		{ID: scoring.RuleNoH1, Issue: "b2", Weight: 7, Enabled: false},
		{ID: scoring.RuleNoSocial, Issue: "c", Weight: 3, Enabled: true},
	})

	rq.Equal([]scoring.Rule{
		{ID: scoring.RuleNoHTTPS, Issue: "a", Weight: 10, Enabled: true},
		{ID: scoring.RuleNoH1, Issue: "b2", Weight: 7, Enabled: false},
		{ID: scoring.RuleNoSocial, Issue: "c", Weight: 3, Enabled: true},
	}, merged)
	rq.Equal("b", base[1].Issue)
}
