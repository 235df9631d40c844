package insights

import (
	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
)

const (
	contactedRatio = 0.3
	respondedRatio = 0.15
	meetingsRatio  = 0.05

	activeCampaigns    = 5
	scheduledFollowUps = 15
	emailsOpened       = 20
	linksClicked       = 10

	valuePerOpportunity = 2500
	conversionRate      = 22
	avgResponseTime     = "3.1 hours"
	successRate         = 60
	monthlyGrowth       = 10

	recentActivityLimit = 5
)

//nolint:gochecknoglobals
var activityStatuses = [...]string{"Email Sent", "Call Scheduled", "Needs Follow-up"}

// Engagement derives campaign counters from the current result list.
func Engagement(businesses []entity.Business) entity.EngagementStats {
	n := len(businesses)

	return entity.EngagementStats{
		TotalContacts:      n,
		Contacted:          ratio(n, contactedRatio),
		Responded:          ratio(n, respondedRatio),
		MeetingsBooked:     ratio(n, meetingsRatio),
		ActiveCampaigns:    activeCampaigns,
		ScheduledFollowUps: scheduledFollowUps,
		EmailsOpened:       emailsOpened,
		LinksClicked:       linksClicked,
	}
}

// Analyze values every business that needs a redesign as one opportunity.
func Analyze(businesses []entity.Business, niche string) entity.Analytics {
	opportunities := 0

	for _, b := range businesses {
		if b.Priority().NeedsRedesign() {
			opportunities++
		}
	}

	return entity.Analytics{
		TotalValue:         opportunities * valuePerOpportunity,
		ConversionRate:     conversionRate,
		AvgResponseTime:    avgResponseTime,
		TopPerformingNiche: niche,
		SuccessRate:        successRate,
		MonthlyGrowth:      monthlyGrowth,
	}
}

// RecentActivity lists the first five businesses with a rotating status.
func RecentActivity(businesses []entity.Business) []entity.Activity {
	n := min(len(businesses), recentActivityLimit)
	out := make([]entity.Activity, 0, n)

	for i := range n {
		out = append(out, entity.Activity{
			BusinessID:   businesses[i].ID,
			BusinessName: businesses[i].Name,
			Status:       activityStatuses[i%len(activityStatuses)],
		})
	}

	return out
}

// PriorityBreakdown counts businesses per priority.
func PriorityBreakdown(businesses []entity.Business) map[value.Priority]int {
	out := map[value.Priority]int{
		value.PriorityCritical: 0,
		value.PriorityHigh:     0,
		value.PriorityGood:     0,
	}

	for _, b := range businesses {
		out[b.Priority()]++
	}

	return out
}

func ratio(n int, r float64) int {
	return int(float64(n) * r)
}
