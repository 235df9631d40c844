package entity

type EngagementStats struct {
	TotalContacts      int
	Contacted          int
	Responded          int
	MeetingsBooked     int
	ActiveCampaigns    int
	ScheduledFollowUps int
	EmailsOpened       int
	LinksClicked       int
}

type Analytics struct {
	TotalValue         int
	ConversionRate     int
	AvgResponseTime    string
	TopPerformingNiche string
	SuccessRate        int
	MonthlyGrowth      int
}

type Activity struct {
	BusinessID   string
	BusinessName string
	Status       string
}
