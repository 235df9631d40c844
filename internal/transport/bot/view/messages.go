package view

const StartMessage = `👋 <b>Website Revolution</b>

Find local businesses that need a better website.

/search <i>niche</i> in <i>location</i>: review businesses, worst websites first
/recent: latest searches`

const SearchUsage = "Usage: /search coffee shops in Austin, TX"

const SetupRequired = "⚙️ Google Places API key is not configured. Set GOOGLE_PLACES_API_KEY and restart."

const NoResults = "No businesses found for that search."

const NoSearches = "No searches yet."

// LeadTemplate: name, score, priority, first issue.
const LeadTemplate = "%d. <b>%s</b>: %d/100 (%s)\n   %s\n"

// SearchTemplate: niche, location, count, created at.
const SearchTemplate = "• %s in %s: %d businesses, %s\n"
