package domain

import "math"

// EngagementTotals sums the engagement of a set of publications
type EngagementTotals struct {
	Likes        int64 `json:"likes"`
	Comments     int64 `json:"comments"`
	Shares       int64 `json:"shares"`
	Publications int   `json:"publications"`
}

// Add accumulates one publication
func (t *EngagementTotals) Add(p Publication) {
	t.Likes += p.Likes
	t.Comments += p.Comments
	t.Shares += p.Shares
	t.Publications++
}

// InfluencerReportRow is one line of a campaign report
type InfluencerReportRow struct {
	Influencer Influencer       `json:"influencer"`
	Stats      EngagementTotals `json:"stats"`
}

// CampaignReport lists the engagement of each member of a campaign
type CampaignReport struct {
	Campaign Campaign              `json:"campaign"`
	Rows     []InfluencerReportRow `json:"rows"`
	Totals   EngagementTotals      `json:"totals"`
}

// Dashboard summarises the whole store
type Dashboard struct {
	Influencers  int                         `json:"totalInfluencers"`
	Campaigns    int                         `json:"totalCampaigns"`
	Publications int                         `json:"totalPublications"`
	Engagement   EngagementTotals            `json:"engagement"`
	AverageReach float64                     `json:"averageReach"`
	ByPlatform   map[string]EngagementTotals `json:"byPlatform"`
}

// EstimateReach derives the engagement rate and the reach percentage of a
// profile. Both are 0 when followers or posts is 0. Reach is rounded to one
// decimal.
func EstimateReach(followers, likes, posts int64) (engagementRate, reach float64) {
	if followers == 0 || posts == 0 {
		return 0, 0
	}
	engagementRate = float64(likes) / float64(posts) / float64(followers) * 100
	reach = math.Round(engagementRate*2*10) / 10
	return engagementRate, reach
}
