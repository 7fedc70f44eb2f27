package domain

import (
	"net/url"
	"strings"
	"time"
)

// Publication is a social post attributed to an influencer within a campaign
type Publication struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	Likes        int64      `json:"likes"`
	Comments     int64      `json:"comments"`
	Shares       int64      `json:"shares"`
	InfluencerID string     `json:"influencerId"`
	CampaignID   string     `json:"campaignId"`
	RefreshedAt  *time.Time `json:"metricsUpdatedAt,omitempty"`
}

// PublicationPatch carries the fields of a partial update
type PublicationPatch struct {
	URL          *string `json:"url,omitempty"`
	Likes        *int64  `json:"likes,omitempty"`
	Comments     *int64  `json:"comments,omitempty"`
	Shares       *int64  `json:"shares,omitempty"`
	InfluencerID *string `json:"influencerId,omitempty"`
	CampaignID   *string `json:"campaignId,omitempty"`
}

// Apply shallow-merges the patch into p
func (patch PublicationPatch) Apply(p *Publication) {
	setString(&p.URL, patch.URL)
	setInt(&p.Likes, patch.Likes)
	setInt(&p.Comments, patch.Comments)
	setInt(&p.Shares, patch.Shares)
	setString(&p.InfluencerID, patch.InfluencerID)
	setString(&p.CampaignID, patch.CampaignID)
}

// PublicationMetrics is what the metrics service reports for a post
type PublicationMetrics struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

// ProfileMetrics is what the metrics service reports for a profile
type ProfileMetrics struct {
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
	Posts     int64 `json:"posts"`
}

// ApplyMetrics replaces the engagement counters with m
func (p *Publication) ApplyMetrics(m PublicationMetrics, at time.Time) {
	p.Likes = m.Likes
	p.Comments = m.Comments
	p.Shares = m.Shares
	p.RefreshedAt = &at
}

// Platform guesses the network a publication belongs to from its URL host.
// Unknown hosts yield "other".
func (p *Publication) Platform() string {
	u, err := url.Parse(p.URL)
	if err != nil {
		return "other"
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "instagram.") || host == "instagr.am":
		return NetworkInstagram
	case strings.Contains(host, "tiktok."):
		return NetworkTikTok
	case strings.Contains(host, "facebook.") || host == "fb.watch" || host == "fb.com":
		return NetworkFacebook
	}
	return "other"
}
