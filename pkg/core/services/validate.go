package services

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

var networkPattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// validURL requires an absolute http(s) URL with a host
func validURL(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return domain.Invalid(field, "is required")
	}
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Invalid(field, "must be a valid http(s) URL")
	}
	return nil
}

func validateInfluencer(inf *domain.Influencer) error {
	if strings.TrimSpace(inf.Name) == "" {
		return domain.Invalid("name", "is required")
	}
	for _, network := range domain.Networks {
		if raw := inf.Socials.URL(network); raw != "" {
			if err := validURL("socials."+network, raw); err != nil {
				return err
			}
		}
	}
	for field, cost := range map[string]*float64{
		"instagramCost": inf.InstagramCost,
		"tiktokCost":    inf.TikTokCost,
		"facebookCost":  inf.FacebookCost,
	} {
		if cost != nil && *cost < 0 {
			return domain.Invalid(field, "must not be negative")
		}
	}
	if inf.Followers < 0 || inf.Likes < 0 || inf.Posts < 0 {
		return domain.Invalid("followers", "counters must not be negative")
	}
	return nil
}

func validateCampaign(c *domain.Campaign) error {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Invalid("name", "is required")
	}
	if len(c.Socials) == 0 {
		return domain.Invalid("socials", "select at least one social network")
	}
	for _, s := range c.Socials {
		if !domain.IsNetwork(s) {
			return domain.Invalid("socials", "unknown network "+s)
		}
	}
	for field, d := range map[string]string{"startDate": c.StartDate, "endDate": c.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return domain.Invalid(field, "must be a YYYY-MM-DD date")
		}
	}
	// ISO dates order lexicographically
	if c.StartDate != "" && c.EndDate != "" && c.EndDate < c.StartDate {
		return domain.Invalid("endDate", "must not be before the start date")
	}
	return nil
}

func validatePublication(p *domain.Publication) error {
	if err := validURL("url", p.URL); err != nil {
		return err
	}
	if p.CampaignID == "" {
		return domain.Invalid("campaignId", "is required")
	}
	if p.InfluencerID == "" {
		return domain.Invalid("influencerId", "is required")
	}
	if p.Likes < 0 || p.Comments < 0 || p.Shares < 0 {
		return domain.Invalid("likes", "counters must not be negative")
	}
	return nil
}

func validNetwork(network string) error {
	if !networkPattern.MatchString(network) {
		return domain.Invalid("network", "must be a lowercase network name")
	}
	return nil
}
