package sqldb

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

type influencerRow struct {
	ID            string          `db:"id"`
	Position      int64           `db:"sort_order"`
	Name          string          `db:"name"`
	Nickname      string          `db:"nickname"`
	Email         string          `db:"email"`
	Phone         string          `db:"phone"`
	Category      string          `db:"category"`
	ImageURL      string          `db:"image_url"`
	Socials       string          `db:"socials"` // JSON object
	Followers     int64           `db:"followers"`
	Likes         int64           `db:"likes"`
	Posts         int64           `db:"posts"`
	Reach         float64         `db:"reach"`
	InstagramCost sql.NullFloat64 `db:"instagram_cost"`
	TikTokCost    sql.NullFloat64 `db:"tiktok_cost"`
	FacebookCost  sql.NullFloat64 `db:"facebook_cost"`
}

type clickRow struct {
	InfluencerID string `db:"influencer_id"`
	Network      string `db:"network"`
	Count        int64  `db:"count"`
}

type campaignRow struct {
	ID            string `db:"id"`
	Position      int64  `db:"sort_order"`
	Name          string `db:"name"`
	Description   string `db:"description"`
	StartDate     string `db:"start_date"`
	EndDate       string `db:"end_date"`
	Socials       string `db:"socials"`        // JSON array
	InfluencerIDs string `db:"influencer_ids"` // JSON array
}

type publicationRow struct {
	ID           string         `db:"id"`
	Position     int64          `db:"sort_order"`
	URL          string         `db:"url"`
	Likes        int64          `db:"likes"`
	Comments     int64          `db:"comments"`
	Shares       int64          `db:"shares"`
	InfluencerID string         `db:"influencer_id"`
	CampaignID   string         `db:"campaign_id"`
	RefreshedAt  sql.NullString `db:"refreshed_at"` // RFC3339, portable across drivers
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func toInfluencerRow(inf *domain.Influencer) (influencerRow, error) {
	socials, err := json.Marshal(inf.Socials)
	if err != nil {
		return influencerRow{}, err
	}
	return influencerRow{
		ID:            inf.ID,
		Name:          inf.Name,
		Nickname:      inf.Nickname,
		Email:         inf.Email,
		Phone:         inf.Phone,
		Category:      inf.Category,
		ImageURL:      inf.ImageURL,
		Socials:       string(socials),
		Followers:     inf.Followers,
		Likes:         inf.Likes,
		Posts:         inf.Posts,
		Reach:         inf.Reach,
		InstagramCost: nullFloat(inf.InstagramCost),
		TikTokCost:    nullFloat(inf.TikTokCost),
		FacebookCost:  nullFloat(inf.FacebookCost),
	}, nil
}

func (r influencerRow) toDomain() (domain.Influencer, error) {
	inf := domain.Influencer{
		ID:            r.ID,
		Name:          r.Name,
		Nickname:      r.Nickname,
		Email:         r.Email,
		Phone:         r.Phone,
		Category:      r.Category,
		ImageURL:      r.ImageURL,
		Followers:     r.Followers,
		Likes:         r.Likes,
		Posts:         r.Posts,
		Reach:         r.Reach,
		InstagramCost: floatPtr(r.InstagramCost),
		TikTokCost:    floatPtr(r.TikTokCost),
		FacebookCost:  floatPtr(r.FacebookCost),
		Clicks:        map[string]int64{},
	}
	if err := json.Unmarshal([]byte(r.Socials), &inf.Socials); err != nil {
		return domain.Influencer{}, storeErr("decode influencer "+r.ID+" socials", err)
	}
	return inf, nil
}

func toCampaignRow(c *domain.Campaign) (campaignRow, error) {
	socials, err := json.Marshal(c.Socials)
	if err != nil {
		return campaignRow{}, err
	}
	ids, err := json.Marshal(c.InfluencerIDs)
	if err != nil {
		return campaignRow{}, err
	}
	return campaignRow{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		Socials:       string(socials),
		InfluencerIDs: string(ids),
	}, nil
}

func (r campaignRow) toDomain() (domain.Campaign, error) {
	c := domain.Campaign{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
	if err := json.Unmarshal([]byte(r.Socials), &c.Socials); err != nil {
		return domain.Campaign{}, storeErr("decode campaign "+r.ID+" socials", err)
	}
	if err := json.Unmarshal([]byte(r.InfluencerIDs), &c.InfluencerIDs); err != nil {
		return domain.Campaign{}, storeErr("decode campaign "+r.ID+" influencers", err)
	}
	c.Normalize()
	return c, nil
}

func toPublicationRow(p *domain.Publication) publicationRow {
	row := publicationRow{
		ID:           p.ID,
		URL:          p.URL,
		Likes:        p.Likes,
		Comments:     p.Comments,
		Shares:       p.Shares,
		InfluencerID: p.InfluencerID,
		CampaignID:   p.CampaignID,
	}
	if p.RefreshedAt != nil {
		row.RefreshedAt = sql.NullString{String: p.RefreshedAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}
	return row
}

func (r publicationRow) toDomain() (domain.Publication, error) {
	p := domain.Publication{
		ID:           r.ID,
		URL:          r.URL,
		Likes:        r.Likes,
		Comments:     r.Comments,
		Shares:       r.Shares,
		InfluencerID: r.InfluencerID,
		CampaignID:   r.CampaignID,
	}
	if r.RefreshedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, r.RefreshedAt.String)
		if err != nil {
			return domain.Publication{}, storeErr("decode publication "+r.ID+" refreshed_at", err)
		}
		p.RefreshedAt = &t
	}
	return p, nil
}
