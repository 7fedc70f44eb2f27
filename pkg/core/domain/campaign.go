package domain

// Campaign groups influencers working on the same promotion
type Campaign struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate     string   `json:"endDate,omitempty"`   // YYYY-MM-DD
	Socials     []string `json:"socials"`
	// Ordered, de-duplicated on insert
	InfluencerIDs []string `json:"influencerIds"`
}

// CampaignPatch carries the fields of a partial update
type CampaignPatch struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	StartDate     *string   `json:"startDate,omitempty"`
	EndDate       *string   `json:"endDate,omitempty"`
	Socials       *[]string `json:"socials,omitempty"`
	InfluencerIDs *[]string `json:"influencerIds,omitempty"`
}

// Apply shallow-merges the patch into c
func (p CampaignPatch) Apply(c *Campaign) {
	setString(&c.Name, p.Name)
	setString(&c.Description, p.Description)
	setString(&c.StartDate, p.StartDate)
	setString(&c.EndDate, p.EndDate)
	if p.Socials != nil {
		c.Socials = *p.Socials
	}
	if p.InfluencerIDs != nil {
		c.InfluencerIDs = *p.InfluencerIDs
	}
}

// Normalize replaces nil slices with empty ones so they serialise as []
func (c *Campaign) Normalize() {
	if c.Socials == nil {
		c.Socials = []string{}
	}
	if c.InfluencerIDs == nil {
		c.InfluencerIDs = []string{}
	}
}

// HasInfluencer reports whether id is a member of the campaign
func (c *Campaign) HasInfluencer(id string) bool {
	for _, existing := range c.InfluencerIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// UnionIDs appends the ids not already present in existing, keeping first occurrences
func UnionIDs(existing, ids []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(ids))
	out := make([]string, 0, len(existing)+len(ids))
	for _, list := range [][]string{existing, ids} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
