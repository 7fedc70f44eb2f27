package domain

// Network names used for socials, costs and click counters
const (
	NetworkInstagram = "instagram"
	NetworkTikTok    = "tiktok"
	NetworkFacebook  = "facebook"
)

// Networks lists the supported social networks in display order
var Networks = []string{NetworkInstagram, NetworkTikTok, NetworkFacebook}

// IsNetwork reports whether name is one of the supported networks
func IsNetwork(name string) bool {
	for _, n := range Networks {
		if n == name {
			return true
		}
	}
	return false
}

// Socials holds optional profile URLs per network
type Socials struct {
	Instagram string `json:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

// URL returns the profile URL for the given network, or "" if unset
func (s Socials) URL(network string) string {
	switch network {
	case NetworkInstagram:
		return s.Instagram
	case NetworkTikTok:
		return s.TikTok
	case NetworkFacebook:
		return s.Facebook
	}
	return ""
}

// Influencer represents an entry in the influencer directory
type Influencer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Category string `json:"category,omitempty"`

	ImageURL  string  `json:"imageUrl"`
	Socials   Socials `json:"socials"`
	Followers int64   `json:"followers"`
	Likes     int64   `json:"likes"`
	Posts     int64   `json:"posts"`
	Reach     float64 `json:"reach"` // Derived, see EstimateReach

	InstagramCost *float64 `json:"instagramCost,omitempty"`
	TikTokCost    *float64 `json:"tiktokCost,omitempty"`
	FacebookCost  *float64 `json:"facebookCost,omitempty"`

	// Download clicks per network, recorded by the follower link page
	Clicks map[string]int64 `json:"clic_descargas,omitempty"`
}

// InfluencerPatch carries the fields of a partial update. Nil fields are left untouched.
type InfluencerPatch struct {
	Name     *string `json:"name,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Category *string `json:"category,omitempty"`

	ImageURL  *string  `json:"imageUrl,omitempty"`
	Socials   *Socials `json:"socials,omitempty"`
	Followers *int64   `json:"followers,omitempty"`
	Likes     *int64   `json:"likes,omitempty"`
	Posts     *int64   `json:"posts,omitempty"`
	Reach     *float64 `json:"reach,omitempty"`

	InstagramCost *float64 `json:"instagramCost,omitempty"`
	TikTokCost    *float64 `json:"tiktokCost,omitempty"`
	FacebookCost  *float64 `json:"facebookCost,omitempty"`

	// Merged key by key into the existing counters
	Clicks map[string]int64 `json:"clic_descargas,omitempty"`
}

// Apply shallow-merges the patch into inf
func (p InfluencerPatch) Apply(inf *Influencer) {
	setString(&inf.Name, p.Name)
	setString(&inf.Nickname, p.Nickname)
	setString(&inf.Email, p.Email)
	setString(&inf.Phone, p.Phone)
	setString(&inf.Category, p.Category)
	setString(&inf.ImageURL, p.ImageURL)
	if p.Socials != nil {
		inf.Socials = *p.Socials
	}
	setInt(&inf.Followers, p.Followers)
	setInt(&inf.Likes, p.Likes)
	setInt(&inf.Posts, p.Posts)
	if p.Reach != nil {
		inf.Reach = *p.Reach
	}
	if p.InstagramCost != nil {
		inf.InstagramCost = p.InstagramCost
	}
	if p.TikTokCost != nil {
		inf.TikTokCost = p.TikTokCost
	}
	if p.FacebookCost != nil {
		inf.FacebookCost = p.FacebookCost
	}
	if len(p.Clicks) > 0 {
		if inf.Clicks == nil {
			inf.Clicks = make(map[string]int64, len(p.Clicks))
		}
		for network, n := range p.Clicks {
			inf.Clicks[network] = n
		}
	}
}

// Normalize replaces nil collections with empty ones
func (inf *Influencer) Normalize() {
	if inf.Clicks == nil {
		inf.Clicks = map[string]int64{}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int64, v *int64) {
	if v != nil {
		*dst = *v
	}
}
