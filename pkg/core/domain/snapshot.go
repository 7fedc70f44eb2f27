package domain

// Snapshot is the whole store, used for export and import
type Snapshot struct {
	Influencers  []Influencer  `json:"influencers"`
	Campaigns    []Campaign    `json:"campaigns"`
	Publications []Publication `json:"publications"`
}
