package domain

import (
	"reflect"
	"testing"
)

func TestUnionIDs(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		ids      []string
		expected []string
	}{
		{name: "Empty", existing: nil, ids: nil, expected: []string{}},
		{name: "Append New", existing: []string{"a"}, ids: []string{"b", "c"}, expected: []string{"a", "b", "c"}},
		{name: "Skip Existing", existing: []string{"a", "b"}, ids: []string{"b", "a", "c"}, expected: []string{"a", "b", "c"}},
		{name: "Duplicates In Input", existing: nil, ids: []string{"x", "x"}, expected: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnionIDs(tt.existing, tt.ids)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %v want %v", got, tt.expected)
			}
		})
	}
}

func TestCampaignPatchApply(t *testing.T) {
	c := Campaign{ID: "1", Name: "Launch", Description: "keep", Socials: []string{"instagram"}}
	name := "Summer Launch"
	ids := []string{"i1"}
	CampaignPatch{Name: &name, InfluencerIDs: &ids}.Apply(&c)

	if c.Name != "Summer Launch" {
		t.Errorf("name not merged: %s", c.Name)
	}
	if c.Description != "keep" {
		t.Errorf("untouched field changed: %s", c.Description)
	}
	if !reflect.DeepEqual(c.InfluencerIDs, []string{"i1"}) {
		t.Errorf("influencer ids not merged: %v", c.InfluencerIDs)
	}
}

func TestInfluencerPatchMergesClicks(t *testing.T) {
	inf := Influencer{ID: "1", Name: "Ana", Clicks: map[string]int64{"instagram": 3}}
	InfluencerPatch{Clicks: map[string]int64{"tiktok": 1}}.Apply(&inf)

	if inf.Clicks["instagram"] != 3 || inf.Clicks["tiktok"] != 1 {
		t.Errorf("unexpected clicks: %v", inf.Clicks)
	}
	if inf.Name != "Ana" {
		t.Errorf("name changed: %s", inf.Name)
	}
}
