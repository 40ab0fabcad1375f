// internal/testutil/fixtures.go
package testutil

// Fixture data for tests: raw campaign records in the shapes the stores have
// accumulated over time. Kept as plain maps so tests exercise the resolver
// the same way production does.

// FixtureCampaignCurrent is a record in the current nested scheme.
func FixtureCampaignCurrent() map[string]any {
	return map[string]any{
		"id":      "camp-1",
		"name":    "Consult Funnel",
		"enabled": true,
		"base": map[string]any{
			"pipeline_id": "10",
			"status_id":   "100",
		},
		"branch1": map[string]any{
			"rule":   map[string]any{"op": "contains", "value": "consult"},
			"target": map[string]any{"pipeline_id": "10", "status_id": "110"},
		},
		"branch2": map[string]any{
			"rule":   map[string]any{"op": "equals", "value": "book now"},
			"target": map[string]any{"pipeline_id": "10", "status_id": "120"},
		},
		"expiration": map[string]any{
			"days":   float64(3),
			"target": map[string]any{"pipeline_id": "20", "status_id": "200"},
		},
	}
}

// FixtureCampaignLegacy is a record in the flat legacy scheme.
func FixtureCampaignLegacy() map[string]any {
	return map[string]any{
		"id":                   "camp-legacy",
		"name":                 "Old Funnel",
		"pipeline_id":          "30",
		"status_id":            "300",
		"rule1":                "demo",
		"branch1_pipeline_id":  "30",
		"branch1_status_id":    "310",
		"expiration_days":      "7",
		"exp_pipeline_id":      "40",
		"exp_status_id":        "400",
		"counter_branch1":      float64(2),
		"counter_expiration":   float64(5),
	}
}

// FixtureSocialHandles are equivalent spellings of one social identity.
var FixtureSocialHandles = []string{
	"@user.name",
	"https://example.com/user.name/",
	"user.name",
	"HTTPS://WWW.example.com/user.name",
}
