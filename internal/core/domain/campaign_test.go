// internal/core/domain/campaign_test.go
package domain

import "testing"

func eligibleCampaign() *CampaignConfig {
	return &CampaignConfig{
		ID:   "camp-1",
		Name: "Test",
		Base: TargetRef{PipelineID: "10", StatusID: "100"},
		Expiration: ExpirationConfig{
			Days:      3,
			DaysSet:   true,
			DaysValid: true,
			Target:    TargetRef{PipelineID: "20", StatusID: "200"},
		},
	}
}

func TestExpirationEligibility(t *testing.T) {
	t.Run("eligible campaign passes", func(t *testing.T) {
		if reason := eligibleCampaign().ExpirationEligibility(); reason != SkipNone {
			t.Fatalf("expected eligible, got %q", reason)
		}
	})

	t.Run("disabled expiration", func(t *testing.T) {
		c := eligibleCampaign()
		c.Expiration.Disabled = true
		if reason := c.ExpirationEligibility(); reason != SkipExpDisabled {
			t.Fatalf("got %q, want %q", reason, SkipExpDisabled)
		}
	})

	t.Run("missing base pipeline", func(t *testing.T) {
		c := eligibleCampaign()
		c.Base.PipelineID = ""
		if reason := c.ExpirationEligibility(); reason != SkipMissingBasePipeline {
			t.Fatalf("got %q, want %q", reason, SkipMissingBasePipeline)
		}
	})

	t.Run("missing base status", func(t *testing.T) {
		c := eligibleCampaign()
		c.Base.StatusID = ""
		if reason := c.ExpirationEligibility(); reason != SkipMissingBaseStatus {
			t.Fatalf("got %q, want %q", reason, SkipMissingBaseStatus)
		}
	})

	t.Run("empty target", func(t *testing.T) {
		c := eligibleCampaign()
		c.Expiration.Target = TargetRef{}
		if reason := c.ExpirationEligibility(); reason != SkipMissingExpPipeline {
			t.Fatalf("got %q, want %q", reason, SkipMissingExpPipeline)
		}
	})

	t.Run("pipeline-only target equal to base needs a status", func(t *testing.T) {
		c := eligibleCampaign()
		c.Expiration.Target = TargetRef{PipelineID: "10"}
		if reason := c.ExpirationEligibility(); reason != SkipMissingExpStatus {
			t.Fatalf("got %q, want %q", reason, SkipMissingExpStatus)
		}
	})

	t.Run("pipeline-only target elsewhere is fine", func(t *testing.T) {
		c := eligibleCampaign()
		c.Expiration.Target = TargetRef{PipelineID: "20"}
		if reason := c.ExpirationEligibility(); reason != SkipNone {
			t.Fatalf("expected eligible, got %q", reason)
		}
	})

	t.Run("missing days", func(t *testing.T) {
		c := eligibleCampaign()
		c.Expiration.DaysSet = false
		if reason := c.ExpirationEligibility(); reason != SkipMissingExpDays {
			t.Fatalf("got %q, want %q", reason, SkipMissingExpDays)
		}
	})

	t.Run("non-positive days", func(t *testing.T) {
		c := eligibleCampaign()
		c.Expiration.Days = 0
		if reason := c.ExpirationEligibility(); reason != SkipInvalidExpDays {
			t.Fatalf("got %q, want %q", reason, SkipInvalidExpDays)
		}
	})

	t.Run("non-numeric days", func(t *testing.T) {
		c := eligibleCampaign()
		c.Expiration.DaysValid = false
		if reason := c.ExpirationEligibility(); reason != SkipInvalidExpDays {
			t.Fatalf("got %q, want %q", reason, SkipInvalidExpDays)
		}
	})

	t.Run("order is fixed: disabled wins over missing base", func(t *testing.T) {
		c := eligibleCampaign()
		c.Expiration.Disabled = true
		c.Base = TargetRef{}
		if reason := c.ExpirationEligibility(); reason != SkipExpDisabled {
			t.Fatalf("got %q, want %q", reason, SkipExpDisabled)
		}
	})
}

func TestRoutingEligibility(t *testing.T) {
	c := eligibleCampaign()
	if reason := c.RoutingEligibility(); reason != SkipNone {
		t.Fatalf("expected eligible, got %q", reason)
	}

	// missing branch rules do not affect routing eligibility
	c.Branch1 = BranchConfig{}
	c.Branch2 = BranchConfig{}
	if reason := c.RoutingEligibility(); reason != SkipNone {
		t.Fatalf("expected eligible without rules, got %q", reason)
	}

	c.Base.StatusID = ""
	if reason := c.RoutingEligibility(); reason != SkipMissingBaseStatus {
		t.Fatalf("got %q, want %q", reason, SkipMissingBaseStatus)
	}
}

func TestIdentityCandidates(t *testing.T) {
	t.Run("single client keeps the plain prefix", func(t *testing.T) {
		card := Card{
			Contact: &Client{FullName: "Jane Doe", SocialID: "@jane"},
			Clients: []Client{{
				FullName: "Jane D.",
				Profiles: []ProfileField{{Label: "Instagram", Value: "@jane.doe"}},
			}},
		}

		candidates := card.IdentityCandidates()
		paths := make(map[string]string, len(candidates))
		for _, c := range candidates {
			paths[c.Path] = c.Value
		}

		if paths["contact.full_name"] != "Jane Doe" {
			t.Errorf("contact.full_name = %q", paths["contact.full_name"])
		}
		if paths["contact.social_id"] != "@jane" {
			t.Errorf("contact.social_id = %q", paths["contact.social_id"])
		}
		if paths["client.full_name"] != "Jane D." {
			t.Errorf("client.full_name = %q", paths["client.full_name"])
		}
		if paths["client.profiles.Instagram"] != "@jane.doe" {
			t.Errorf("client.profiles.Instagram = %q", paths["client.profiles.Instagram"])
		}
	})

	t.Run("multiple clients get indexed prefixes", func(t *testing.T) {
		card := Card{
			Clients: []Client{
				{FullName: "First"},
				{FullName: "Second"},
			},
		}

		candidates := card.IdentityCandidates()
		if len(candidates) != 2 {
			t.Fatalf("got %d candidates, want 2", len(candidates))
		}
		if candidates[0].Path != "client_0.full_name" || candidates[1].Path != "client_1.full_name" {
			t.Errorf("paths = %q, %q", candidates[0].Path, candidates[1].Path)
		}
	})

	t.Run("blank values are dropped", func(t *testing.T) {
		card := Card{Contact: &Client{FullName: "  "}}
		if got := card.IdentityCandidates(); len(got) != 0 {
			t.Fatalf("got %d candidates, want 0", len(got))
		}
	})
}
