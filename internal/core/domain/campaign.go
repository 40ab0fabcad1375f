package domain

import "strings"

// SkipReason classifies why a campaign is excluded from processing.
// Ineligible campaigns are reported as skipped, never treated as errors.
type SkipReason string

const (
	SkipNone                SkipReason = ""
	SkipDeleted             SkipReason = "deleted"
	SkipDisabled            SkipReason = "disabled"
	SkipExpDisabled         SkipReason = "exp_disabled"
	SkipMissingBasePipeline SkipReason = "missing_base_pipeline"
	SkipMissingBaseStatus   SkipReason = "missing_base_status"
	SkipMissingExpPipeline  SkipReason = "missing_exp_pipeline"
	SkipMissingExpStatus    SkipReason = "missing_exp_status"
	SkipMissingExpDays      SkipReason = "missing_exp_days"
	SkipInvalidExpDays      SkipReason = "invalid_exp_days"
)

// RuleOp is the matching operator of a branch rule.
type RuleOp string

const (
	RuleOpContains RuleOp = "contains"
	RuleOpEquals   RuleOp = "equals"
)

// Rule is a resolved text rule. Value is final once resolved and is never
// re-interpreted downstream.
type Rule struct {
	Op    RuleOp `json:"op"`
	Value string `json:"value"`
}

// Empty reports whether the rule has no usable value.
func (r Rule) Empty() bool {
	return strings.TrimSpace(r.Value) == ""
}

// TargetRef points at a pipeline stage. Any subset of the four fields may be
// populated on read; the target resolver fills gaps from the directory.
type TargetRef struct {
	PipelineID   string `json:"pipeline_id,omitempty"`
	StatusID     string `json:"status_id,omitempty"`
	PipelineName string `json:"pipeline_name,omitempty"`
	StatusName   string `json:"status_name,omitempty"`
}

// HasPipeline reports whether the target names a pipeline by id or name.
func (t TargetRef) HasPipeline() bool {
	return t.PipelineID != "" || t.PipelineName != ""
}

// HasStatus reports whether the target names a status by id or name.
func (t TargetRef) HasStatus() bool {
	return t.StatusID != "" || t.StatusName != ""
}

// Empty reports whether the target names nothing at all.
func (t TargetRef) Empty() bool {
	return !t.HasPipeline() && !t.HasStatus()
}

// BranchConfig is one rule-driven branch of a campaign.
type BranchConfig struct {
	Rule    Rule      `json:"rule"`
	HasRule bool      `json:"has_rule"`
	Target  TargetRef `json:"target"`
}

// ExpirationConfig is the time-driven branch of a campaign.
//
// DaysSet and DaysValid preserve what the stored record actually said so
// that eligibility can distinguish a missing threshold from a malformed one.
type ExpirationConfig struct {
	Days      int       `json:"days"`
	DaysSet   bool      `json:"days_set"`
	DaysValid bool      `json:"days_valid"`
	Disabled  bool      `json:"disabled"`
	Target    TargetRef `json:"target"`
}

// CounterName identifies one of the per-campaign usage counters.
type CounterName string

const (
	CounterBranch1    CounterName = "branch1"
	CounterBranch2    CounterName = "branch2"
	CounterExpiration CounterName = "expiration"
)

// Counters holds per-campaign usage counters. They are advisory: the move
// having happened is the source of truth.
type Counters struct {
	Branch1    int64 `json:"branch1"`
	Branch2    int64 `json:"branch2"`
	Expiration int64 `json:"expiration"`
}

// RawCampaign is a stored campaign record as-is. Records accumulated several
// field-naming schemes over time; only the resolver interprets them.
type RawCampaign map[string]any

// CampaignConfig is the canonical form of a stored campaign record. It is
// produced exclusively by the campaign resolver; nothing else reads raw
// records field by field.
type CampaignConfig struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Base       TargetRef        `json:"base"`
	Branch1    BranchConfig     `json:"branch1"`
	Branch2    BranchConfig     `json:"branch2"`
	Expiration ExpirationConfig `json:"expiration"`
	Counters   Counters         `json:"counters"`
}

// RoutingEligibility reports why the campaign cannot take part in live
// routing, or SkipNone. A campaign without branch rules is still returned as
// eligible here; the route evaluation simply yields no match.
func (c *CampaignConfig) RoutingEligibility() SkipReason {
	if c.Base.PipelineID == "" {
		return SkipMissingBasePipeline
	}
	if c.Base.StatusID == "" {
		return SkipMissingBaseStatus
	}
	return SkipNone
}

// ExpirationEligibility reports why the campaign cannot take part in the
// expiration sweep, or SkipNone. Checks follow a fixed order so a record
// with several defects always reports the same reason.
func (c *CampaignConfig) ExpirationEligibility() SkipReason {
	if c.Expiration.Disabled {
		return SkipExpDisabled
	}
	if c.Base.PipelineID == "" {
		return SkipMissingBasePipeline
	}
	if c.Base.StatusID == "" {
		return SkipMissingBaseStatus
	}
	if c.Expiration.Target.Empty() {
		return SkipMissingExpPipeline
	}
	// A pipeline-only target is a valid destination (no status requirement)
	// unless it is the base pipeline itself: then the move would be a no-op
	// and a status is mandatory.
	if !c.Expiration.Target.HasStatus() && c.Expiration.Target.PipelineID == c.Base.PipelineID {
		return SkipMissingExpStatus
	}
	if !c.Expiration.DaysSet {
		return SkipMissingExpDays
	}
	if !c.Expiration.DaysValid || c.Expiration.Days <= 0 {
		return SkipInvalidExpDays
	}
	return SkipNone
}
