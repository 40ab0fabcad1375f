// internal/core/usecases/campaign_resolver.go
package usecases

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"leadrouter/internal/core/domain"
)

// CampaignResolver normalizes stored campaign records into canonical
// configurations. Records accumulated several field-naming schemes over the
// years; every accepted source key is listed here, in resolution order, and
// nothing outside this file reads raw records field by field.
type CampaignResolver struct{}

// NewCampaignResolver creates a resolver.
func NewCampaignResolver() *CampaignResolver {
	return &CampaignResolver{}
}

// Resolve produces the canonical configuration for one stored record, or nil
// with a reason when the record is deleted or explicitly disabled. Structural
// defects (missing base stage, bad expiration settings) are not judged here:
// they are reported by the eligibility checks on the resolved config, so live
// routing and the sweep can apply their own rules.
func (r *CampaignResolver) Resolve(raw domain.RawCampaign) (*domain.CampaignConfig, domain.SkipReason) {
	if raw == nil {
		return nil, domain.SkipDeleted
	}
	if isDeleted(raw) {
		return nil, domain.SkipDeleted
	}
	if isDisabled(raw) {
		return nil, domain.SkipDisabled
	}

	cfg := &domain.CampaignConfig{
		ID:         stringField(raw, "id", "campaign_id", "_id", "key"),
		Name:       stringField(raw, "name", "title", "label"),
		Base:       resolveBase(raw),
		Branch1:    resolveBranch(raw, 1),
		Branch2:    resolveBranch(raw, 2),
		Expiration: resolveExpiration(raw),
		Counters:   resolveCounters(raw),
	}

	return cfg, domain.SkipNone
}

// CampaignID extracts the record's id without resolving the whole record,
// for skip reporting.
func CampaignID(raw domain.RawCampaign) string {
	return stringField(raw, "id", "campaign_id", "_id", "key")
}

// isDeleted recognizes the historical soft-delete markers.
func isDeleted(raw domain.RawCampaign) bool {
	if v, ok := firstOf(raw, "deleted", "is_deleted"); ok && truthy(v) {
		return true
	}
	if v, ok := raw["deleted_at"]; ok && CoerceScalar(v) != "" {
		return true
	}
	return false
}

// isDisabled recognizes an explicitly switched-off campaign. A record with no
// enabled flag at all counts as enabled.
func isDisabled(raw domain.RawCampaign) bool {
	if v, ok := firstOf(raw, "enabled", "is_enabled", "active", "is_active"); ok && falsy(v) {
		return true
	}
	if v, ok := raw["disabled"]; ok && truthy(v) {
		return true
	}
	return false
}

// resolveBase finds the campaign's base stage: nested "base" object first,
// then the current flat keys, then the legacy unprefixed ones.
func resolveBase(raw domain.RawCampaign) domain.TargetRef {
	if m, ok := raw["base"].(map[string]any); ok {
		if ref := targetFromMap(m); !ref.Empty() {
			return ref
		}
	}

	ref := domain.TargetRef{
		PipelineID: stringField(raw, "base_pipeline_id", "base_pipeline"),
		StatusID:   stringField(raw, "base_status_id", "base_status"),
	}
	if ref.PipelineID == "" {
		ref.PipelineID = stringField(raw, "pipeline_id", "pipeline")
	}
	if ref.StatusID == "" {
		ref.StatusID = stringField(raw, "status_id", "status")
	}
	return ref
}

// resolveBranch finds one rule-driven branch: nested "branchN"/"branch_N"
// object first, then legacy flat keys.
func resolveBranch(raw domain.RawCampaign, n int) domain.BranchConfig {
	var b domain.BranchConfig

	for _, key := range []string{fmt.Sprintf("branch%d", n), fmt.Sprintf("branch_%d", n)} {
		v, ok := raw[key]
		if !ok {
			continue
		}

		if m, isMap := v.(map[string]any); isMap {
			if rv, hasRule := m["rule"]; hasRule {
				b.Rule = ResolveRule(rv)
				b.HasRule = !b.Rule.Empty()
			}
			if tv, hasTarget := m["target"].(map[string]any); hasTarget {
				b.Target = targetFromMap(tv)
			}
			if b.HasRule || !b.Target.Empty() {
				return b
			}
			continue
		}

		// a bare scalar under "branchN" is the rule itself
		b.Rule = ResolveRule(v)
		b.HasRule = !b.Rule.Empty()
		if b.HasRule {
			return b
		}
	}

	// legacy flat scheme: branch1_rule / rule1 plus branch1_pipeline_id etc.
	if v, ok := firstOf(raw, fmt.Sprintf("branch%d_rule", n), fmt.Sprintf("rule%d", n)); ok {
		b.Rule = ResolveRule(v)
		b.HasRule = !b.Rule.Empty()
	}
	if b.Target.Empty() {
		b.Target = domain.TargetRef{
			PipelineID: stringField(raw, fmt.Sprintf("branch%d_pipeline_id", n), fmt.Sprintf("branch%d_pipeline", n)),
			StatusID:   stringField(raw, fmt.Sprintf("branch%d_status_id", n), fmt.Sprintf("branch%d_status", n)),
		}
	}

	return b
}

// resolveExpiration finds the time-driven branch: nested "expiration" object
// first, then legacy flat keys. Whether a days value was present at all, and
// whether it was numeric, are preserved separately so eligibility can tell
// a missing threshold from a malformed one.
func resolveExpiration(raw domain.RawCampaign) domain.ExpirationConfig {
	var e domain.ExpirationConfig
	var daysRaw any
	var daysFound bool

	if m, ok := raw["expiration"].(map[string]any); ok {
		if v, exists := m["disabled"]; exists && truthy(v) {
			e.Disabled = true
		}
		if v, exists := m["enabled"]; exists && falsy(v) {
			e.Disabled = true
		}
		daysRaw, daysFound = firstOf(m, "days", "expiration_days", "ttl_days")
		if tv, hasTarget := m["target"].(map[string]any); hasTarget {
			e.Target = targetFromMap(tv)
		} else {
			e.Target = targetFromMap(m)
		}
	}

	if v, ok := firstOf(raw, "expiration_disabled", "exp_disabled"); ok && truthy(v) {
		e.Disabled = true
	}
	if !daysFound {
		daysRaw, daysFound = firstOf(raw, "expiration_days", "exp_days", "days_to_expire")
	}
	if e.Target.Empty() {
		e.Target = domain.TargetRef{
			PipelineID: stringField(raw, "expiration_pipeline_id", "exp_pipeline_id"),
			StatusID:   stringField(raw, "expiration_status_id", "exp_status_id"),
		}
	}

	if daysFound {
		e.DaysSet = true
		e.Days, e.DaysValid = coerceDays(daysRaw)
	}

	return e
}

// resolveCounters reads the counters object when present. Legacy records may
// carry flat counter_* keys instead.
func resolveCounters(raw domain.RawCampaign) domain.Counters {
	if m, ok := raw["counters"].(map[string]any); ok {
		return domain.Counters{
			Branch1:    int64Field(m, "branch1", "branch_1"),
			Branch2:    int64Field(m, "branch2", "branch_2"),
			Expiration: int64Field(m, "expiration", "exp"),
		}
	}
	return domain.Counters{
		Branch1:    int64Field(raw, "counter_branch1"),
		Branch2:    int64Field(raw, "counter_branch2"),
		Expiration: int64Field(raw, "counter_expiration"),
	}
}

// targetFromMap reads a target reference from a nested object. A bare "id"
// means the pipeline id (historical base.id scheme).
func targetFromMap(m map[string]any) domain.TargetRef {
	ref := domain.TargetRef{
		PipelineID:   stringField(m, "pipeline_id", "pipeline", "id"),
		StatusID:     stringField(m, "status_id", "status"),
		PipelineName: stringField(m, "pipeline_name"),
		StatusName:   stringField(m, "status_name"),
	}
	return ref
}

// coerceDays floors a numeric days value. Non-numeric input yields valid ==
// false.
func coerceDays(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(math.Floor(t)), true
	case int:
		return t, true
	case int64:
		return int(t), true
	default:
		s := CoerceScalar(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return int(math.Floor(f)), true
	}
}

// stringField coerces the first present key to a string.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if out := CoerceScalar(v); out != "" {
				return out
			}
		}
	}
	return ""
}

// int64Field coerces the first present key to an int64, defaulting to 0.
func int64Field(m map[string]any, keys ...string) int64 {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int64(t)
		case int:
			return int64(t)
		case int64:
			return t
		default:
			if n, err := strconv.ParseInt(CoerceScalar(v), 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// firstOf returns the first present key's value.
func firstOf(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// truthy recognizes the stored representations of "on".
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "t", "true", "y", "yes", "on":
			return true
		}
	}
	return false
}

// falsy recognizes the stored representations of an explicit "off". Absent or
// unrecognized values are not falsy.
func falsy(v any) bool {
	switch t := v.(type) {
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "0", "f", "false", "n", "no", "off":
			return true
		}
	}
	return false
}
