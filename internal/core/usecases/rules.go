// internal/core/usecases/rules.go
package usecases

import (
	"strings"

	"leadrouter/internal/core/domain"
)

// ruleOpKeys are the fields probed, in order, for a rule's operator.
var ruleOpKeys = []string{"op", "operator", "mode", "match", "type"}

// ResolveRule turns a raw stored rule of any historical shape into a
// canonical rule. Scalars become a contains rule on their coerced value.
// Objects resolve the operator and value separately, falling back to coercing
// the whole object when no value-holding key is present.
func ResolveRule(raw any) domain.Rule {
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.Rule{Op: domain.RuleOpContains, Value: CoerceScalar(raw)}
	}

	op := domain.RuleOpContains
	for _, key := range ruleOpKeys {
		v, exists := obj[key]
		if !exists {
			continue
		}
		if token := strings.ToLower(strings.TrimSpace(coerceScalar(v, 2))); token != "" {
			op = parseRuleOp(token)
			break
		}
	}

	value := ""
	for _, key := range coercePriorityKeys {
		if v, exists := obj[key]; exists {
			if out := CoerceScalar(v); out != "" {
				value = out
				break
			}
		}
	}
	if value == "" {
		value = CoerceScalar(obj)
	}

	return domain.Rule{Op: op, Value: value}
}

// parseRuleOp maps an operator token to a rule operator. Unrecognized tokens
// mean contains.
func parseRuleOp(token string) domain.RuleOp {
	switch token {
	case "equals", "equal", "eq", "is", "match":
		return domain.RuleOpEquals
	default:
		return domain.RuleOpContains
	}
}

// MatchRule evaluates a resolved rule against a set of input strings,
// case-insensitively. An empty resolved value never matches.
func MatchRule(inputs []string, rule domain.Rule) bool {
	value := strings.ToLower(strings.TrimSpace(rule.Value))
	if value == "" {
		return false
	}

	for _, input := range inputs {
		in := strings.ToLower(strings.TrimSpace(input))
		if in == "" {
			continue
		}

		switch rule.Op {
		case domain.RuleOpEquals:
			if in == value {
				return true
			}
		default:
			if strings.Contains(in, value) {
				return true
			}
		}
	}

	return false
}

// ChooseRoute evaluates both branches of a campaign against the inputs.
// Branch-1 wins when both match; this tie-break is fixed policy.
func ChooseRoute(inputs []string, campaign *domain.CampaignConfig) domain.RouteDecision {
	branch1 := campaign.Branch1.HasRule && MatchRule(inputs, campaign.Branch1.Rule)
	branch2 := campaign.Branch2.HasRule && MatchRule(inputs, campaign.Branch2.Rule)

	switch {
	case branch1:
		return domain.RouteDecision{
			Branch: domain.RouteBranch1,
			Rule:   campaign.Branch1.Rule,
			Target: campaign.Branch1.Target,
		}
	case branch2:
		return domain.RouteDecision{
			Branch: domain.RouteBranch2,
			Rule:   campaign.Branch2.Rule,
			Target: campaign.Branch2.Target,
		}
	default:
		return domain.RouteDecision{Branch: domain.RouteNone}
	}
}
