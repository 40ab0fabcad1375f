package domain

import "time"

// RouteBranch names the outcome of evaluating a campaign's rules against a
// message.
type RouteBranch string

const (
	RouteNone    RouteBranch = "none"
	RouteBranch1 RouteBranch = "branch1"
	RouteBranch2 RouteBranch = "branch2"
)

// Counter returns the usage counter matching the branch, or "" for none.
func (b RouteBranch) Counter() CounterName {
	switch b {
	case RouteBranch1:
		return CounterBranch1
	case RouteBranch2:
		return CounterBranch2
	default:
		return ""
	}
}

// RouteDecision is the result of evaluating one campaign's rules. Branch-1
// wins when both branches match; this tie-break is fixed policy.
type RouteDecision struct {
	Branch RouteBranch `json:"branch"`
	Rule   Rule        `json:"rule,omitempty"`
	Target TargetRef   `json:"target,omitempty"`
}

// InboundMessage is a normalized inbound chat message: who wrote (handle and
// display name) and what they wrote.
type InboundMessage struct {
	Handle   string `json:"handle"`
	FullName string `json:"full_name"`
	Text     string `json:"text"`
}

// CampaignRouteOutcome is the per-campaign result of live routing one
// message. One campaign's failure never aborts the others.
type CampaignRouteOutcome struct {
	CampaignID   string      `json:"campaign_id"`
	CampaignName string      `json:"campaign_name,omitempty"`
	Skipped      SkipReason  `json:"skipped,omitempty"`
	Branch       RouteBranch `json:"branch"`
	CardID       int64       `json:"card_id,omitempty"`
	Move         *MoveResult `json:"move,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// RouteReport aggregates the outcomes of routing one inbound message across
// all stored campaigns.
type RouteReport struct {
	Message   InboundMessage         `json:"message"`
	StartTime time.Time              `json:"start_time"`
	Duration  time.Duration          `json:"duration"`
	Outcomes  []CampaignRouteOutcome `json:"outcomes"`
}

// Moved counts outcomes whose move was executed successfully.
func (r *RouteReport) Moved() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Move != nil && o.Move.Attempted && o.Move.OK {
			n++
		}
	}
	return n
}
