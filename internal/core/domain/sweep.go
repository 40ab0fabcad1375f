package domain

import (
	"time"

	"github.com/google/uuid"
)

// SweepError is one per-card failure recorded during a campaign's sweep.
// CardID is zero for page-level failures.
type SweepError struct {
	CardID    int64     `json:"card_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// CampaignSweepReport accumulates one campaign's numbers for a sweep run.
type CampaignSweepReport struct {
	CampaignID       string       `json:"campaign_id"`
	CampaignName     string       `json:"campaign_name,omitempty"`
	TotalCards       int          `json:"total_cards"`
	Timestamped      int          `json:"timestamped"`
	WithoutTimestamp int          `json:"without_timestamp"`
	Stale            int          `json:"stale"`
	Moved            int          `json:"moved"`
	SkippedByLimit   int          `json:"skipped_by_limit"`
	Pages            int          `json:"pages"`
	MaxPagesReached  bool         `json:"max_pages_reached,omitempty"`
	Errors           []SweepError `json:"errors,omitempty"`
}

// AddError appends a per-card (or per-page, cardID 0) failure.
func (r *CampaignSweepReport) AddError(cardID int64, message string) {
	r.Errors = append(r.Errors, SweepError{
		CardID:    cardID,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// SkippedCampaign records a campaign excluded from a sweep run and why.
type SkippedCampaign struct {
	CampaignID string     `json:"campaign_id"`
	Reason     SkipReason `json:"reason"`
}

// SweepSummary is the return value of one sweep run: per-campaign reports,
// skipped campaigns with reasons, and run totals. Partial success (some
// cards moved, some errored) is the normal outcome, not a failure mode.
type SweepSummary struct {
	RunID      string                `json:"run_id"`
	StartTime  time.Time             `json:"start_time"`
	EndTime    time.Time             `json:"end_time"`
	Duration   time.Duration         `json:"duration"`
	Campaigns  []CampaignSweepReport `json:"campaigns"`
	Skipped    []SkippedCampaign     `json:"skipped,omitempty"`
	TotalMoved int                   `json:"total_moved"`
}

// NewSweepSummary starts a run summary with a fresh run id.
func NewSweepSummary() *SweepSummary {
	return &SweepSummary{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
}

// AddSkipped records an excluded campaign.
func (s *SweepSummary) AddSkipped(campaignID string, reason SkipReason) {
	s.Skipped = append(s.Skipped, SkippedCampaign{CampaignID: campaignID, Reason: reason})
}

// Finalize stamps the end of the run.
func (s *SweepSummary) Finalize() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// OK reports whether the run finished with an empty aggregated error list.
func (s *SweepSummary) OK() bool {
	for _, c := range s.Campaigns {
		if len(c.Errors) > 0 {
			return false
		}
	}
	return true
}

// TotalErrors counts errors across all campaigns.
func (s *SweepSummary) TotalErrors() int {
	n := 0
	for _, c := range s.Campaigns {
		n += len(c.Errors)
	}
	return n
}
