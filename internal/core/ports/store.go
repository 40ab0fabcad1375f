package ports

import (
	"context"
	"time"

	"leadrouter/internal/core/domain"
)

// CampaignStore reads stored campaign records. Records are returned as-is
// (arbitrary historical shapes); the campaign resolver interprets them.
// Campaigns are read fresh on every routing decision and sweep tick — no
// caching across invocations.
type CampaignStore interface {
	ListCampaigns(ctx context.Context) ([]domain.RawCampaign, error)
}

// CounterStore increments per-campaign usage counters. Implementations
// return domain or platform errors; callers treat increments as advisory and
// never fail the move that triggered one.
type CounterStore interface {
	Increment(ctx context.Context, campaignID string, counter domain.CounterName) error
}

// AuditEntry is one appended audit record.
type AuditEntry struct {
	Time    time.Time `json:"time"`
	Kind    string    `json:"kind"`
	RunID   string    `json:"run_id,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

// AuditLog appends audit entries. Best effort: a failed append must never
// fail the run that produced it.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
}
