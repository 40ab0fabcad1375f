// internal/adapters/store/counters.go
package store

import (
	"context"
	"strconv"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/ports"
	"leadrouter/internal/platform/errors"
	"leadrouter/internal/platform/logx"
)

// DualCounterStore writes counters to the primary store and falls back to
// the legacy store when the campaign has no primary record, so
// historically-created campaigns keep counting.
type DualCounterStore struct {
	primary ports.CounterStore
	legacy  ports.CounterStore
	logger  logx.Logger
}

// NewDualCounterStore creates the dual-write counter path. legacy may be nil.
func NewDualCounterStore(primary, legacy ports.CounterStore, logger logx.Logger) *DualCounterStore {
	if logger == nil {
		logger = logx.New()
	}
	return &DualCounterStore{
		primary: primary,
		legacy:  legacy,
		logger:  logger.With("component", "counters"),
	}
}

// Increment tries the primary store first; a missing primary record routes
// the increment to the legacy store instead.
func (d *DualCounterStore) Increment(ctx context.Context, campaignID string, counter domain.CounterName) error {
	err := d.primary.Increment(ctx, campaignID, counter)
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}

	if d.legacy == nil {
		return err
	}

	d.logger.Debug("campaign not in primary store, incrementing legacy counter",
		"campaign_id", campaignID,
	)
	return d.legacy.Increment(ctx, campaignID, counter)
}

// CombinedCampaignStore lists campaigns from the primary store followed by
// legacy records that have not been migrated yet (same id in both stores
// means the primary record wins).
type CombinedCampaignStore struct {
	primary ports.CampaignStore
	legacy  ports.CampaignStore
	logger  logx.Logger
}

// NewCombinedCampaignStore creates the combined read path. legacy may be nil.
func NewCombinedCampaignStore(primary, legacy ports.CampaignStore, logger logx.Logger) *CombinedCampaignStore {
	if logger == nil {
		logger = logx.New()
	}
	return &CombinedCampaignStore{
		primary: primary,
		legacy:  legacy,
		logger:  logger.With("component", "campaign_store"),
	}
}

// ListCampaigns returns primary records first, then unmigrated legacy ones.
// A legacy listing failure only costs the legacy records.
func (c *CombinedCampaignStore) ListCampaigns(ctx context.Context) ([]domain.RawCampaign, error) {
	out, err := c.primary.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	if c.legacy == nil {
		return out, nil
	}

	seen := make(map[string]bool, len(out))
	for _, raw := range out {
		if id := rawID(raw); id != "" {
			seen[id] = true
		}
	}

	legacy, err := c.legacy.ListCampaigns(ctx)
	if err != nil {
		c.logger.Warn("legacy campaign listing failed", "error", err.Error())
		return out, nil
	}

	for _, raw := range legacy {
		if id := rawID(raw); id != "" && seen[id] {
			continue
		}
		out = append(out, raw)
	}

	return out, nil
}

// rawID pulls the record id without full resolution, only for dedup between
// the two stores.
func rawID(raw domain.RawCampaign) string {
	for _, key := range []string{"id", "campaign_id", "_id", "key"} {
		if v, ok := raw[key]; ok {
			switch t := v.(type) {
			case string:
				return t
			case float64:
				return strconv.FormatInt(int64(t), 10)
			case int:
				return strconv.Itoa(t)
			case int64:
				return strconv.FormatInt(t, 10)
			}
		}
	}
	return ""
}
