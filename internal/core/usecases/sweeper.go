// internal/core/usecases/sweeper.go
package usecases

import (
	"context"
	"time"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/ports"
	"leadrouter/internal/platform/errors"
	"leadrouter/internal/platform/logx"
)

// Sweep tuning defaults and bounds.
const (
	defaultMaxMoves = 100
	maxMaxMoves     = 500

	msPerDay = 86_400_000
)

// RunOptions tunes one sweep run. Zero values fall back to defaults;
// out-of-range values are clamped.
type RunOptions struct {
	PerPage        int
	MaxPages       int
	MaxMovesPerRun int
}

func (o RunOptions) normalized() RunOptions {
	o.PerPage = clampInt(o.PerPage, 1, maxPerPage, defaultPerPage)
	o.MaxPages = clampInt(o.MaxPages, 1, maxMaxPages, defaultMaxPages)
	o.MaxMovesPerRun = clampInt(o.MaxMovesPerRun, 1, maxMaxMoves, defaultMaxMoves)
	return o
}

// SweeperOptions configures the sweeper.
type SweeperOptions struct {
	Campaigns ports.CampaignStore
	Directory ports.CardDirectory
	Pipelines ports.PipelineDirectory
	Counters  ports.CounterStore
	Audit     ports.AuditLog
	Logger    logx.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time

	// Observers, all optional.
	OnCampaignStart   func(name string)
	OnCampaignDone    func(report domain.CampaignSweepReport)
	OnCampaignSkipped func(skipped domain.SkippedCampaign)
}

// Sweeper runs the scheduled expiration scan: for every eligible campaign it
// pages through the base stage, classifies each card by age, and moves the
// stale ones to the expiration target within the run's move budget.
//
// Campaigns, pages and moves are processed sequentially: the directory API
// enforces a shared rate limit, and spreading the scan over goroutines would
// only trip it.
type Sweeper struct {
	campaigns ports.CampaignStore
	directory ports.CardDirectory
	pipelines ports.PipelineDirectory
	counters  ports.CounterStore
	audit     ports.AuditLog
	resolver  *CampaignResolver
	targets   *TargetResolver
	mover     *MoveExecutor
	logger    logx.Logger
	now       func() time.Time

	onCampaignStart   func(string)
	onCampaignDone    func(domain.CampaignSweepReport)
	onCampaignSkipped func(domain.SkippedCampaign)
}

// NewSweeper creates a sweeper.
func NewSweeper(opts SweeperOptions) *Sweeper {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Sweeper{
		campaigns:         opts.Campaigns,
		directory:         opts.Directory,
		pipelines:         opts.Pipelines,
		counters:          opts.Counters,
		audit:             opts.Audit,
		resolver:          NewCampaignResolver(),
		targets:           NewTargetResolver(),
		mover:             NewMoveExecutor(opts.Directory, opts.Logger),
		logger:            opts.Logger.With("component", "sweeper"),
		now:               opts.Now,
		onCampaignStart:   opts.OnCampaignStart,
		onCampaignDone:    opts.OnCampaignDone,
		onCampaignSkipped: opts.OnCampaignSkipped,
	}
}

// Run executes one sweep across all stored campaigns and returns the full
// summary. Partial success is the normal outcome: per-card failures land in
// the campaign's error list, a page failure ends only that campaign's scan,
// and one campaign never aborts another.
func (s *Sweeper) Run(ctx context.Context, opts RunOptions) (*domain.SweepSummary, error) {
	opts = opts.normalized()
	summary := domain.NewSweepSummary()

	raws, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campaigns")
	}

	// best effort: without the directory the target resolver passes
	// references through unchanged
	pipelines, err := s.pipelines.ListPipelines(ctx)
	if err != nil {
		s.logger.Warn("pipeline directory unavailable, targets used as stored",
			"error", err.Error(),
		)
	}

	s.logger.Info("starting sweep",
		"run_id", summary.RunID,
		"campaigns", len(raws),
		"per_page", opts.PerPage,
		"max_pages", opts.MaxPages,
		"move_budget", opts.MaxMovesPerRun,
	)

	movesLeft := opts.MaxMovesPerRun

	for _, raw := range raws {
		cfg, reason := s.resolver.Resolve(raw)
		if cfg == nil {
			s.skip(summary, CampaignID(raw), reason)
			continue
		}
		if reason := cfg.ExpirationEligibility(); reason != domain.SkipNone {
			s.skip(summary, cfg.ID, reason)
			continue
		}

		if s.onCampaignStart != nil {
			s.onCampaignStart(cfg.Name)
		}

		report := s.sweepCampaign(ctx, cfg, pipelines, opts, &movesLeft)
		summary.Campaigns = append(summary.Campaigns, report)
		summary.TotalMoved += report.Moved

		if s.onCampaignDone != nil {
			s.onCampaignDone(report)
		}
	}

	summary.Finalize()

	s.logger.Info("sweep finished",
		"run_id", summary.RunID,
		"campaigns", len(summary.Campaigns),
		"skipped", len(summary.Skipped),
		"moved", summary.TotalMoved,
		"errors", summary.TotalErrors(),
		"duration_ms", summary.Duration.Milliseconds(),
	)

	s.appendAudit(ctx, summary)

	return summary, nil
}

// sweepCampaign pages through one campaign's base stage. movesLeft is the
// shared per-run move budget, decremented on every attempted move.
func (s *Sweeper) sweepCampaign(ctx context.Context, cfg *domain.CampaignConfig, pipelines []domain.Pipeline, opts RunOptions, movesLeft *int) domain.CampaignSweepReport {
	report := domain.CampaignSweepReport{
		CampaignID:   cfg.ID,
		CampaignName: cfg.Name,
	}

	target := s.targets.Resolve(cfg.Expiration.Target, pipelines)
	nowMs := s.now().UnixMilli()

	for page := 1; page <= opts.MaxPages; page++ {
		cardPage, err := s.directory.ListCards(ctx, ports.CardQuery{
			PipelineID: cfg.Base.PipelineID,
			StatusID:   cfg.Base.StatusID,
			Page:       page,
			PerPage:    opts.PerPage,
		})
		if err != nil {
			// page failure ends this campaign's scan; processed pages stand
			report.AddError(0, err.Error())
			break
		}

		report.Pages++

		for _, card := range cardPage.Cards {
			report.TotalCards++

			ms, ok := CardTimestampMs(card)
			if !ok {
				report.WithoutTimestamp++
				continue
			}
			report.Timestamped++

			ageDays := float64(nowMs-ms) / msPerDay
			if ageDays < float64(cfg.Expiration.Days) {
				continue
			}
			report.Stale++

			if *movesLeft <= 0 {
				report.SkippedByLimit++
				continue
			}

			result := s.mover.Move(ctx, card, target)
			if result.Attempted {
				*movesLeft--
			}

			switch {
			case result.Attempted && result.OK:
				report.Moved++
				s.bumpCounter(ctx, cfg.ID)
			case !result.OK:
				report.AddError(card.ID, moveFailureMessage(result))
			}
		}

		if !cardPage.HasNext {
			break
		}
		if page == opts.MaxPages {
			report.MaxPagesReached = true
		}
	}

	return report
}

// bumpCounter increments the campaign's expiration counter. Counters are
// advisory: a failed increment is logged and swallowed, the completed move is
// the source of truth.
func (s *Sweeper) bumpCounter(ctx context.Context, campaignID string) {
	if s.counters == nil {
		return
	}
	if err := s.counters.Increment(ctx, campaignID, domain.CounterExpiration); err != nil {
		s.logger.Warn("counter increment failed",
			"campaign_id", campaignID,
			"counter", string(domain.CounterExpiration),
			"error", err.Error(),
		)
	}
}

// appendAudit writes the run summary to the audit log. Best effort: a failed
// append never fails the run.
func (s *Sweeper) appendAudit(ctx context.Context, summary *domain.SweepSummary) {
	if s.audit == nil {
		return
	}
	entry := ports.AuditEntry{
		Time:    s.now(),
		Kind:    "sweep",
		RunID:   summary.RunID,
		Payload: summary,
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Warn("audit append failed",
			"run_id", summary.RunID,
			"error", err.Error(),
		)
	}
}

func (s *Sweeper) skip(summary *domain.SweepSummary, campaignID string, reason domain.SkipReason) {
	summary.AddSkipped(campaignID, reason)
	s.logger.Debug("campaign skipped",
		"campaign_id", campaignID,
		"reason", string(reason),
	)
	if s.onCampaignSkipped != nil {
		s.onCampaignSkipped(domain.SkippedCampaign{CampaignID: campaignID, Reason: reason})
	}
}
