// internal/core/usecases/router.go
package usecases

import (
	"context"
	"strings"
	"time"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/ports"
	"leadrouter/internal/platform/errors"
	"leadrouter/internal/platform/logx"
)

// RouterOptions configures the router.
type RouterOptions struct {
	Campaigns ports.CampaignStore
	Directory ports.CardDirectory
	Pipelines ports.PipelineDirectory
	Counters  ports.CounterStore
	Audit     ports.AuditLog
	Logger    logx.Logger
}

// Router routes one inbound message: it evaluates every campaign's rules
// against the message text and, on a match, locates the sender's card in the
// campaign's base stage and moves it to the matched branch's target.
//
// Campaigns are processed independently; a message can legitimately match and
// move cards in more than one campaign, and one campaign's failure never
// aborts the others.
type Router struct {
	campaigns ports.CampaignStore
	pipelines ports.PipelineDirectory
	counters  ports.CounterStore
	audit     ports.AuditLog
	resolver  *CampaignResolver
	search    *SearchEngine
	targets   *TargetResolver
	mover     *MoveExecutor
	logger    logx.Logger
}

// NewRouter creates a router.
func NewRouter(opts RouterOptions) *Router {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	return &Router{
		campaigns: opts.Campaigns,
		pipelines: opts.Pipelines,
		counters:  opts.Counters,
		audit:     opts.Audit,
		resolver:  NewCampaignResolver(),
		search:    NewSearchEngine(opts.Directory, opts.Logger),
		targets:   NewTargetResolver(),
		mover:     NewMoveExecutor(opts.Directory, opts.Logger),
		logger:    opts.Logger.With("component", "router"),
	}
}

// RouteMessage evaluates all stored campaigns against one inbound message.
// Search tuning rides on SearchOptions; the pipeline/status filter is set per
// campaign to its base stage, so only cards awaiting routing are considered.
func (r *Router) RouteMessage(ctx context.Context, msg domain.InboundMessage, opts SearchOptions) (*domain.RouteReport, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return nil, domain.ErrEmptyMessageText
	}

	report := &domain.RouteReport{
		Message:   msg,
		StartTime: time.Now(),
	}

	raws, err := r.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campaigns")
	}

	pipelines, err := r.pipelines.ListPipelines(ctx)
	if err != nil {
		r.logger.Warn("pipeline directory unavailable, targets used as stored",
			"error", err.Error(),
		)
	}

	r.logger.Info("routing message",
		"handle", msg.Handle,
		"campaigns", len(raws),
	)

	for _, raw := range raws {
		report.Outcomes = append(report.Outcomes, r.routeCampaign(ctx, raw, msg, pipelines, opts))
	}

	report.Duration = time.Since(report.StartTime)

	r.logger.Info("routing finished",
		"handle", msg.Handle,
		"moved", report.Moved(),
		"duration_ms", report.Duration.Milliseconds(),
	)

	r.appendAudit(ctx, report)

	return report, nil
}

func (r *Router) routeCampaign(ctx context.Context, raw domain.RawCampaign, msg domain.InboundMessage, pipelines []domain.Pipeline, opts SearchOptions) domain.CampaignRouteOutcome {
	cfg, reason := r.resolver.Resolve(raw)
	if cfg == nil {
		return domain.CampaignRouteOutcome{
			CampaignID: CampaignID(raw),
			Skipped:    reason,
			Branch:     domain.RouteNone,
		}
	}

	outcome := domain.CampaignRouteOutcome{
		CampaignID:   cfg.ID,
		CampaignName: cfg.Name,
		Branch:       domain.RouteNone,
	}

	if reason := cfg.RoutingEligibility(); reason != domain.SkipNone {
		outcome.Skipped = reason
		return outcome
	}

	decision := ChooseRoute([]string{msg.Text}, cfg)
	if decision.Branch == domain.RouteNone {
		return outcome
	}
	outcome.Branch = decision.Branch

	match, err := r.findSenderCard(ctx, msg, cfg, opts)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	if match == nil {
		outcome.Error = "no card matched sender identity"
		return outcome
	}
	outcome.CardID = match.Card.ID

	target := r.targets.Resolve(decision.Target, pipelines)

	result := r.mover.Move(ctx, match.Card, target)
	outcome.Move = &result
	if result.Err != nil {
		outcome.Error = result.Err.Error()
	}

	if result.Attempted && result.OK {
		r.bumpCounter(ctx, cfg.ID, decision.Branch.Counter())
	}

	return outcome
}

// findSenderCard searches the campaign's base stage for the sender, trying
// the social handle first and the display name second.
func (r *Router) findSenderCard(ctx context.Context, msg domain.InboundMessage, cfg *domain.CampaignConfig, opts SearchOptions) (*domain.CardMatch, error) {
	opts.PipelineID = cfg.Base.PipelineID
	opts.StatusID = cfg.Base.StatusID

	for _, needle := range []string{msg.Handle, msg.FullName} {
		if strings.TrimSpace(needle) == "" {
			continue
		}
		report, err := r.search.Search(ctx, needle, opts)
		if err != nil {
			return nil, err
		}
		if report.Match != nil {
			return report.Match, nil
		}
	}

	return nil, nil
}

// bumpCounter increments the branch counter for a completed move. Advisory,
// same policy as the sweep.
func (r *Router) bumpCounter(ctx context.Context, campaignID string, counter domain.CounterName) {
	if r.counters == nil || counter == "" {
		return
	}
	if err := r.counters.Increment(ctx, campaignID, counter); err != nil {
		r.logger.Warn("counter increment failed",
			"campaign_id", campaignID,
			"counter", string(counter),
			"error", err.Error(),
		)
	}
}

func (r *Router) appendAudit(ctx context.Context, report *domain.RouteReport) {
	if r.audit == nil {
		return
	}
	entry := ports.AuditEntry{
		Time:    time.Now(),
		Kind:    "route",
		Payload: report,
	}
	if err := r.audit.Append(ctx, entry); err != nil {
		r.logger.Warn("audit append failed", "error", err.Error())
	}
}
