// cmd/leadrouter/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadrouter/internal/adapters/crm"
	"leadrouter/internal/adapters/output"
	"leadrouter/internal/adapters/store"
	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/usecases"
	"leadrouter/internal/platform/config"
	"leadrouter/internal/platform/logx"
	"leadrouter/internal/platform/ui"
)

var (
	// Set with -ldflags at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	command := os.Args[1]
	if command == "-h" || command == "--help" || command == "help" {
		usage()
		os.Exit(0)
	}

	// 1. Load centralized config: defaults, then ENV, then flags
	cfg, err := config.Load(os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.PrintVersion {
		fmt.Printf("leadrouter %s (commit %s, built %s)\n", version, commit, date)
		os.Exit(0)
	}

	// 2. Shared logger
	logger := logx.New()

	logger.Info("leadrouter starting",
		"version", version,
		"command", command,
	)

	// 3. Context and signals for clean shutdown
	ctx, cancel := rootContextWithSignals()
	defer cancel()

	// 4. Dispatch
	var code int
	switch command {
	case "sweep":
		code = runSweep(ctx, cfg, logger)
	case "route":
		code = runRoute(ctx, cfg, logger)
	case "search":
		code = runSearch(ctx, cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", command)
		usage()
		code = 2
	}

	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: leadrouter <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  sweep    Run the expiration sweep across all eligible campaigns")
	fmt.Fprintln(os.Stderr, "  route    Route one inbound message (--text, --handle, --name)")
	fmt.Fprintln(os.Stderr, "  search   Search the card directory for an identity (--needle)")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Try: leadrouter sweep --help")
}

// runSweep wires the sweep path: CRM client, combined campaign store,
// dual-write counters, audit log, sweeper.
func runSweep(ctx context.Context, cfg config.Config, logger logx.Logger) int {
	if cfg.CRM.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: CRM base URL is required (--crm.url or LEADROUTER_CRM_BASE_URL)")
		return 2
	}

	presenter := buildPresenter(cfg)
	defer presenter.Close()

	// CRM client and cached pipeline directory
	client := newCRMClient(cfg, logger)
	pipelines := crm.NewCachedPipelineDirectory(client, 5*time.Minute, logger)

	// Stores
	primary, err := store.OpenSQLite(cfg.Store.Path, logger)
	if err != nil {
		logger.Err(err, "phase", "store-open")
		return 1
	}
	defer primary.Close()

	legacy := store.NewLegacyStore(cfg.Store.LegacyDir, logger)
	campaigns := store.NewCombinedCampaignStore(primary, legacy, logger)
	counters := store.NewDualCounterStore(primary, legacy, logger)
	audit := store.NewFileAuditLog(cfg.Store.AuditPath, logger)

	sweeper := usecases.NewSweeper(usecases.SweeperOptions{
		Campaigns: campaigns,
		Directory: client,
		Pipelines: pipelines,
		Counters:  counters,
		Audit:     audit,
		Logger:    logger,

		OnCampaignStart: presenter.StartCampaign,
		OnCampaignDone: func(report domain.CampaignSweepReport) {
			presenter.CampaignDone(ui.CampaignResult{
				Name:      campaignLabel(report.CampaignName, report.CampaignID),
				Pages:     report.Pages,
				Cards:     report.TotalCards,
				Stale:     report.Stale,
				Moved:     report.Moved,
				Errors:    len(report.Errors),
				Truncated: report.MaxPagesReached || report.SkippedByLimit > 0,
			})
		},
		OnCampaignSkipped: func(skipped domain.SkippedCampaign) {
			presenter.CampaignSkipped(skipped.CampaignID, []string{string(skipped.Reason)})
		},
	})

	presenter.Start(ui.RunInfo{
		Command:    "sweep",
		BaseURL:    cfg.CRM.BaseURL,
		PerPage:    cfg.Sweep.PerPage,
		MaxPages:   cfg.Sweep.MaxPages,
		MoveBudget: cfg.Sweep.MaxMovesPerRun,
	})

	summary, err := sweeper.Run(ctx, usecases.RunOptions{
		PerPage:        cfg.Sweep.PerPage,
		MaxPages:       cfg.Sweep.MaxPages,
		MaxMovesPerRun: cfg.Sweep.MaxMovesPerRun,
	})
	if err != nil {
		presenter.Error(fmt.Sprintf("sweep failed: %v", err))
		logger.Err(err, "phase", "sweep")
		return 1
	}

	if path, werr := output.WriteSweepSummary(cfg.Store.OutputDir, summary); werr != nil {
		logger.Err(werr, "phase", "output")
	} else {
		presenter.Info("summary written to " + path)
	}

	presenter.Finish(ui.RunStats{
		Duration:    summary.Duration,
		Campaigns:   len(summary.Campaigns),
		Skipped:     len(summary.Skipped),
		TotalMoved:  summary.TotalMoved,
		TotalErrors: summary.TotalErrors(),
	})

	if !summary.OK() {
		return 1
	}
	return 0
}

// runRoute wires the live routing path for a single message.
func runRoute(ctx context.Context, cfg config.Config, logger logx.Logger) int {
	if cfg.CRM.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: CRM base URL is required (--crm.url or LEADROUTER_CRM_BASE_URL)")
		return 2
	}
	if cfg.Route.Text == "" {
		fmt.Fprintln(os.Stderr, "Error: message text is required (--text)")
		return 2
	}
	if cfg.Route.Handle == "" && cfg.Route.FullName == "" {
		fmt.Fprintln(os.Stderr, "Error: a sender identity is required (--handle or --name)")
		return 2
	}

	client := newCRMClient(cfg, logger)
	pipelines := crm.NewCachedPipelineDirectory(client, 5*time.Minute, logger)

	primary, err := store.OpenSQLite(cfg.Store.Path, logger)
	if err != nil {
		logger.Err(err, "phase", "store-open")
		return 1
	}
	defer primary.Close()

	legacy := store.NewLegacyStore(cfg.Store.LegacyDir, logger)

	router := usecases.NewRouter(usecases.RouterOptions{
		Campaigns: store.NewCombinedCampaignStore(primary, legacy, logger),
		Directory: client,
		Pipelines: pipelines,
		Counters:  store.NewDualCounterStore(primary, legacy, logger),
		Audit:     store.NewFileAuditLog(cfg.Store.AuditPath, logger),
		Logger:    logger,
	})

	report, err := router.RouteMessage(ctx, domain.InboundMessage{
		Handle:   cfg.Route.Handle,
		FullName: cfg.Route.FullName,
		Text:     cfg.Route.Text,
	}, usecases.SearchOptions{
		PerPage:  cfg.Search.PerPage,
		MaxPages: cfg.Search.MaxPages,
	})
	if err != nil {
		logger.Err(err, "phase", "route")
		return 1
	}

	if path, werr := output.WriteRouteReport(cfg.Store.OutputDir, report); werr != nil {
		logger.Err(werr, "phase", "output")
	} else {
		logger.Info("route report written", "path", path)
	}

	if err := output.WriteJSONStdout(report, !cfg.Quiet); err != nil {
		logger.Err(err, "phase", "output")
		return 1
	}
	return 0
}

// runSearch wires a standalone identity search against the directory.
func runSearch(ctx context.Context, cfg config.Config, logger logx.Logger) int {
	if cfg.CRM.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: CRM base URL is required (--crm.url or LEADROUTER_CRM_BASE_URL)")
		return 2
	}
	if cfg.Search.Needle == "" {
		fmt.Fprintln(os.Stderr, "Error: a search needle is required (--needle)")
		return 2
	}

	client := newCRMClient(cfg, logger)
	engine := usecases.NewSearchEngine(client, logger)

	report, err := engine.Search(ctx, cfg.Search.Needle, usecases.SearchOptions{
		PipelineID: cfg.Search.PipelineID,
		StatusID:   cfg.Search.StatusID,
		PerPage:    cfg.Search.PerPage,
		MaxPages:   cfg.Search.MaxPages,
	})
	if err != nil {
		logger.Err(err, "phase", "search")
		return 1
	}

	if err := output.WriteJSONStdout(report, !cfg.Quiet); err != nil {
		logger.Err(err, "phase", "search")
		return 1
	}
	return 0
}

func newCRMClient(cfg config.Config, logger logx.Logger) *crm.Client {
	return crm.New(crm.Options{
		BaseURL:    cfg.CRM.BaseURL,
		AuthToken:  cfg.CRM.AuthToken,
		Timeout:    cfg.Timeout(),
		RateLimit:  cfg.CRM.RateLimit,
		MaxRetries: cfg.CRM.MaxRetries,
		Logger:     logger,
	})
}

func buildPresenter(cfg config.Config) ui.Presenter {
	if cfg.Quiet {
		return ui.NewNoopPresenter()
	}
	return ui.NewPTermPresenter()
}

func campaignLabel(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

// rootContextWithSignals creates a root context cancelled on SIGINT/SIGTERM.
// Runs are bounded by their page and move caps, not by a global timeout.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		close(ch)
		baseCancel()
	}

	return base, cleanup
}
