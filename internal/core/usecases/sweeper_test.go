// internal/core/usecases/sweeper_test.go
package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/testutil"
)

var sweepNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func sweepCampaignRecord(id string, days int) domain.RawCampaign {
	return domain.RawCampaign{
		"id":   id,
		"name": "Campaign " + id,
		"base": map[string]any{"pipeline_id": "10", "status_id": "100"},
		"expiration": map[string]any{
			"days":   float64(days),
			"target": map[string]any{"pipeline_id": "20", "status_id": "200"},
		},
	}
}

func agedCard(id int64, age time.Duration) domain.Card {
	return domain.Card{
		ID:              id,
		PipelineID:      "10",
		StatusID:        "100",
		StatusChangedAt: float64(sweepNow.Add(-age).UnixMilli()),
	}
}

func newTestSweeper(dir *fakeDirectory, store *fakeCampaignStore, counters *fakeCounterStore, audit *fakeAuditLog) *Sweeper {
	opts := SweeperOptions{
		Campaigns: store,
		Directory: dir,
		Pipelines: &fakePipelineDirectory{},
		Logger:    testutil.NewTestLogger(),
		Now:       func() time.Time { return sweepNow },
	}
	// assign only when non-nil so a nil *fake doesn't become a non-nil interface
	if counters != nil {
		opts.Counters = counters
	}
	if audit != nil {
		opts.Audit = audit
	}
	return NewSweeper(opts)
}

func TestSweepMovesStaleCards(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(agedCard(1, 4*24*time.Hour))  // stale
	dir.add(agedCard(2, 12*time.Hour))    // fresh
	dir.add(domain.Card{ID: 3, PipelineID: "10", StatusID: "100"}) // no timestamp

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{sweepCampaignRecord("c1", 3)}}
	counters := newFakeCounterStore()
	audit := &fakeAuditLog{}

	sweeper := newTestSweeper(dir, store, counters, audit)
	summary, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, len(summary.Campaigns), 1, "campaign reports")
	report := summary.Campaigns[0]
	testutil.AssertEqual(t, report.TotalCards, 3, "total cards")
	testutil.AssertEqual(t, report.Timestamped, 2, "timestamped")
	testutil.AssertEqual(t, report.WithoutTimestamp, 1, "without timestamp")
	testutil.AssertEqual(t, report.Stale, 1, "stale")
	testutil.AssertEqual(t, report.Moved, 1, "moved")
	testutil.AssertEqual(t, summary.TotalMoved, 1, "total moved")
	testutil.AssertTrue(t, summary.OK(), "summary ok")

	testutil.AssertEqual(t, len(dir.moveCalls), 1, "move calls")
	testutil.AssertEqual(t, dir.moveCalls[0].CardID, int64(1), "moved card")
	testutil.AssertEqual(t, counters.count("c1", domain.CounterExpiration), 1, "expiration counter")

	testutil.AssertEqual(t, len(audit.entries), 1, "audit entries")
	testutil.AssertEqual(t, audit.entries[0].Kind, "sweep", "audit kind")
	testutil.AssertEqual(t, audit.entries[0].RunID, summary.RunID, "audit run id")
}

func TestSweepAgeBoundaryIsInclusive(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(agedCard(1, 3*24*time.Hour))                 // exactly at the threshold
	dir.add(agedCard(2, 3*24*time.Hour-time.Millisecond)) // one ms younger

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{sweepCampaignRecord("c1", 3)}}
	sweeper := newTestSweeper(dir, store, newFakeCounterStore(), nil)

	summary, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertNoError(t, err, "run")

	report := summary.Campaigns[0]
	testutil.AssertEqual(t, report.Stale, 1, "stale")
	testutil.AssertEqual(t, report.Moved, 1, "moved")
	testutil.AssertEqual(t, dir.moveCalls[0].CardID, int64(1), "boundary card moved")
}

func TestSweepIsIdempotent(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(agedCard(1, 4*24*time.Hour))
	dir.add(agedCard(2, 12*time.Hour))

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{sweepCampaignRecord("c1", 3)}}
	counters := newFakeCounterStore()
	sweeper := newTestSweeper(dir, store, counters, nil)

	first, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertNoError(t, err, "first run")
	testutil.AssertEqual(t, first.TotalMoved, 1, "first run moved")

	// the moved card now sits in the target stage; a second identical run
	// must not touch anything
	second, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertNoError(t, err, "second run")
	testutil.AssertEqual(t, second.TotalMoved, 0, "second run moved")
	testutil.AssertEqual(t, len(dir.moveCalls), 1, "move calls total")
	testutil.AssertEqual(t, counters.count("c1", domain.CounterExpiration), 1, "counter bumped once")
}

func TestSweepMaxPages(t *testing.T) {
	dir := newFakeDirectory()
	for i := int64(1); i <= 10; i++ {
		dir.add(agedCard(i, 12*time.Hour)) // fresh, nothing moves
	}

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{sweepCampaignRecord("c1", 3)}}
	sweeper := newTestSweeper(dir, store, nil, nil)

	summary, err := sweeper.Run(context.Background(), RunOptions{PerPage: 2, MaxPages: 3})
	testutil.AssertNoError(t, err, "run")

	report := summary.Campaigns[0]
	testutil.AssertEqual(t, report.Pages, 3, "pages scanned")
	testutil.AssertEqual(t, report.TotalCards, 6, "cards seen")
	testutil.AssertTrue(t, report.MaxPagesReached, "truncation flagged")
}

func TestSweepMoveBudget(t *testing.T) {
	dir := newFakeDirectory()
	for i := int64(1); i <= 5; i++ {
		dir.add(agedCard(i, 10*24*time.Hour))
	}

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{sweepCampaignRecord("c1", 3)}}
	sweeper := newTestSweeper(dir, store, nil, nil)

	summary, err := sweeper.Run(context.Background(), RunOptions{MaxMovesPerRun: 2})
	testutil.AssertNoError(t, err, "run")

	report := summary.Campaigns[0]
	testutil.AssertEqual(t, report.Stale, 5, "stale")
	testutil.AssertEqual(t, report.Moved, 2, "moved within budget")
	testutil.AssertEqual(t, report.SkippedByLimit, 3, "skipped by limit")
	testutil.AssertEqual(t, len(dir.moveCalls), 2, "move calls")
}

func TestSweepBudgetSharedAcrossCampaigns(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(agedCard(1, 10*24*time.Hour))
	dir.add(agedCard(2, 10*24*time.Hour))
	dir.add(agedCard(3, 10*24*time.Hour))

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{
		sweepCampaignRecord("c1", 3),
		sweepCampaignRecord("c2", 3),
	}}
	sweeper := newTestSweeper(dir, store, nil, nil)

	// c1 drains the whole budget and relocates all three cards; c2 scans the
	// now-empty base stage
	summary, err := sweeper.Run(context.Background(), RunOptions{MaxMovesPerRun: 3})
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, summary.TotalMoved, 3, "total moved")
	testutil.AssertEqual(t, summary.Campaigns[1].TotalCards, 0, "second campaign saw drained stage")
}

func TestSweepPageFailureAbortsOneCampaignOnly(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(agedCard(1, 10*24*time.Hour))
	dir.listErr = errors.New("upstream unavailable")
	dir.listErrOn = 1 // only the first campaign's first page fails

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{
		sweepCampaignRecord("c1", 3),
		sweepCampaignRecord("c2", 3),
	}}
	sweeper := newTestSweeper(dir, store, nil, nil)

	summary, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, len(summary.Campaigns), 2, "both campaigns reported")
	testutil.AssertEqual(t, len(summary.Campaigns[0].Errors), 1, "first campaign errored")
	testutil.AssertEqual(t, summary.Campaigns[0].Errors[0].CardID, int64(0), "page-level error")
	testutil.AssertEqual(t, summary.Campaigns[1].Moved, 1, "second campaign still swept")
	testutil.AssertFalse(t, summary.OK(), "summary not ok")
}

func TestSweepRejectedMoveRecordsError(t *testing.T) {
	dir := newFakeDirectory()
	dir.moveFail = true
	dir.add(agedCard(7, 10*24*time.Hour))

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{sweepCampaignRecord("c1", 3)}}
	sweeper := newTestSweeper(dir, store, nil, nil)

	summary, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertNoError(t, err, "run")

	report := summary.Campaigns[0]
	testutil.AssertEqual(t, report.Moved, 0, "moved")
	testutil.AssertEqual(t, len(report.Errors), 1, "errors")
	testutil.AssertEqual(t, report.Errors[0].CardID, int64(7), "card id")
	testutil.AssertEqual(t, summary.TotalErrors(), 1, "total errors")
}

func TestSweepSkipsIneligibleCampaigns(t *testing.T) {
	dir := newFakeDirectory()

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{
		{"id": "gone", "deleted": true},
		{"id": "off", "enabled": false},
		{"id": "no-days", "base": map[string]any{"pipeline_id": "10", "status_id": "100"},
			"expiration": map[string]any{"target": map[string]any{"pipeline_id": "20", "status_id": "200"}}},
		sweepCampaignRecord("live", 3),
	}}

	var skipped []domain.SkippedCampaign
	sweeper := NewSweeper(SweeperOptions{
		Campaigns: store,
		Directory: dir,
		Pipelines: &fakePipelineDirectory{},
		Logger:    testutil.NewTestLogger(),
		Now:       func() time.Time { return sweepNow },
		OnCampaignSkipped: func(s domain.SkippedCampaign) {
			skipped = append(skipped, s)
		},
	})

	summary, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, len(summary.Skipped), 3, "skipped count")
	testutil.AssertEqual(t, len(summary.Campaigns), 1, "swept count")

	reasons := map[string]domain.SkipReason{}
	for _, s := range summary.Skipped {
		reasons[s.CampaignID] = s.Reason
	}
	testutil.AssertEqual(t, reasons["gone"], domain.SkipDeleted, "deleted reason")
	testutil.AssertEqual(t, reasons["off"], domain.SkipDisabled, "disabled reason")
	testutil.AssertEqual(t, reasons["no-days"], domain.SkipMissingExpDays, "missing days reason")
	testutil.AssertEqual(t, len(skipped), 3, "observer notified")
}

func TestSweepListCampaignsFailure(t *testing.T) {
	store := &fakeCampaignStore{err: errors.New("store down")}
	sweeper := newTestSweeper(newFakeDirectory(), store, nil, nil)

	_, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertError(t, err, "run")
	testutil.AssertContains(t, err.Error(), "failed to list campaigns", "wrapped message")
}

func TestSweepCounterFailureIsSwallowed(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(agedCard(1, 10*24*time.Hour))

	counters := newFakeCounterStore()
	counters.err = errors.New("counter store down")

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{sweepCampaignRecord("c1", 3)}}
	sweeper := newTestSweeper(dir, store, counters, nil)

	summary, err := sweeper.Run(context.Background(), RunOptions{})
	testutil.AssertNoError(t, err, "run")
	testutil.AssertEqual(t, summary.TotalMoved, 1, "move still counted")
	testutil.AssertTrue(t, summary.OK(), "counter failure is not a sweep error")
}
