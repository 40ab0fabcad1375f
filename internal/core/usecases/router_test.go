// internal/core/usecases/router_test.go
package usecases

import (
	"context"
	"errors"
	"testing"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/testutil"
)

func routeCampaignRecord(id string) domain.RawCampaign {
	return domain.RawCampaign{
		"id":   id,
		"name": "Campaign " + id,
		"base": map[string]any{"pipeline_id": "10", "status_id": "100"},
		"branch1": map[string]any{
			"rule":   map[string]any{"op": "contains", "value": "consult"},
			"target": map[string]any{"pipeline_id": "10", "status_id": "110"},
		},
		"branch2": map[string]any{
			"rule":   map[string]any{"op": "equals", "value": "book now"},
			"target": map[string]any{"pipeline_id": "10", "status_id": "120"},
		},
	}
}

func senderCard(id int64, handle string) domain.Card {
	return domain.Card{
		ID:         id,
		PipelineID: "10",
		StatusID:   "100",
		Contact:    &domain.Client{SocialID: handle},
	}
}

func newTestRouter(dir *fakeDirectory, store *fakeCampaignStore, counters *fakeCounterStore, audit *fakeAuditLog) *Router {
	opts := RouterOptions{
		Campaigns: store,
		Directory: dir,
		Pipelines: &fakePipelineDirectory{},
		Logger:    testutil.NewTestLogger(),
	}
	// assign only when non-nil so a nil *fake doesn't become a non-nil interface
	if counters != nil {
		opts.Counters = counters
	}
	if audit != nil {
		opts.Audit = audit
	}
	return NewRouter(opts)
}

func TestRouteBranch1Move(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(senderCard(1, "@user.name"))

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{routeCampaignRecord("c1")}}
	counters := newFakeCounterStore()
	audit := &fakeAuditLog{}

	router := newTestRouter(dir, store, counters, audit)
	report, err := router.RouteMessage(context.Background(), domain.InboundMessage{
		Handle: "https://example.com/user.name/",
		Text:   "need a consult, book now please",
	}, SearchOptions{})
	testutil.AssertNoError(t, err, "route")

	testutil.AssertEqual(t, len(report.Outcomes), 1, "outcomes")
	outcome := report.Outcomes[0]

	testutil.AssertEqual(t, outcome.Branch, domain.RouteBranch1, "branch")
	testutil.AssertEqual(t, outcome.CardID, int64(1), "card")
	testutil.AssertNotNil(t, outcome.Move, "move result")
	testutil.AssertTrue(t, outcome.Move.OK, "move ok")

	testutil.AssertEqual(t, len(dir.moveCalls), 1, "move calls")
	testutil.AssertEqual(t, dir.moveCalls[0].ToStatusID, "110", "branch1 target")
	testutil.AssertEqual(t, counters.count("c1", domain.CounterBranch1), 1, "branch1 counter")
	testutil.AssertEqual(t, report.Moved(), 1, "report moved")

	testutil.AssertEqual(t, len(audit.entries), 1, "audit entries")
	testutil.AssertEqual(t, audit.entries[0].Kind, "route", "audit kind")
}

func TestRouteBranch2ExactMatch(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(senderCard(2, "@user.name"))

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{routeCampaignRecord("c1")}}
	counters := newFakeCounterStore()

	router := newTestRouter(dir, store, counters, nil)
	report, err := router.RouteMessage(context.Background(), domain.InboundMessage{
		Handle: "user.name",
		Text:   "  Book Now  ",
	}, SearchOptions{})
	testutil.AssertNoError(t, err, "route")

	outcome := report.Outcomes[0]
	testutil.AssertEqual(t, outcome.Branch, domain.RouteBranch2, "branch")
	testutil.AssertEqual(t, dir.moveCalls[0].ToStatusID, "120", "branch2 target")
	testutil.AssertEqual(t, counters.count("c1", domain.CounterBranch2), 1, "branch2 counter")
}

func TestRouteNoRuleMatch(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(senderCard(3, "@user.name"))

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{routeCampaignRecord("c1")}}
	router := newTestRouter(dir, store, nil, nil)

	report, err := router.RouteMessage(context.Background(), domain.InboundMessage{
		Handle: "user.name",
		Text:   "just saying hi",
	}, SearchOptions{})
	testutil.AssertNoError(t, err, "route")

	outcome := report.Outcomes[0]
	testutil.AssertEqual(t, outcome.Branch, domain.RouteNone, "branch")
	testutil.AssertEqual(t, len(dir.moveCalls), 0, "no search or move on no match")
	testutil.AssertEqual(t, dir.listCalls, 0, "no directory scan without a match")
}

func TestRouteSenderNotFound(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(senderCard(4, "@someone.else"))

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{routeCampaignRecord("c1")}}
	router := newTestRouter(dir, store, nil, nil)

	report, err := router.RouteMessage(context.Background(), domain.InboundMessage{
		Handle: "user.name",
		Text:   "need a consult",
	}, SearchOptions{})
	testutil.AssertNoError(t, err, "route")

	outcome := report.Outcomes[0]
	testutil.AssertEqual(t, outcome.Branch, domain.RouteBranch1, "rule still matched")
	testutil.AssertContains(t, outcome.Error, "no card matched", "error")
	testutil.AssertNil(t, outcome.Move, "no move")
}

func TestRouteFallsBackToFullName(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(domain.Card{
		ID: 5, PipelineID: "10", StatusID: "100",
		Contact: &domain.Client{FullName: "Jane Doe"},
	})

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{routeCampaignRecord("c1")}}
	router := newTestRouter(dir, store, nil, nil)

	report, err := router.RouteMessage(context.Background(), domain.InboundMessage{
		Handle:   "unknown.handle",
		FullName: "Jane Doe",
		Text:     "need a consult",
	}, SearchOptions{})
	testutil.AssertNoError(t, err, "route")

	testutil.AssertEqual(t, report.Outcomes[0].CardID, int64(5), "matched by name")
}

func TestRouteSkippedCampaigns(t *testing.T) {
	dir := newFakeDirectory()

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{
		{"id": "gone", "deleted": true},
		{"id": "no-base", "branch1": "consult"},
		routeCampaignRecord("live"),
	}}
	router := newTestRouter(dir, store, nil, nil)

	report, err := router.RouteMessage(context.Background(), domain.InboundMessage{
		Handle: "user.name",
		Text:   "need a consult",
	}, SearchOptions{})
	testutil.AssertNoError(t, err, "route")

	testutil.AssertEqual(t, len(report.Outcomes), 3, "every campaign reported")
	testutil.AssertEqual(t, report.Outcomes[0].Skipped, domain.SkipDeleted, "deleted skip")
	testutil.AssertEqual(t, report.Outcomes[1].Skipped, domain.SkipMissingBasePipeline, "structural skip")
	testutil.AssertEqual(t, report.Outcomes[2].Skipped, domain.SkipNone, "live campaign processed")
}

func TestRouteSearchFailureIsolatedPerCampaign(t *testing.T) {
	dir := newFakeDirectory()
	dir.listErr = &domain.SearchError{Kind: domain.SearchRateLimited, StatusCode: 429}
	dir.listErrOn = 1
	dir.add(senderCard(6, "@user.name"))

	store := &fakeCampaignStore{campaigns: []domain.RawCampaign{
		routeCampaignRecord("c1"),
		routeCampaignRecord("c2"),
	}}
	router := newTestRouter(dir, store, nil, nil)

	report, err := router.RouteMessage(context.Background(), domain.InboundMessage{
		Handle: "user.name",
		Text:   "need a consult",
	}, SearchOptions{})
	testutil.AssertNoError(t, err, "route")

	testutil.AssertContains(t, report.Outcomes[0].Error, "rate limited", "first campaign surfaced the failure")
	testutil.AssertEqual(t, report.Outcomes[1].CardID, int64(6), "second campaign routed")
}

func TestRouteEmptyText(t *testing.T) {
	router := newTestRouter(newFakeDirectory(), &fakeCampaignStore{}, nil, nil)
	_, err := router.RouteMessage(context.Background(), domain.InboundMessage{Handle: "x"}, SearchOptions{})
	if !errors.Is(err, domain.ErrEmptyMessageText) {
		t.Fatalf("got %v, want ErrEmptyMessageText", err)
	}
}

func TestRouteListCampaignsFailure(t *testing.T) {
	store := &fakeCampaignStore{err: errors.New("store down")}
	router := newTestRouter(newFakeDirectory(), store, nil, nil)

	_, err := router.RouteMessage(context.Background(), domain.InboundMessage{Text: "hi"}, SearchOptions{})
	testutil.AssertError(t, err, "route")
	testutil.AssertContains(t, err.Error(), "failed to list campaigns", "wrapped message")
}
