// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/ports"
)

// fakeDirectory is an in-memory card directory. Cards are held per
// pipeline/status bucket and moves mutate the buckets, so re-running a sweep
// against the same fake observes its own effects.
type fakeDirectory struct {
	mu    sync.Mutex
	cards map[string][]domain.Card // key: pipelineID|statusID

	perPageOverride int // optional fixed page size

	listErr    error
	listErrOn  int // fail the Nth ListCards call (1-based), 0 = always when listErr set
	listCalls  int
	moveCalls  []ports.MoveRequest
	moveFail   bool
	getCards   map[int64]domain.Card // detail records for GetCard
	getCalls   int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		cards:    make(map[string][]domain.Card),
		getCards: make(map[int64]domain.Card),
	}
}

func bucketKey(pipelineID, statusID string) string {
	return pipelineID + "|" + statusID
}

func (f *fakeDirectory) add(card domain.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := bucketKey(card.PipelineID, card.StatusID)
	f.cards[key] = append(f.cards[key], card)
}

func (f *fakeDirectory) ListCards(ctx context.Context, q ports.CardQuery) (*ports.CardPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil && (f.listErrOn == 0 || f.listCalls == f.listErrOn) {
		return nil, f.listErr
	}

	perPage := q.PerPage
	if f.perPageOverride > 0 {
		perPage = f.perPageOverride
	}

	bucket := f.cards[bucketKey(q.PipelineID, q.StatusID)]
	start := (q.Page - 1) * perPage
	if start >= len(bucket) {
		return &ports.CardPage{}, nil
	}
	end := start + perPage
	if end > len(bucket) {
		end = len(bucket)
	}

	page := &ports.CardPage{
		Cards:   append([]domain.Card(nil), bucket[start:end]...),
		HasNext: end < len(bucket),
	}
	return page, nil
}

func (f *fakeDirectory) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++
	if card, ok := f.getCards[id]; ok {
		return &card, nil
	}
	for _, bucket := range f.cards {
		for _, card := range bucket {
			if card.ID == id {
				c := card
				return &c, nil
			}
		}
	}
	return nil, &domain.SearchError{Kind: domain.SearchRequestFailed, StatusCode: 404}
}

func (f *fakeDirectory) MoveCard(ctx context.Context, req ports.MoveRequest) (*ports.MoveResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.moveCalls = append(f.moveCalls, req)
	if f.moveFail {
		return &ports.MoveResponse{OK: false, StatusCode: 422, Body: `{"error":"rejected"}`}, nil
	}

	// relocate the card between buckets
	for key, bucket := range f.cards {
		for i, card := range bucket {
			if card.ID == req.CardID {
				f.cards[key] = append(bucket[:i:i], bucket[i+1:]...)
				card.PipelineID = req.ToPipelineID
				card.StatusID = req.ToStatusID
				dest := bucketKey(card.PipelineID, card.StatusID)
				f.cards[dest] = append(f.cards[dest], card)
				return &ports.MoveResponse{OK: true, StatusCode: 200}, nil
			}
		}
	}
	return &ports.MoveResponse{OK: true, StatusCode: 200}, nil
}

// fakeCampaignStore serves a fixed list of raw records.
type fakeCampaignStore struct {
	campaigns []domain.RawCampaign
	err       error
}

func (f *fakeCampaignStore) ListCampaigns(ctx context.Context) ([]domain.RawCampaign, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.campaigns, nil
}

// fakeCounterStore records increments.
type fakeCounterStore struct {
	mu         sync.Mutex
	increments map[string]int
	err        error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{increments: make(map[string]int)}
}

func (f *fakeCounterStore) Increment(ctx context.Context, campaignID string, counter domain.CounterName) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.increments[campaignID+"/"+string(counter)]++
	return nil
}

func (f *fakeCounterStore) count(campaignID string, counter domain.CounterName) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.increments[campaignID+"/"+string(counter)]
}

// fakeAuditLog records appended entries.
type fakeAuditLog struct {
	mu      sync.Mutex
	entries []ports.AuditEntry
	err     error
}

func (f *fakeAuditLog) Append(ctx context.Context, entry ports.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

// fakePipelineDirectory serves a fixed directory.
type fakePipelineDirectory struct {
	pipelines []domain.Pipeline
	err       error
}

func (f *fakePipelineDirectory) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pipelines, nil
}
