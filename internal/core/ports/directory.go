package ports

import (
	"context"

	"leadrouter/internal/core/domain"
)

// CardQuery filters one page of the card directory listing.
type CardQuery struct {
	PipelineID string
	StatusID   string
	Page       int
	PerPage    int
}

// CardPage is one page of directory results. HasNext reflects whatever
// pagination signal the directory exposed (next link, page counters, or the
// page-size-equals-returned-count heuristic).
type CardPage struct {
	Cards   []domain.Card
	HasNext bool
}

// MoveRequest asks the directory to relocate a card. ToStatusID may be empty
// when the target carries no status requirement.
type MoveRequest struct {
	CardID       int64
	ToPipelineID string
	ToStatusID   string
}

// MoveResponse is the directory's answer to a move, raw enough for
// diagnostics.
type MoveResponse struct {
	OK         bool
	StatusCode int
	Body       string
}

// CardDirectory is the external card directory API. Implementations return
// classified errors (domain.SearchError) for failed requests; a non-2xx move
// response is not an error, it is an unsuccessful MoveResponse.
type CardDirectory interface {
	// ListCards fetches one page of cards filtered by pipeline/status.
	ListCards(ctx context.Context, q CardQuery) (*CardPage, error)

	// GetCard fetches the full detail record of a single card.
	GetCard(ctx context.Context, id int64) (*domain.Card, error)

	// MoveCard relocates a card to a new pipeline/status.
	MoveCard(ctx context.Context, req MoveRequest) (*MoveResponse, error)
}

// PipelineDirectory serves the pipeline/status directory consumed by the
// target resolver.
type PipelineDirectory interface {
	ListPipelines(ctx context.Context) ([]domain.Pipeline, error)
}
