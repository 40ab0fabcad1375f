// internal/core/usecases/identity_search.go
package usecases

import (
	"context"
	"strings"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/ports"
	"leadrouter/internal/platform/logx"
)

// Search tuning defaults and bounds.
const (
	defaultPerPage  = 50
	maxPerPage      = 100
	defaultMaxPages = 20
	maxMaxPages     = 100
)

// SearchOptions tunes one identity search run. Zero values fall back to
// defaults; out-of-range values are clamped.
type SearchOptions struct {
	PipelineID string
	StatusID   string
	PerPage    int
	MaxPages   int
}

func (o SearchOptions) normalized() SearchOptions {
	o.PerPage = clampInt(o.PerPage, 1, maxPerPage, defaultPerPage)
	o.MaxPages = clampInt(o.MaxPages, 1, maxMaxPages, defaultMaxPages)
	return o
}

// SearchEngine finds the card belonging to an inbound identity by scanning
// the card directory page by page.
type SearchEngine struct {
	directory ports.CardDirectory
	logger    logx.Logger
}

// NewSearchEngine creates a search engine.
func NewSearchEngine(directory ports.CardDirectory, logger logx.Logger) *SearchEngine {
	if logger == nil {
		logger = logx.New()
	}
	return &SearchEngine{
		directory: directory,
		logger:    logger.With("component", "search"),
	}
}

// Search scans the directory for cards whose contact graph matches the
// needle. Matching uses exact equality on either the plain normalization
// (trimmed lowercase) or the social one (handle stripped of URL decoration).
//
// The scan does not stop on the first hit: stale duplicate entries mean more
// than one card can satisfy the needle, so every page within the caps is
// checked and the match with the numerically highest card id is selected as
// most recent. Directory failures come back as a *domain.SearchError value.
func (e *SearchEngine) Search(ctx context.Context, needle string, opts SearchOptions) (*domain.SearchReport, error) {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return nil, domain.ErrEmptyNeedle
	}

	opts = opts.normalized()

	plain := domain.NormalizeIdentity(needle)
	social := domain.NormalizeSocialIdentity(needle)

	e.logger.Debug("starting identity search",
		"needle", needle,
		"pipeline", opts.PipelineID,
		"status", opts.StatusID,
		"per_page", opts.PerPage,
		"max_pages", opts.MaxPages,
	)

	report := &domain.SearchReport{}

	for page := 1; page <= opts.MaxPages; page++ {
		cardPage, err := e.directory.ListCards(ctx, ports.CardQuery{
			PipelineID: opts.PipelineID,
			StatusID:   opts.StatusID,
			Page:       page,
			PerPage:    opts.PerPage,
		})
		if err != nil {
			return nil, err
		}

		report.PagesScanned++

		for _, card := range cardPage.Cards {
			report.CardsChecked++

			match := matchCard(card, plain, social)
			if match == nil && len(card.IdentityCandidates()) == 0 {
				// no inline contact data at all: fetch the detail record once
				detail, derr := e.directory.GetCard(ctx, card.ID)
				if derr != nil {
					e.logger.Warn("card detail fetch failed",
						"card_id", card.ID,
						"error", derr.Error(),
					)
					continue
				}
				if detail != nil {
					match = matchCard(*detail, plain, social)
				}
			}

			if match != nil {
				report.Items = append(report.Items, *match)
			}
		}

		if !cardPage.HasNext {
			break
		}
	}

	for i := range report.Items {
		if report.Match == nil || report.Items[i].Card.ID > report.Match.Card.ID {
			report.Match = &report.Items[i]
		}
	}

	e.logger.Debug("identity search finished",
		"pages", report.PagesScanned,
		"cards", report.CardsChecked,
		"matches", len(report.Items),
	)

	return report, nil
}

// matchCard returns the first candidate on the card equal to the needle under
// either normalization, or nil.
func matchCard(card domain.Card, plain, social string) *domain.CardMatch {
	for _, cand := range card.IdentityCandidates() {
		if plain != "" && domain.NormalizeIdentity(cand.Value) == plain {
			return &domain.CardMatch{Card: card, Path: cand.Path, Value: cand.Value}
		}
		if social != "" && domain.NormalizeSocialIdentity(cand.Value) == social {
			return &domain.CardMatch{Card: card, Path: cand.Path, Value: cand.Value}
		}
	}
	return nil
}

// clampInt bounds v to [lo, hi], substituting def when v is unset.
func clampInt(v, lo, hi, def int) int {
	if v <= 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
