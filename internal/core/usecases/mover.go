// internal/core/usecases/mover.go
package usecases

import (
	"context"
	"fmt"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/ports"
	"leadrouter/internal/platform/logx"
)

// MoveExecutor relocates a card to a resolved target, with an idempotency
// check in front of the wire call.
type MoveExecutor struct {
	directory ports.CardDirectory
	logger    logx.Logger
}

// NewMoveExecutor creates a move executor.
func NewMoveExecutor(directory ports.CardDirectory, logger logx.Logger) *MoveExecutor {
	if logger == nil {
		logger = logx.New()
	}
	return &MoveExecutor{
		directory: directory,
		logger:    logger.With("component", "mover"),
	}
}

// Move relocates the card to the target. When the card already sits at the
// target pipeline — and at the target status, if the target requires one —
// the move endpoint is never called and the result reports a skipped success.
func (m *MoveExecutor) Move(ctx context.Context, card domain.Card, target domain.TargetRef) domain.MoveResult {
	if target.PipelineID == "" && target.StatusID == "" {
		return domain.MoveResult{Err: domain.ErrEmptyTarget}
	}

	if target.PipelineID != "" && card.PipelineID == target.PipelineID {
		if target.StatusID == "" || card.StatusID == target.StatusID {
			m.logger.Debug("move skipped, card already in target",
				"card_id", card.ID,
				"pipeline", card.PipelineID,
				"status", card.StatusID,
			)
			return domain.MoveResult{
				Attempted:     false,
				OK:            true,
				SkippedReason: domain.SkippedAlreadyInTarget,
			}
		}
	}

	resp, err := m.directory.MoveCard(ctx, ports.MoveRequest{
		CardID:       card.ID,
		ToPipelineID: target.PipelineID,
		ToStatusID:   target.StatusID,
	})
	if err != nil {
		m.logger.Warn("move call failed",
			"card_id", card.ID,
			"error", err.Error(),
		)
		return domain.MoveResult{Attempted: true, OK: false, Err: err}
	}

	result := domain.MoveResult{
		Attempted:  true,
		OK:         resp.OK,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
	if !resp.OK {
		m.logger.Warn("move rejected by directory",
			"card_id", card.ID,
			"status_code", resp.StatusCode,
		)
	} else {
		m.logger.Info("card moved",
			"card_id", card.ID,
			"to_pipeline", target.PipelineID,
			"to_status", target.StatusID,
		)
	}
	return result
}

// moveFailureMessage renders a move result as a one-line diagnostic.
func moveFailureMessage(res domain.MoveResult) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	if res.StatusCode != 0 {
		return fmt.Sprintf("move rejected: HTTP %d", res.StatusCode)
	}
	return "move rejected by directory"
}
