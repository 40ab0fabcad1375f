package domain

// SkippedAlreadyInTarget marks a move short-circuited by the idempotency
// check: the card was already at the requested stage.
const SkippedAlreadyInTarget = "already_in_target"

// MoveResult is the structured outcome of one move attempt. A skipped move
// is a success that never reached the wire; a failed move retains the raw
// response for diagnostics.
type MoveResult struct {
	Attempted     bool   `json:"attempted"`
	OK            bool   `json:"ok"`
	SkippedReason string `json:"skipped_reason,omitempty"`
	StatusCode    int    `json:"status_code,omitempty"`
	Body          string `json:"body,omitempty"`
	Err           error  `json:"-"`
}
