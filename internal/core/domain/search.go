package domain

import (
	"fmt"
	"time"
)

// SearchErrorKind classifies a failed directory request.
type SearchErrorKind string

const (
	SearchRateLimited   SearchErrorKind = "rate_limited"
	SearchRequestFailed SearchErrorKind = "request_failed"
	SearchNetworkError  SearchErrorKind = "network_error"
)

// SearchError is a classified directory failure. It is always returned as a
// value; nothing inside the search boundary panics or loses the raw
// response.
type SearchError struct {
	Kind       SearchErrorKind
	StatusCode int
	RetryAfter time.Duration
	Body       string
	Err        error
}

func (e *SearchError) Error() string {
	switch e.Kind {
	case SearchRateLimited:
		return fmt.Sprintf("directory rate limited (retry after %s)", e.RetryAfter)
	case SearchRequestFailed:
		return fmt.Sprintf("directory request failed: HTTP %d", e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("directory network error: %v", e.Err)
		}
		return "directory network error"
	}
}

func (e *SearchError) Unwrap() error { return e.Err }

// CardMatch is one card that satisfied the search needle, with the candidate
// that matched.
type CardMatch struct {
	Card  Card   `json:"card"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

// SearchReport is the outcome of one identity search run.
//
// Match is the item with the numerically highest card id among all matches
// found in the run — the "most recent" heuristic. It assumes card ids grow
// in creation order across the directory, which is unverified against real
// id semantics; flagged for product confirmation, kept as documented
// behavior.
type SearchReport struct {
	PagesScanned int         `json:"pages_scanned"`
	CardsChecked int         `json:"cards_checked"`
	Match        *CardMatch  `json:"match,omitempty"`
	Items        []CardMatch `json:"items"`
}
