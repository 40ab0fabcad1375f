// internal/platform/ui/presenter.go
package ui

import (
	"time"
)

// Presenter defines the interface for presenting the progress of a
// sweep or routing run in the terminal.
type Presenter interface {
	// Start begins the presentation with run information
	Start(info RunInfo)

	// StartCampaign announces that a campaign is being processed
	StartCampaign(name string)

	// CampaignDone reports the per-campaign result
	CampaignDone(result CampaignResult)

	// CampaignSkipped reports a campaign that was skipped with its reasons
	CampaignSkipped(name string, reasons []string)

	// Info shows an informational message
	Info(msg string)

	// Warning shows a warning
	Warning(msg string)

	// Error shows an error
	Error(msg string)

	// Finish ends the presentation with final statistics
	Finish(stats RunStats)

	// Close releases presenter resources
	Close() error
}

// RunInfo holds the initial information for a run.
type RunInfo struct {
	Command    string
	BaseURL    string
	Campaigns  int
	PerPage    int
	MaxPages   int
	MoveBudget int
}

// CampaignResult holds the outcome for a single campaign.
type CampaignResult struct {
	Name      string
	Pages     int
	Cards     int
	Stale     int
	Moved     int
	Errors    int
	Truncated bool // page or move budget stopped the scan early
	Duration  time.Duration
}

// RunStats holds final statistics of a run.
type RunStats struct {
	Duration    time.Duration
	Campaigns   int
	Skipped     int
	TotalMoved  int
	TotalErrors int
}
