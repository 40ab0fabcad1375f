// internal/platform/ui/noop_presenter.go
package ui

// NoopPresenter is an empty Presenter implementation that produces no
// output. Useful for quiet or headless runs.
type NoopPresenter struct{}

// NewNoopPresenter creates a presenter with no output.
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

// Start does nothing
func (n *NoopPresenter) Start(info RunInfo) {}

// StartCampaign does nothing
func (n *NoopPresenter) StartCampaign(name string) {}

// CampaignDone does nothing
func (n *NoopPresenter) CampaignDone(result CampaignResult) {}

// CampaignSkipped does nothing
func (n *NoopPresenter) CampaignSkipped(name string, reasons []string) {}

// Info does nothing
func (n *NoopPresenter) Info(msg string) {}

// Warning does nothing
func (n *NoopPresenter) Warning(msg string) {}

// Error does nothing
func (n *NoopPresenter) Error(msg string) {}

// Finish does nothing
func (n *NoopPresenter) Finish(stats RunStats) {}

// Close does nothing
func (n *NoopPresenter) Close() error {
	return nil
}
