// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// PTermPresenter implements Presenter using the pterm library for
// spinners, colors and boxes in the terminal.
type PTermPresenter struct {
	mu sync.Mutex

	runInfo   RunInfo
	startTime time.Time

	// Active spinner for the campaign currently being processed
	spinner *pterm.SpinnerPrinter
}

// NewPTermPresenter creates a new pterm-backed presenter.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start begins the presentation showing the run header.
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runInfo = info
	p.startTime = time.Now()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("LeadRouter - Campaign Engine")

	pterm.Println()

	infoPanel := pterm.DefaultBox.
		WithTitle("Run Configuration").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	content := fmt.Sprintf("Command: %s\n", pterm.Cyan(info.Command))
	if info.BaseURL != "" {
		content += fmt.Sprintf("CRM: %s\n", pterm.Yellow(info.BaseURL))
	}
	content += fmt.Sprintf("Campaigns: %d\n", info.Campaigns)
	content += fmt.Sprintf("Per Page: %d\n", info.PerPage)
	content += fmt.Sprintf("Max Pages: %d\n", info.MaxPages)
	content += fmt.Sprintf("Move Budget: %d", info.MoveBudget)

	infoPanel.Println(content)
	pterm.Println()
}

// StartCampaign announces that a campaign is being processed.
func (p *PTermPresenter) StartCampaign(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()

	spinner, _ := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		Start(fmt.Sprintf("  Processing %s...", pterm.Cyan(name)))

	p.spinner = spinner
}

// CampaignDone reports the per-campaign result.
func (p *PTermPresenter) CampaignDone(result CampaignResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()

	line := fmt.Sprintf("  %s %s (%s)",
		pterm.Green("✔"),
		pterm.Cyan(result.Name),
		p.formatDuration(result.Duration),
	)
	line += fmt.Sprintf(" pages=%d cards=%d stale=%d moved=%s",
		result.Pages,
		result.Cards,
		result.Stale,
		pterm.Green(fmt.Sprintf("%d", result.Moved)),
	)
	if result.Errors > 0 {
		line += fmt.Sprintf(" errors=%s", pterm.Red(fmt.Sprintf("%d", result.Errors)))
	}
	if result.Truncated {
		line += pterm.Gray(" (truncated)")
	}

	pterm.Println(line)
}

// CampaignSkipped reports a campaign that was skipped with its reasons.
func (p *PTermPresenter) CampaignSkipped(name string, reasons []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()

	pterm.Println(fmt.Sprintf("  %s %s skipped: %s",
		pterm.Yellow("∅"),
		pterm.Gray(name),
		pterm.Yellow(strings.Join(reasons, ", ")),
	))
}

// Info shows an informational message.
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Info.Println(msg)
}

// Warning shows a warning.
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Warning.Println(msg)
}

// Error shows an error.
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Error.Println(msg)
}

// Finish ends the presentation with final statistics.
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()

	pterm.Println()

	headerStyle := pterm.BgGreen
	if stats.TotalErrors > 0 {
		headerStyle = pterm.BgYellow
	}

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(headerStyle)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("Run Completed")

	pterm.Println()

	statsPanel := pterm.DefaultBox.
		WithTitle("Run Statistics").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen))

	content := fmt.Sprintf("Duration: %s\n", pterm.Green(p.formatDuration(stats.Duration)))
	content += fmt.Sprintf("Campaigns Processed: %d\n", stats.Campaigns)
	content += fmt.Sprintf("Campaigns Skipped: %d\n", stats.Skipped)
	content += fmt.Sprintf("Cards Moved: %s", pterm.Cyan(fmt.Sprintf("%d", stats.TotalMoved)))

	if stats.TotalErrors > 0 {
		content += fmt.Sprintf("\nErrors: %s", pterm.Red(fmt.Sprintf("%d", stats.TotalErrors)))
	}

	statsPanel.Println(content)
	pterm.Println()
}

// Close releases presenter resources.
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
	return nil
}

// stopSpinner stops the active spinner. Must be called with p.mu held.
func (p *PTermPresenter) stopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}

// formatDuration formats a duration in a readable way.
func (p *PTermPresenter) formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
