// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"leadrouter/internal/core/domain"
)

// WriteSweepSummary exports a sweep run summary as an indented JSON file
// under dir and returns the written path.
func WriteSweepSummary(dir string, summary *domain.SweepSummary) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := summary.StartTime.Format("20060102_150405")
	filename := fmt.Sprintf("sweep_%s_%s.json", timestamp, summary.RunID)
	path := filepath.Join(dir, filename)

	if err := writeJSON(path, summary); err != nil {
		return "", err
	}
	return path, nil
}

// WriteRouteReport exports a routing report as an indented JSON file under
// dir and returns the written path.
func WriteRouteReport(dir string, report *domain.RouteReport) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := report.StartTime.Format("20060102_150405")
	filename := fmt.Sprintf("route_%s.json", timestamp)
	path := filepath.Join(dir, filename)

	if err := writeJSON(path, report); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSONStdout prints any report to stdout.
func WriteJSONStdout(v any, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
