// internal/adapters/store/legacy.go
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/platform/errors"
	"leadrouter/internal/platform/logx"
)

// LegacyStore reads and updates the pre-migration campaign files: one YAML
// document per campaign, named campaign-<id>.yaml, with counters nested under
// a "counters" key. It exists purely for backward compatibility and can go
// once no campaign predates the sqlite store.
type LegacyStore struct {
	dir    string
	logger logx.Logger

	// file writes are read-modify-write; serialize them
	mu sync.Mutex
}

// NewLegacyStore creates a legacy store over a directory. The directory not
// existing is fine: the store just lists nothing.
func NewLegacyStore(dir string, logger logx.Logger) *LegacyStore {
	if logger == nil {
		logger = logx.New()
	}
	return &LegacyStore{
		dir:    dir,
		logger: logger.With("component", "legacy_store"),
	}
}

// ListCampaigns reads every campaign file in the directory. Unparseable
// files are logged and skipped.
func (s *LegacyStore) ListCampaigns(ctx context.Context) ([]domain.RawCampaign, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read legacy campaign directory")
	}

	var out []domain.RawCampaign
	for _, entry := range entries {
		if entry.IsDir() || !isCampaignFile(entry.Name()) {
			continue
		}

		raw, err := s.readFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn("skipping unparseable legacy campaign file",
				"file", entry.Name(),
				"error", err.Error(),
			)
			continue
		}
		out = append(out, raw)
	}

	return out, nil
}

// Increment bumps one counter inside a legacy campaign file. Returns
// ErrNotFound when no file exists for the campaign.
func (s *LegacyStore) Increment(ctx context.Context, campaignID string, counter domain.CounterName) error {
	if counter == "" {
		return domain.ErrUnknownCounter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.campaignPath(campaignID)

	raw, err := s.readFile(path)
	if os.IsNotExist(err) {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read legacy campaign %s", campaignID)
	}

	bumpCounter(raw, counter)

	data, err := yaml.Marshal(raw)
	if err != nil {
		return errors.Wrapf(err, "failed to encode legacy campaign %s", campaignID)
	}

	// atomic replace so a crash mid-write never corrupts the record
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write legacy campaign %s", campaignID)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to replace legacy campaign %s", campaignID)
	}

	return nil
}

// PutCampaign writes one legacy campaign file, mostly for tests and
// migration tooling.
func (s *LegacyStore) PutCampaign(ctx context.Context, campaignID string, raw domain.RawCampaign) error {
	if campaignID == "" {
		return errors.Wrap(errors.ErrInvalidInput, "campaign id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create legacy campaign directory")
	}

	data, err := yaml.Marshal(map[string]any(raw))
	if err != nil {
		return errors.Wrapf(err, "failed to encode legacy campaign %s", campaignID)
	}

	return os.WriteFile(s.campaignPath(campaignID), data, 0o644)
}

func (s *LegacyStore) campaignPath(campaignID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("campaign-%s.yaml", campaignID))
}

func (s *LegacyStore) readFile(path string) (domain.RawCampaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return domain.RawCampaign(raw), nil
}

func isCampaignFile(name string) bool {
	if !strings.HasPrefix(name, "campaign-") {
		return false
	}
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
