// internal/adapters/store/audit.go
package store

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"leadrouter/internal/core/ports"
	"leadrouter/internal/platform/errors"
	"leadrouter/internal/platform/logx"
)

// FileAuditLog appends audit entries as JSON lines. Callers treat appends as
// best effort; this type only has to make a successful append durable.
type FileAuditLog struct {
	path   string
	logger logx.Logger
	mu     sync.Mutex
}

// NewFileAuditLog creates an audit log at path. The file is created on first
// append.
func NewFileAuditLog(path string, logger logx.Logger) *FileAuditLog {
	if logger == nil {
		logger = logx.New()
	}
	return &FileAuditLog{
		path:   path,
		logger: logger.With("component", "audit"),
	}
}

// Append writes one entry as a JSON line.
func (l *FileAuditLog) Append(ctx context.Context, entry ports.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "failed to encode audit entry")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to open audit log")
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "failed to append audit entry")
	}
	return nil
}
