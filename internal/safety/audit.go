// Package safety provides the guard rails wrapped around tool handlers: an
// append-only audit trail, glob allow/deny filters for Discord IDs, and
// single-use confirmation tokens for destructive tools.
package safety

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// AuditEntry is one tool invocation as written to the audit log.
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Tool      string         `json:"tool"`
	Params    map[string]any `json:"params"`
	Result    string         `json:"result"`
	Duration  time.Duration  `json:"-"`
}

type auditLine struct {
	AuditEntry
	DurationMS float64 `json:"duration_ms"`
}

// AuditLogger writes AuditEntry values as JSON lines. It is safe for
// concurrent use; a nil *AuditLogger discards every entry.
type AuditLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewAuditLogger returns an AuditLogger writing to w, or nil when w is nil.
func NewAuditLogger(w io.Writer) *AuditLogger {
	if w == nil {
		return nil
	}
	return &AuditLogger{w: w}
}

// Log appends entry as a single JSON line.
func (a *AuditLogger) Log(entry AuditEntry) error {
	if a == nil {
		return nil
	}
	data, err := json.Marshal(auditLine{
		AuditEntry: entry,
		DurationMS: float64(entry.Duration) / float64(time.Millisecond),
	})
	if err != nil {
		return fmt.Errorf("safety: marshal audit entry: %w", err)
	}
	data = append(data, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.w.Write(data); err != nil {
		return fmt.Errorf("safety: write audit entry: %w", err)
	}
	return nil
}
