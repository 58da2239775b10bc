package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// StatusLog is a human-readable per-reply outcome log. It is never
// parsed back by the system; writes are best-effort.
type StatusLog struct {
	path string
	now  func() time.Time
}

// NewStatusLog creates a status log backed by the given file path.
func NewStatusLog(path string) *StatusLog {
	return &StatusLog{path: path, now: time.Now}
}

// Record appends one outcome line with timestamp, recipient, and
// detail. Failures are logged, never propagated.
func (l *StatusLog) Record(status, email, detail string) {
	line := fmt.Sprintf("[%s] %s | Customer: %s | %s\n",
		l.now().Format("2006-01-02 15:04:05"), status, email, detail)

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		slog.Warn("creating status log directory", "err", err)
		return
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("opening status log", "path", l.path, "err", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		slog.Warn("writing status log", "path", l.path, "err", err)
	}
}
