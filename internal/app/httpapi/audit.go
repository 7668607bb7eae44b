package httpapi

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurawell/aura/pkg/logger"
)

// AuditEntry is one recorded state-changing request.
type AuditEntry struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
	Remote string    `json:"remote,omitempty"`
}

// AuditLog keeps a bounded in-memory trail of mutations and optionally
// appends each entry as a JSON line to a file.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	limit   int
	file    *os.File
	log     *logger.Logger
}

// NewAuditLog creates a trail keeping at most limit entries in memory. path
// may be empty to skip the file sink.
func NewAuditLog(limit int, path string, log *logger.Logger) (*AuditLog, error) {
	if limit <= 0 {
		limit = 1000
	}
	if log == nil {
		log = logger.NewDefault("audit")
	}

	a := &AuditLog{limit: limit, log: log}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, err
		}
		a.file = f
	}
	return a, nil
}

// Record appends an entry for the given request.
func (a *AuditLog) Record(r *http.Request, action, detail string) {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}

	entry := AuditEntry{
		ID:     uuid.NewString(),
		Time:   time.Now().UTC(),
		Action: action,
		Detail: detail,
		Remote: remote,
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, entry)
	if len(a.entries) > a.limit {
		a.entries = a.entries[len(a.entries)-a.limit:]
	}

	if a.file != nil {
		line, err := json.Marshal(entry)
		if err == nil {
			line = append(line, '\n')
			_, err = a.file.Write(line)
		}
		if err != nil {
			a.log.WithError(err).Warn("audit file write failed")
		}
	}
}

// Entries returns a copy of the in-memory trail, oldest first.
func (a *AuditLog) Entries() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AuditEntry(nil), a.entries...)
}

// Close releases the file sink if one is open.
func (a *AuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}
