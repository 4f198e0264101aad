package audit

import (
	"context"
	"sync"
	"time"
)

// EventRedirect is the event name stamped on every redirect audit record.
const EventRedirect = "affiliate_redirect"

// Record is one structured audit line for a handled redirect.
type Record struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Event        string    `json:"event"`
	Brand        string    `json:"brand"`
	Slug         string    `json:"slug"`
	FinalURL     string    `json:"final_url"`
	ClientOrigin string    `json:"client_origin"`
	Geo          string    `json:"geo,omitempty"`
	DeviceType   string    `json:"device_type,omitempty"`
	Bot          bool      `json:"bot,omitempty"`
}

// Service records redirect audit events. Implementations must not block the
// caller beyond queueing.
type Service interface {
	RecordRedirect(ctx context.Context, rec Record) error
}

// FileAuditor implements Service on top of a JSONL Writer.
type FileAuditor struct {
	w *Writer
}

// NewFileAuditor wraps an existing Writer as an audit Service.
func NewFileAuditor(w *Writer) *FileAuditor {
	return &FileAuditor{w: w}
}

// RecordRedirect stamps the event name and queues the record.
func (a *FileAuditor) RecordRedirect(ctx context.Context, rec Record) error {
	rec.Event = EventRedirect
	return a.w.Enqueue(rec)
}

// Mock is an in-memory Service for tests.
type Mock struct {
	mu      sync.Mutex
	records []Record
}

// NewMock creates an empty Mock.
func NewMock() *Mock {
	return &Mock{}
}

// RecordRedirect stores the record in memory.
func (m *Mock) RecordRedirect(ctx context.Context, rec Record) error {
	rec.Event = EventRedirect
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Records returns a copy of everything recorded so far.
func (m *Mock) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}
