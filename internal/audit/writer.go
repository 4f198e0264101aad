// Package audit emits append-only JSONL records for affiliate redirects and
// client performance beacons. Writes are fire-and-forget: the HTTP response
// path never blocks on, or fails because of, a log write.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/observability"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("audit writer closed")

const defaultQueueSize = 1024

// Writer appends one JSON object per line to a file. Records are marshalled
// on the caller's goroutine and handed to a background writer through a
// bounded queue; when the queue is full the record is dropped and counted.
type Writer struct {
	f       *os.File
	logger  *zap.Logger
	metrics observability.MetricsRegistry

	mu     sync.Mutex
	closed bool
	ch     chan []byte
	done   chan struct{}
}

// NewWriter opens (creating if needed) the JSONL file at path and starts the
// background writer goroutine.
func NewWriter(path string, logger *zap.Logger, metrics observability.MetricsRegistry) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	w := &Writer{
		f:       f,
		logger:  logger,
		metrics: metrics,
		ch:      make(chan []byte, defaultQueueSize),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Writer) run() {
	defer close(w.done)
	for line := range w.ch {
		if _, err := w.f.Write(append(line, '\n')); err != nil {
			// A failed log write must not surface anywhere but here.
			w.logger.Warn("audit write failed", zap.Error(err))
		}
	}
}

// Enqueue marshals v and queues it for appending. It never blocks: when the
// queue is full the record is dropped and the drop is counted.
func (w *Writer) Enqueue(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	select {
	case w.ch <- line:
		return nil
	default:
		w.metrics.IncrementAuditDropped()
		w.logger.Warn("audit queue full, dropping record")
		return nil
	}
}

// Close drains the queue and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()

	<-w.done
	return w.f.Close()
}
