package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/middleware"
)

// perfBodyLimit caps client performance beacons at 64KB.
const perfBodyLimit = 64 << 10

// PerfHandler handles POST /api/perf: it appends one timestamped JSON line
// per client performance beacon to the perf log.
func (s *Server) PerfHandler(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "/api/perf"
	const method = "POST"

	w.Header().Set("Content-Type", "application/json")

	var body map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, perfBodyLimit))
	if err := dec.Decode(&body); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error":"invalid json"}`))
		return
	}

	if s.PerfLog == nil {
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"error":"perf log unavailable"}`))
		return
	}

	line := make(map[string]any, len(body)+1)
	line["t"] = time.Now().UTC().Format(time.RFC3339)
	for k, v := range body {
		line[k] = v
	}
	if err := s.PerfLog.Enqueue(line); err != nil {
		logger.Warn("perf log enqueue", zap.Error(err))
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"ok":true}`))
}
