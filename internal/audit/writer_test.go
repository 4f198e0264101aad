package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/observability"
)

func TestWriterAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "redirects.log")
	w, err := NewWriter(path, zap.NewNop(), observability.NewNoOpRegistry())
	require.NoError(t, err)

	auditor := NewFileAuditor(w)
	rec := Record{
		ID:           "r-1",
		Timestamp:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Brand:        "AeroBet",
		Slug:         "aerobet",
		FinalURL:     "https://trk.bestcasinoportal.com/x",
		ClientOrigin: "203.0.113.9",
		Geo:          "DE",
		DeviceType:   "mobile",
	}
	require.NoError(t, auditor.RecordRedirect(context.Background(), rec))
	require.NoError(t, auditor.RecordRedirect(context.Background(), Record{ID: "r-2", Slug: "lunaplay", Brand: "LunaPlay"}))

	// Close drains the queue before the file is read back.
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var got Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &got))
		lines = append(lines, got)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)

	assert.Equal(t, EventRedirect, lines[0].Event)
	assert.Equal(t, "aerobet", lines[0].Slug)
	assert.Equal(t, "https://trk.bestcasinoportal.com/x", lines[0].FinalURL)
	assert.Equal(t, "203.0.113.9", lines[0].ClientOrigin)
	assert.Equal(t, EventRedirect, lines[1].Event)
	assert.Equal(t, "lunaplay", lines[1].Slug)
}

func TestWriterEnqueueAfterClose(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "a.log"), zap.NewNop(), observability.NewNoOpRegistry())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Enqueue(map[string]string{"k": "v"}), ErrClosed)
	// Double close is a no-op.
	assert.NoError(t, w.Close())
}

func TestMockRecords(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.RecordRedirect(context.Background(), Record{Slug: "aerobet"}))

	recs := m.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, EventRedirect, recs[0].Event)
	assert.Equal(t, "aerobet", recs[0].Slug)
}
