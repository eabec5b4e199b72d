package repositories

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventtix/internal/models"
)

func newTestRepo(t *testing.T) *ScanLogRepository {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewScanLogRepository(db)
	require.NoError(t, repo.Initialize())
	return repo
}

func TestScanLog_RecordAssignsID(t *testing.T) {
	repo := newTestRepo(t)

	record := &models.ScanRecord{
		EventID: "ev-1",
		Code:    "TK-001",
		Result:  models.ScanAccepted,
	}
	require.NoError(t, repo.Record(record))
	assert.NotZero(t, record.ID)
	assert.False(t, record.ScannedAt.IsZero(), "timestamp filled in when absent")
}

func TestScanLog_RecentNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	for i, code := range []string{"TK-001", "TK-002", "TK-003"} {
		require.NoError(t, repo.Record(&models.ScanRecord{
			EventID:   "ev-1",
			Code:      code,
			Result:    models.ScanAccepted,
			ScannedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Record(&models.ScanRecord{
		EventID: "ev-other", Code: "TK-099", Result: models.ScanAccepted, ScannedAt: base,
	}))

	records, err := repo.Recent("ev-1", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "TK-003", records[0].Code)
	assert.Equal(t, "TK-002", records[1].Code)
}

func TestScanLog_CountAccepted(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Record(&models.ScanRecord{EventID: "ev-1", Code: "a", Result: models.ScanAccepted}))
	require.NoError(t, repo.Record(&models.ScanRecord{EventID: "ev-1", Code: "b", Result: models.ScanRejected}))
	require.NoError(t, repo.Record(&models.ScanRecord{EventID: "ev-1", Code: "c", Result: models.ScanAccepted}))

	count, err := repo.CountAccepted("ev-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestScanLog_HasAccepted(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Record(&models.ScanRecord{EventID: "ev-1", Code: "TK-001", Result: models.ScanAccepted}))
	require.NoError(t, repo.Record(&models.ScanRecord{EventID: "ev-1", Code: "TK-002", Result: models.ScanRejected}))

	seen, err := repo.HasAccepted("ev-1", "TK-001")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = repo.HasAccepted("ev-1", "TK-002")
	require.NoError(t, err)
	assert.False(t, seen, "rejected scans do not count as checked in")

	seen, err = repo.HasAccepted("ev-2", "TK-001")
	require.NoError(t, err)
	assert.False(t, seen, "history is scoped per event")
}
