package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"eventtix/internal/models"
)

// ScanLogRepository persists the local check-in scan journal in SQLite so a
// kiosk restart does not lose the evening's history.
type ScanLogRepository struct {
	db *sql.DB
}

// NewScanLogRepository creates a new scan log repository
func NewScanLogRepository(db *sql.DB) *ScanLogRepository {
	return &ScanLogRepository{db: db}
}

// Initialize creates the scan_log table if it does not exist.
func (r *ScanLogRepository) Initialize() error {
	query := `
		CREATE TABLE IF NOT EXISTS scan_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL,
			code TEXT NOT NULL,
			result TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			scanned_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scan_log_event ON scan_log(event_id);
		CREATE INDEX IF NOT EXISTS idx_scan_log_code ON scan_log(code);`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to initialize scan log schema: %w", err)
	}
	return nil
}

// Record appends one scan to the journal and fills in its assigned id.
func (r *ScanLogRepository) Record(record *models.ScanRecord) error {
	if record.ScannedAt.IsZero() {
		record.ScannedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO scan_log (event_id, code, result, detail, scanned_at) VALUES (?, ?, ?, ?, ?)`,
		record.EventID, record.Code, string(record.Result), record.Detail, record.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read scan id: %w", err)
	}
	record.ID = id
	return nil
}

// Recent returns the most recent scans for an event, newest first.
func (r *ScanLogRepository) Recent(eventID string, limit int) ([]*models.ScanRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, event_id, code, result, detail, scanned_at
		 FROM scan_log WHERE event_id = ?
		 ORDER BY scanned_at DESC, id DESC LIMIT ?`,
		eventID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan log: %w", err)
	}
	defer rows.Close()

	var records []*models.ScanRecord
	for rows.Next() {
		var record models.ScanRecord
		var result string
		if err := rows.Scan(&record.ID, &record.EventID, &record.Code, &result, &record.Detail, &record.ScannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		record.Result = models.ScanResult(result)
		records = append(records, &record)
	}
	return records, rows.Err()
}

// CountAccepted returns how many scans were accepted for an event.
func (r *ScanLogRepository) CountAccepted(eventID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM scan_log WHERE event_id = ? AND result = ?`,
		eventID, string(models.ScanAccepted),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accepted scans: %w", err)
	}
	return count, nil
}

// HasAccepted reports whether a code has already been accepted for an event.
// Used for an offline duplicate hint when the API is unreachable; the server
// remains the source of truth.
func (r *ScanLogRepository) HasAccepted(eventID, code string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM scan_log WHERE event_id = ? AND code = ? AND result = ?`,
		eventID, code, string(models.ScanAccepted),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check scan history: %w", err)
	}
	return count > 0, nil
}
