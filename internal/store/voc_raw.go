package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/vocseed/internal/record"
)

const (
	defaultDate   = "2025-09-07"
	defaultTime   = "12:00"
	defaultGender = "남자"
	defaultAge    = 30

	// Fixed width so created_at sorts correctly as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

type VocRaw struct {
	ID                int64
	SourceID          string
	ConsultingDate    time.Time
	ClientGender      string
	ClientAge         int
	ConsultingTurns   int
	ConsultingLength  int
	ConsultingContent string
	ConsultingTime    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FromRecord converts a record file element into a row, applying the same
// defaults the ingestion API uses for missing fields.
func FromRecord(r record.Record) (*VocRaw, error) {
	date, err := time.Parse("2006-01-02", r.String(record.FieldDate, defaultDate))
	if err != nil {
		return nil, fmt.Errorf("parsing consulting_date: %w", err)
	}
	clock, err := time.Parse("15:04", r.String(record.FieldTime, defaultTime))
	if err != nil {
		return nil, fmt.Errorf("parsing consulting_time: %w", err)
	}

	return &VocRaw{
		SourceID:          r.SourceID(),
		ConsultingDate:    date,
		ClientGender:      r.String(record.FieldGender, defaultGender),
		ClientAge:         ParseAge(r.String(record.FieldAge, "30대")),
		ConsultingTurns:   r.Int(record.FieldTurns, 0),
		ConsultingLength:  r.Int(record.FieldLength, 0),
		ConsultingContent: r.String(record.FieldContent, ""),
		ConsultingTime:    clock.Format("15:04"),
	}, nil
}

// ParseAge turns an age band such as "50대" into 50. Anything unparsable
// becomes 30.
func ParseAge(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "대")
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultAge
	}
	return n
}

// InsertVocRaw inserts v unless a row with the same source_id exists.
// It reports whether a row was written.
func (db *DB) InsertVocRaw(ctx context.Context, v *VocRaw) (bool, error) {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO voc_raw (
			source_id, consulting_date, client_gender, client_age,
			consulting_turns, consulting_length, consulting_content, consulting_time,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_id) DO NOTHING`,
		v.SourceID, v.ConsultingDate.Format("2006-01-02"), v.ClientGender, v.ClientAge,
		v.ConsultingTurns, v.ConsultingLength, v.ConsultingContent, v.ConsultingTime,
		now.Format(timestampLayout), now.Format(timestampLayout),
	)
	if err != nil {
		return false, fmt.Errorf("inserting voc_raw %s: %w", v.SourceID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountVocRaw returns the number of stored rows.
func (db *DB) CountVocRaw(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voc_raw`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting voc_raw: %w", err)
	}
	return n, nil
}

// RecentVocRaw returns up to limit rows, newest first.
func (db *DB) RecentVocRaw(ctx context.Context, limit int) ([]VocRaw, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, source_id, consulting_date, client_gender, client_age,
		        consulting_turns, consulting_length, consulting_content, consulting_time,
		        created_at, updated_at
		 FROM voc_raw
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying voc_raw: %w", err)
	}
	defer rows.Close()

	var out []VocRaw
	for rows.Next() {
		var v VocRaw
		var dateStr, createdStr, updatedStr string
		var content sql.NullString

		if err := rows.Scan(
			&v.ID, &v.SourceID, &dateStr, &v.ClientGender, &v.ClientAge,
			&v.ConsultingTurns, &v.ConsultingLength, &content, &v.ConsultingTime,
			&createdStr, &updatedStr,
		); err != nil {
			return nil, fmt.Errorf("scanning voc_raw: %w", err)
		}

		v.ConsultingContent = content.String
		if t, err := time.Parse("2006-01-02", dateStr); err == nil {
			v.ConsultingDate = t
		}
		if t, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
			v.CreatedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, updatedStr); err == nil {
			v.UpdatedAt = t
		}

		out = append(out, v)
	}

	return out, rows.Err()
}

// DailyCounts returns the number of rows per consulting_date, ascending.
func (db *DB) DailyCounts(ctx context.Context) ([]DailyCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT consulting_date, COUNT(*) FROM voc_raw GROUP BY consulting_date ORDER BY consulting_date`)
	if err != nil {
		return nil, fmt.Errorf("querying daily counts: %w", err)
	}
	defer rows.Close()

	var out []DailyCount
	for rows.Next() {
		var d DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, fmt.Errorf("scanning daily count: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type DailyCount struct {
	Date  string
	Count int
}
