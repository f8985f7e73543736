// Package store is a sqlite-backed sample store standing in for a platform's
// on-device health database. Both simulated platform adapters share it; each
// opens its own file.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the sqlite database holding simulated native samples.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and applies pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
		}
	}

	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging store db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func runMigrations(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Insert upserts one sample. A missing id gets a fresh one, mirroring how
// the real stores assign identity on insert.
func (s *Store) Insert(ctx context.Context, smp native.Sample) error {
	if smp.ID == "" {
		smp.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO samples (id, type, value, secondary_value, unit, category, start_ns, end_ns, source_name, source_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		   value=excluded.value, secondary_value=excluded.secondary_value,
		   unit=excluded.unit, category=excluded.category,
		   start_ns=excluded.start_ns, end_ns=excluded.end_ns`,
		smp.ID, smp.Type, smp.Value, smp.SecondaryValue, smp.Unit, smp.Category,
		smp.Start.UnixNano(), smp.End.UnixNano(), smp.SourceName, smp.SourceID)
	if err != nil {
		return fmt.Errorf("inserting sample: %w", err)
	}
	return nil
}

// QueryRange returns samples of one type inside [start, end), capped at
// limit, ordered by start time (descending when desc is set).
func (s *Store) QueryRange(ctx context.Context, nativeType string, start, end time.Time, limit int, desc bool) ([]native.Sample, error) {
	order := "ASC"
	if desc {
		order = "DESC"
	}
	if limit <= 0 {
		limit = 1000
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, value, secondary_value, unit, category, start_ns, end_ns, source_name, source_id
		 FROM samples
		 WHERE type = ? AND start_ns >= ? AND start_ns < ?
		 ORDER BY start_ns `+order+`
		 LIMIT ?`,
		nativeType, start.UnixNano(), end.UnixNano(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	var result []native.Sample
	for rows.Next() {
		smp, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, smp)
	}
	return result, rows.Err()
}

// QueryByIDs returns the samples with the given ids, ascending by start.
func (s *Store) QueryByIDs(ctx context.Context, ids []string) ([]native.Sample, error) {
	var result []native.Sample
	for _, id := range ids {
		row := s.db.QueryRowContext(ctx,
			`SELECT id, type, value, secondary_value, unit, category, start_ns, end_ns, source_name, source_id
			 FROM samples WHERE id = ?`, id)
		smp, err := scanSample(row)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, smp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(row scanner) (native.Sample, error) {
	var smp native.Sample
	var startNS, endNS int64
	err := row.Scan(&smp.ID, &smp.Type, &smp.Value, &smp.SecondaryValue, &smp.Unit,
		&smp.Category, &startNS, &endNS, &smp.SourceName, &smp.SourceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return smp, err
		}
		return smp, fmt.Errorf("scanning sample: %w", err)
	}
	smp.Start = time.Unix(0, startNS).UTC()
	smp.End = time.Unix(0, endNS).UTC()
	return smp, nil
}

// Aggregate sums sample values into calendar-aligned buckets of the given
// interval. Buckets step from the query start; empty buckets are omitted.
func (s *Store) Aggregate(ctx context.Context, nativeType string, start, end time.Time, interval native.Interval) ([]native.AggregateBucket, error) {
	if !interval.Valid() {
		return nil, fmt.Errorf("%w: interval %q", models.ErrInvalidParameters, interval)
	}

	samples, err := s.QueryRange(ctx, nativeType, start, end, 1<<20, false)
	if err != nil {
		return nil, err
	}

	var buckets []native.AggregateBucket
	idx := 0
	for bStart := start; bStart.Before(end); {
		bEnd := nextBucket(bStart, interval)
		if bEnd.After(end) {
			bEnd = end
		}

		var sum float64
		var unit string
		count := 0
		for idx < len(samples) && samples[idx].Start.Before(bEnd) {
			sum += samples[idx].Value
			unit = samples[idx].Unit
			count++
			idx++
		}
		if count > 0 {
			buckets = append(buckets, native.AggregateBucket{
				Start: bStart, End: bEnd, Value: sum, Unit: unit,
			})
		}
		bStart = bEnd
	}
	return buckets, nil
}

func nextBucket(t time.Time, interval native.Interval) time.Time {
	switch interval {
	case native.IntervalHour:
		return t.Add(time.Hour)
	case native.IntervalDay:
		return t.AddDate(0, 0, 1)
	case native.IntervalWeek:
		return t.AddDate(0, 0, 7)
	default: // month
		return t.AddDate(0, 1, 0)
	}
}

// CurrentSeq returns the newest change sequence for one type (0 when empty).
func (s *Store) CurrentSeq(ctx context.Context, nativeType string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM samples WHERE type = ?`, nativeType).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("querying max seq: %w", err)
	}
	return seq.Int64, nil
}

// ChangesSince returns ids of samples of one type inserted after seq, plus
// the new high-water mark.
func (s *Store) ChangesSince(ctx context.Context, nativeType string, seq int64) ([]string, int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seq FROM samples WHERE type = ? AND seq > ? ORDER BY seq ASC`,
		nativeType, seq)
	if err != nil {
		return nil, 0, fmt.Errorf("querying changes: %w", err)
	}
	defer rows.Close()

	var ids []string
	maxSeq := seq
	for rows.Next() {
		var id string
		var rowSeq int64
		if err := rows.Scan(&id, &rowSeq); err != nil {
			return nil, 0, fmt.Errorf("scanning change: %w", err)
		}
		ids = append(ids, id)
		if rowSeq > maxSeq {
			maxSeq = rowSeq
		}
	}
	return ids, maxSeq, rows.Err()
}

// SetGrant records the user's authorization decision for one native type and
// access direction.
func (s *Store) SetGrant(ctx context.Context, nativeType string, access models.AccessType, granted bool) error {
	g := 0
	if granted {
		g = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grants (native_type, access, granted) VALUES (?,?,?)
		 ON CONFLICT(native_type, access) DO UPDATE SET granted=excluded.granted`,
		nativeType, string(access), g)
	if err != nil {
		return fmt.Errorf("recording grant: %w", err)
	}
	return nil
}

// Grants returns the decided grant set for one access direction.
func (s *Store) Grants(ctx context.Context, access models.AccessType) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT native_type, granted FROM grants WHERE access = ?`, string(access))
	if err != nil {
		return nil, fmt.Errorf("querying grants: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var t string
		var g int
		if err := rows.Scan(&t, &g); err != nil {
			return nil, fmt.Errorf("scanning grant: %w", err)
		}
		result[t] = g == 1
	}
	return result, rows.Err()
}
