// Package sqlite persists battle snapshots in SQLite: four named save slots
// plus an archive of finished battles.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/samdwyer/turncore/internal/game"
	"github.com/samdwyer/turncore/internal/storage/sqlite/migrations"
)

// Save slot names.
const (
	SlotAuto = "auto"
	Slot1    = "slot_1"
	Slot2    = "slot_2"
	Slot3    = "slot_3"
)

// Slots lists every save slot.
var Slots = []string{SlotAuto, Slot1, Slot2, Slot3}

var (
	ErrUnknownSlot = errors.New("unknown save slot")
	ErrNotFound    = errors.New("snapshot not found")
)

// goose keeps its base filesystem and dialect in package state.
var migrateMu sync.Mutex

// Summary describes a stored snapshot without decoding it.
type Summary struct {
	ID      string
	Slot    string // empty for archived snapshots
	Seed    int64
	Tick    uint32
	Outcome string
	SavedAt time.Time
}

// Record is a stored snapshot.
type Record struct {
	Summary
	Snapshot game.Snapshot
}

// Store persists snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite snapshot store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

func migrate(ctx context.Context, sqlDB *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save writes snap into a save slot, replacing whatever the slot held.
// It returns the new snapshot id.
func (s *Store) Save(ctx context.Context, slot string, snap game.Snapshot) (string, error) {
	if !slices.Contains(Slots, slot) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE slot = ?`, slot); err != nil {
		return "", fmt.Errorf("clear slot %s: %w", slot, err)
	}
	id, err := insert(ctx, tx, sql.NullString{String: slot, Valid: true}, snap, s.now())
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return id, nil
}

// Archive stores snap outside the save slots and returns its id.
func (s *Store) Archive(ctx context.Context, snap game.Snapshot) (string, error) {
	return insert(ctx, s.sqlDB, sql.NullString{}, snap, s.now())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, slot sql.NullString, snap game.Snapshot, savedAt time.Time) (string, error) {
	body, err := snap.Marshal()
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	outcome, err := snap.Outcome.MarshalText()
	if err != nil {
		return "", fmt.Errorf("encode outcome: %w", err)
	}
	id := uuid.NewString()
	_, err = db.ExecContext(
		ctx,
		`INSERT INTO snapshots (id, slot, seed, tick, outcome, saved_at, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		slot,
		snap.Seed,
		int64(snap.Scheduler.Tick),
		string(outcome),
		toMillis(savedAt),
		body,
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// Load returns the snapshot held by a save slot.
func (s *Store) Load(ctx context.Context, slot string) (Record, error) {
	if !slices.Contains(Slots, slot) {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return s.get(ctx, `WHERE slot = ?`, slot)
}

// Get returns a snapshot by id, slotted or archived.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.get(ctx, `WHERE id = ?`, id)
}

func (s *Store) get(ctx context.Context, where string, arg any) (Record, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, slot, seed, tick, outcome, saved_at, body FROM snapshots `+where,
		arg,
	)
	var rec Record
	var body []byte
	if err := scanSummary(row, &rec.Summary, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("get snapshot: %w", err)
	}
	snap, err := game.ParseSnapshot(body)
	if err != nil {
		return Record{}, err
	}
	rec.Snapshot = snap
	return rec, nil
}

// List returns every stored snapshot, most recent first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, slot, seed, tick, outcome, saved_at, NULL
		   FROM snapshots
		  ORDER BY saved_at DESC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var body []byte
		if err := scanSummary(rows, &sum, &body); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Delete empties a save slot. Deleting an empty slot is not an error.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if !slices.Contains(Slots, slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM snapshots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, sum *Summary, body *[]byte) error {
	var slot sql.NullString
	var tick, savedAt int64
	if err := row.Scan(&sum.ID, &slot, &sum.Seed, &tick, &sum.Outcome, &savedAt, body); err != nil {
		return err
	}
	sum.Slot = slot.String
	sum.Tick = uint32(tick)
	sum.SavedAt = fromMillis(savedAt)
	return nil
}
