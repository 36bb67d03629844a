// Package archive is the CLI's optional out-of-core convenience for
// saving generated schedules to a local embedded database (spec.md §1
// keeps persistence out of the kernel; this lives at the CLI layer and
// is never read back into a solve). It uses modernc.org/sqlite the same
// way the teacher's infrastructure/persistence packages back local mode,
// minus the sqlc-generated query layer: a handful of hand-written
// statements are enough for a write-only archive, and generating sqlc
// code requires running the sqlc toolchain, which is out of scope here.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/workforce-eng/shiftsched/internal/model"
)

// Store is a write-only archive of solved schedules, keyed by day.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS schedules (
	day         TEXT PRIMARY KEY,
	num_slots   INTEGER NOT NULL,
	job_caps    TEXT NOT NULL,
	shifts      TEXT NOT NULL,
	archived_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Open creates or opens a SQLite archive at path and ensures its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// wireShift is the archive's exchange form for one associate's assigned
// shift, following the teacher's JSON-tagged wire-struct convention
// (internal/engine/types/scheduler.go) rather than marshaling
// model.AssignedShift directly, since its Roles map uses int keys.
type wireShift struct {
	AssociateID string            `json:"associate_id"`
	StartSlot   int               `json:"start_slot"`
	EndSlot     int               `json:"end_slot"`
	WorkMinutes int               `json:"work_minutes"`
	Lunch       *model.BreakSpan  `json:"lunch,omitempty"`
	Breaks      []model.BreakSpan `json:"breaks,omitempty"`
	Roles       map[int]string    `json:"roles,omitempty"`
}

func toWireShift(id string, s model.AssignedShift) wireShift {
	roles := make(map[int]string, len(s.Roles))
	for slot, r := range s.Roles {
		roles[slot] = string(r)
	}
	return wireShift{
		AssociateID: id,
		StartSlot:   s.StartSlot,
		EndSlot:     s.EndSlot,
		WorkMinutes: s.WorkMinutes,
		Lunch:       s.Lunch,
		Breaks:      s.Breaks,
		Roles:       roles,
	}
}

// SaveSchedule archives a single day's solved schedule, replacing any
// prior entry for the same day.
func (s *Store) SaveSchedule(ctx context.Context, sched *model.Schedule) error {
	shifts := make([]wireShift, 0, len(sched.Shifts))
	for id, shift := range sched.Shifts {
		shifts = append(shifts, toWireShift(id, shift))
	}
	shiftsJSON, err := json.Marshal(shifts)
	if err != nil {
		return fmt.Errorf("archive: marshal shifts: %w", err)
	}
	capsJSON, err := json.Marshal(sched.JobCaps)
	if err != nil {
		return fmt.Errorf("archive: marshal job caps: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO schedules (day, num_slots, job_caps, shifts) VALUES (?, ?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET num_slots=excluded.num_slots, job_caps=excluded.job_caps, shifts=excluded.shifts, archived_at=datetime('now')`,
		sched.Day.String(), sched.NumSlots, string(capsJSON), string(shiftsJSON),
	)
	if err != nil {
		return fmt.Errorf("archive: insert schedule for %s: %w", sched.Day.String(), err)
	}
	return nil
}

// SaveWeekly archives every day in a WeeklySchedule.
func (s *Store) SaveWeekly(ctx context.Context, weekly *model.WeeklySchedule) error {
	for _, day := range weekly.Days {
		if err := s.SaveSchedule(ctx, day); err != nil {
			return err
		}
	}
	return nil
}
