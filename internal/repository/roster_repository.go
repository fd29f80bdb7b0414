package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/teachdesk/classroom-seating/internal/model"
)

// ErrAlreadyEnrolled is returned when enrolling a student who already
// has a roster entry in the class.
var ErrAlreadyEnrolled = errors.New("student already enrolled in class")

// ErrRosterEntryNotFound is returned when a roster lookup yields no rows.
var ErrRosterEntryNotFound = errors.New("roster entry not found")

// RosterRepo manages class_roster rows, the links between students
// and classes.  All queries are scoped by class; callers verify class
// ownership through ClassRepo before touching the roster.
type RosterRepo struct {
    db *sql.DB
}

// NewRosterRepo constructs a RosterRepo with the given DB handle.
func NewRosterRepo(db *sql.DB) *RosterRepo { return &RosterRepo{db: db} }

const rosterColumns = `id, class_id, student_id, is_active, enrollment_date, notes, created_at, updated_at`

func scanRosterEntry(row interface{ Scan(...any) error }) (model.RosterEntry, error) {
    var e model.RosterEntry
    var notes sql.NullString
    err := row.Scan(&e.ID, &e.ClassID, &e.StudentID, &e.IsActive, &e.EnrollmentDate, &notes, &e.CreatedAt, &e.UpdatedAt)
    if err != nil {
        return e, err
    }
    e.Notes = notes.String
    return e, nil
}

// Enroll adds a student to a class.  The unique (class_id, student_id)
// index enforces one entry per pair; a duplicate maps to ErrAlreadyEnrolled.
func (r *RosterRepo) Enroll(ctx context.Context, e *model.RosterEntry) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO class_roster (class_id, student_id, enrollment_date, notes) VALUES (?, ?, ?, ?)`,
        e.ClassID, e.StudentID, e.EnrollmentDate, e.Notes)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrAlreadyEnrolled
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    e.ID = uint64(id)
    return nil
}

// GetByID retrieves a roster entry scoped to a class.
func (r *RosterRepo) GetByID(ctx context.Context, classID, entryID uint64) (*model.RosterEntry, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+rosterColumns+` FROM class_roster WHERE id = ? AND class_id = ?`, entryID, classID)
    e, err := scanRosterEntry(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRosterEntryNotFound
        }
        return nil, err
    }
    return &e, nil
}

// ListByClass returns all roster entries for a class, active first,
// then by enrollment date.
func (r *RosterRepo) ListByClass(ctx context.Context, classID uint64) ([]model.RosterEntry, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+rosterColumns+` FROM class_roster WHERE class_id = ?
         ORDER BY is_active DESC, enrollment_date, id`, classID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.RosterEntry, 0)
    for rows.Next() {
        e, err := scanRosterEntry(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// ActiveStudentIDs returns the ids of students with an active roster
// entry in the class.  Used when generating charts and rating grids.
func (r *RosterRepo) ActiveStudentIDs(ctx context.Context, classID uint64) ([]uint64, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT student_id FROM class_roster WHERE class_id = ? AND is_active = 1 ORDER BY student_id`, classID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    ids := make([]uint64, 0)
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return ids, nil
}

// IsEnrolled reports whether the student has an active roster entry
// in the class.  Assignment validation uses this before seating a
// student.
func (r *RosterRepo) IsEnrolled(ctx context.Context, classID, studentID uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx,
        `SELECT 1 FROM class_roster WHERE class_id = ? AND student_id = ? AND is_active = 1`,
        classID, studentID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// Update persists active-flag and notes changes on a roster entry.
func (r *RosterRepo) Update(ctx context.Context, e *model.RosterEntry) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE class_roster SET is_active = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND class_id = ?`,
        e.IsActive, e.Notes, e.ID, e.ClassID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrRosterEntryNotFound
    }
    return nil
}

// Remove deletes a roster entry unless the student has seating
// assignments in the class; deactivate the entry instead in that case.
func (r *RosterRepo) Remove(ctx context.Context, classID, entryID uint64) error {
    var n int
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM seating_assignments WHERE roster_id = ?`, entryID).Scan(&n)
    if err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM class_roster WHERE id = ? AND class_id = ?`, entryID, classID)
    if err != nil {
        return err
    }
    if affected, _ := res.RowsAffected(); affected == 0 {
        return ErrRosterEntryNotFound
    }
    return nil
}
