package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/seating"
)

// ErrAssignmentNotFound is returned when an assignment lookup yields
// no rows.
var ErrAssignmentNotFound = errors.New("seating assignment not found")

// ErrSeatTaken is returned when the seat already holds another
// student in the period.
var ErrSeatTaken = errors.New("seat already taken in this period")

// ErrStudentAlreadySeated is returned when the roster entry already
// has a seat in the period.
var ErrStudentAlreadySeated = errors.New("student already seated in this period")

// AssignmentRepo manages seating assignments.  Two unique indexes
// back the period invariants: uq_assignment_roster on
// (period_id, roster_id) and uq_assignment_seat on
// (period_id, seat_id).  Duplicate-key errors are mapped back to
// the matching sentinel by index name.
type AssignmentRepo struct {
    db *sql.DB
}

// NewAssignmentRepo constructs an AssignmentRepo with the given DB handle.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentColumns = `id, period_id, roster_id, seat_id, group_number, group_role, notes, created_at, updated_at`

func scanAssignment(row interface{ Scan(...any) error }) (model.SeatingAssignment, error) {
    var a model.SeatingAssignment
    var group sql.NullInt64
    var role, notes sql.NullString
    err := row.Scan(&a.ID, &a.PeriodID, &a.RosterID, &a.SeatID, &group, &role, &notes, &a.CreatedAt, &a.UpdatedAt)
    if err != nil {
        return a, err
    }
    if group.Valid {
        g := uint32(group.Int64)
        a.GroupNumber = &g
    }
    a.GroupRole = role.String
    a.Notes = notes.String
    return a, nil
}

func translateAssignmentConflict(err error) error {
    msg := strings.ToLower(err.Error())
    if !strings.Contains(msg, "1062") {
        return err
    }
    switch {
    case strings.Contains(msg, "uq_assignment_seat"):
        return ErrSeatTaken
    case strings.Contains(msg, "uq_assignment_roster"):
        return ErrStudentAlreadySeated
    }
    return ErrConflict
}

// Create inserts an assignment.  Callers validate the seat reference
// and roster membership first; the unique indexes remain the final
// arbiter under concurrency.
func (r *AssignmentRepo) Create(ctx context.Context, a *model.SeatingAssignment) error {
    var group any
    if a.GroupNumber != nil {
        group = *a.GroupNumber
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO seating_assignments (period_id, roster_id, seat_id, group_number, group_role, notes)
         VALUES (?, ?, ?, ?, ?, ?)`,
        a.PeriodID, a.RosterID, a.SeatID, group, a.GroupRole, a.Notes)
    if err != nil {
        return translateAssignmentConflict(err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    return nil
}

// GetByID retrieves an assignment scoped to a period.
func (r *AssignmentRepo) GetByID(ctx context.Context, periodID, assignmentID uint64) (*model.SeatingAssignment, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+assignmentColumns+` FROM seating_assignments WHERE id = ? AND period_id = ?`,
        assignmentID, periodID)
    a, err := scanAssignment(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrAssignmentNotFound
        }
        return nil, err
    }
    return &a, nil
}

// ListByPeriod returns a period's assignments ordered by seat id.
func (r *AssignmentRepo) ListByPeriod(ctx context.Context, periodID uint64) ([]model.SeatingAssignment, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+assignmentColumns+` FROM seating_assignments WHERE period_id = ? ORDER BY seat_id`,
        periodID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.SeatingAssignment, 0)
    for rows.Next() {
        a, err := scanAssignment(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// Update moves an assignment to a new seat or changes its group
// fields.  Seat conflicts surface the same way as on Create.
func (r *AssignmentRepo) Update(ctx context.Context, a *model.SeatingAssignment) error {
    var group any
    if a.GroupNumber != nil {
        group = *a.GroupNumber
    }
    res, err := r.db.ExecContext(ctx,
        `UPDATE seating_assignments SET seat_id = ?, group_number = ?, group_role = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND period_id = ?`,
        a.SeatID, group, a.GroupRole, a.Notes, a.ID, a.PeriodID)
    if err != nil {
        return translateAssignmentConflict(err)
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrAssignmentNotFound
    }
    return nil
}

// Delete removes an assignment from a period.
func (r *AssignmentRepo) Delete(ctx context.Context, periodID, assignmentID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM seating_assignments WHERE id = ? AND period_id = ?`, assignmentID, periodID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrAssignmentNotFound
    }
    return nil
}

// DeleteByPeriod clears every assignment in a period.  Used before
// writing a freshly generated chart.
func (r *AssignmentRepo) DeleteByPeriod(ctx context.Context, periodID uint64) error {
    _, err := r.db.ExecContext(ctx,
        `DELETE FROM seating_assignments WHERE period_id = ?`, periodID)
    return err
}

// GroupMembers returns the period's assignments carrying the given
// group number, ordered so leaders come first.
func (r *AssignmentRepo) GroupMembers(ctx context.Context, periodID uint64, groupNumber uint32) ([]model.SeatingAssignment, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+assignmentColumns+` FROM seating_assignments
         WHERE period_id = ? AND group_number = ?
         ORDER BY group_role = 'leader' DESC, seat_id`, periodID, groupNumber)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.SeatingAssignment, 0)
    for rows.Next() {
        a, err := scanAssignment(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// TableMates returns the period's assignments sharing a table with
// the given seat reference, excluding the reference seat itself.
// Matching is on the "table-" prefix of the composite seat id.
func (r *AssignmentRepo) TableMates(ctx context.Context, periodID uint64, ref seating.SeatRef) ([]model.SeatingAssignment, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+assignmentColumns+` FROM seating_assignments
         WHERE period_id = ? AND seat_id LIKE CONCAT(?, '-%') AND seat_id <> ?
         ORDER BY seat_id`, periodID, ref.Table, ref.String())
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.SeatingAssignment, 0)
    for rows.Next() {
        a, err := scanAssignment(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// HistoryByClass loads every closed period of the class with its
// assignments flattened to student IDs, plus the display info for
// each student involved.  This is the input to the partnership fold.
func (r *AssignmentRepo) HistoryByClass(ctx context.Context, classID uint64) ([]seating.ClosedPeriod, map[uint64]seating.StudentInfo, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT sp.id, sp.end_date, cr.student_id, sa.seat_id, s.first_name, s.last_name, cr.is_active
         FROM seating_assignments sa
         JOIN seating_periods sp ON sp.id = sa.period_id
         JOIN class_roster cr ON cr.id = sa.roster_id
         JOIN students s ON s.id = cr.student_id
         WHERE sp.class_id = ? AND sp.end_date IS NOT NULL
         ORDER BY sp.end_date, sp.id`, classID)
    if err != nil {
        return nil, nil, err
    }
    defer rows.Close()

    periods := make([]seating.ClosedPeriod, 0)
    index := make(map[uint64]int)
    students := make(map[uint64]seating.StudentInfo)
    for rows.Next() {
        var (
            periodID, studentID uint64
            endDate             sql.NullTime
            seatID, first, last string
            active              bool
        )
        if err := rows.Scan(&periodID, &endDate, &studentID, &seatID, &first, &last, &active); err != nil {
            return nil, nil, err
        }
        i, ok := index[periodID]
        if !ok {
            i = len(periods)
            index[periodID] = i
            periods = append(periods, seating.ClosedPeriod{PeriodID: periodID, EndDate: endDate.Time})
        }
        periods[i].Assignments = append(periods[i].Assignments, seating.HistoryAssignment{
            StudentID: studentID,
            SeatID:    seatID,
        })
        students[studentID] = seating.StudentInfo{Name: first + " " + last, IsActive: active}
    }
    if err := rows.Err(); err != nil {
        return nil, nil, err
    }
    return periods, students, nil
}
