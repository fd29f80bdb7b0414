package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/require"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/seating"
)

func newAssignmentMock(t *testing.T) (*AssignmentRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewAssignmentRepo(db), mock
}

const assignmentInsert = `INSERT INTO seating_assignments (period_id, roster_id, seat_id, group_number, group_role, notes) VALUES (?, ?, ?, ?, ?, ?)`

func TestAssignmentCreate(t *testing.T) {
    repo, mock := newAssignmentMock(t)

    mock.ExpectExec(regexp.QuoteMeta(assignmentInsert)).
        WithArgs(uint64(4), uint64(12), "2-3", nil, "", "").
        WillReturnResult(sqlmock.NewResult(77, 1))

    a := &model.SeatingAssignment{PeriodID: 4, RosterID: 12, SeatID: "2-3"}
    require.NoError(t, repo.Create(context.Background(), a))
    require.Equal(t, uint64(77), a.ID)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentCreateSeatTaken(t *testing.T) {
    repo, mock := newAssignmentMock(t)

    mock.ExpectExec(regexp.QuoteMeta(assignmentInsert)).
        WithArgs(uint64(4), uint64(12), "2-3", nil, "", "").
        WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '4-2-3' for key 'uq_assignment_seat'"))

    a := &model.SeatingAssignment{PeriodID: 4, RosterID: 12, SeatID: "2-3"}
    require.ErrorIs(t, repo.Create(context.Background(), a), ErrSeatTaken)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentCreateStudentAlreadySeated(t *testing.T) {
    repo, mock := newAssignmentMock(t)

    mock.ExpectExec(regexp.QuoteMeta(assignmentInsert)).
        WithArgs(uint64(4), uint64(12), "2-3", nil, "", "").
        WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '4-12' for key 'uq_assignment_roster'"))

    a := &model.SeatingAssignment{PeriodID: 4, RosterID: 12, SeatID: "2-3"}
    require.ErrorIs(t, repo.Create(context.Background(), a), ErrStudentAlreadySeated)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentCreatePassesThroughOtherErrors(t *testing.T) {
    repo, mock := newAssignmentMock(t)

    dbErr := errors.New("Error 1205 (HY000): Lock wait timeout exceeded")
    mock.ExpectExec(regexp.QuoteMeta(assignmentInsert)).
        WithArgs(uint64(4), uint64(12), "2-3", nil, "", "").
        WillReturnError(dbErr)

    a := &model.SeatingAssignment{PeriodID: 4, RosterID: 12, SeatID: "2-3"}
    err := repo.Create(context.Background(), a)
    require.Error(t, err)
    require.NotErrorIs(t, err, ErrSeatTaken)
    require.NotErrorIs(t, err, ErrStudentAlreadySeated)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentTableMatesMatchesTablePrefix(t *testing.T) {
    repo, mock := newAssignmentMock(t)
    now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id, period_id, roster_id, seat_id, group_number, group_role, notes, created_at, updated_at FROM seating_assignments WHERE period_id = ? AND seat_id LIKE CONCAT(?, '-%') AND seat_id <> ? ORDER BY seat_id`)).
        WithArgs(uint64(4), uint32(2), "2-1").
        WillReturnRows(sqlmock.NewRows([]string{"id", "period_id", "roster_id", "seat_id", "group_number", "group_role", "notes", "created_at", "updated_at"}).
            AddRow(1, 4, 10, "2-2", nil, "", "", now, now).
            AddRow(2, 4, 11, "2-3", 1, "leader", "", now, now))

    mates, err := repo.TableMates(context.Background(), 4, seating.SeatRef{Table: 2, Seat: 1})
    require.NoError(t, err)
    require.Len(t, mates, 2)
    require.Equal(t, "2-2", mates[0].SeatID)
    require.Equal(t, "leader", mates[1].GroupRole)
    require.NotNil(t, mates[1].GroupNumber)
    require.Equal(t, uint32(1), *mates[1].GroupNumber)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentHistoryByClassGroupsPeriods(t *testing.T) {
    repo, mock := newAssignmentMock(t)
    sept := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
    oct := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)

    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT sp.id, sp.end_date, cr.student_id, sa.seat_id, s.first_name, s.last_name, cr.is_active FROM seating_assignments sa JOIN seating_periods sp ON sp.id = sa.period_id JOIN class_roster cr ON cr.id = sa.roster_id JOIN students s ON s.id = cr.student_id WHERE sp.class_id = ? AND sp.end_date IS NOT NULL ORDER BY sp.end_date, sp.id`)).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "end_date", "student_id", "seat_id", "first_name", "last_name", "is_active"}).
            AddRow(1, sept, 100, "1-1", "Ada", "Nilsen", true).
            AddRow(1, sept, 101, "1-2", "Ben", "Okafor", true).
            AddRow(2, oct, 100, "2-1", "Ada", "Nilsen", true).
            AddRow(2, oct, 101, "2-2", "Ben", "Okafor", false))

    periods, students, err := repo.HistoryByClass(context.Background(), 7)
    require.NoError(t, err)
    require.Len(t, periods, 2)
    require.Equal(t, uint64(1), periods[0].PeriodID)
    require.Len(t, periods[0].Assignments, 2)
    require.Equal(t, sept, periods[0].EndDate)
    require.Equal(t, "Ada Nilsen", students[100].Name)
    // Latest roster row wins for the active flag.
    require.False(t, students[101].IsActive)

    history := seating.BuildPartnershipHistory(periods, students)
    require.Equal(t, []string{"2025-09-30", "2025-10-31"}, history[100].Partnerships[101])
    require.NoError(t, mock.ExpectationsWereMet())
}
