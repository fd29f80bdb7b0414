package repository

import (
    "context"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/require"

    "github.com/teachdesk/classroom-seating/internal/model"
)

func newMock(t *testing.T) (*PeriodRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewPeriodRepo(db), mock
}

func TestPeriodCreateClosesSibling(t *testing.T) {
    repo, mock := newMock(t)
    start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id FROM seating_periods WHERE class_id = ? AND end_date IS NULL FOR UPDATE`)).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
    mock.ExpectExec(regexp.QuoteMeta(
        `UPDATE seating_periods SET end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)).
        WithArgs(start, uint64(41)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta(
        `INSERT INTO seating_periods (class_id, layout_id, name, start_date, end_date, notes) VALUES (?, ?, ?, ?, NULL, ?)`)).
        WithArgs(uint64(7), uint64(3), "Window groups", start, "").
        WillReturnResult(sqlmock.NewResult(42, 1))
    mock.ExpectCommit()

    p := &model.SeatingPeriod{ClassID: 7, LayoutID: 3, Name: "Window groups", StartDate: start}
    require.NoError(t, repo.Create(context.Background(), p))
    require.Equal(t, uint64(42), p.ID)
    require.Nil(t, p.EndDate)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodCreateAutoName(t *testing.T) {
    repo, mock := newMock(t)
    start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT COUNT(*) FROM seating_periods WHERE class_id = ?`)).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
    // "Chart 3" is taken (a renamed period reused it), so the name
    // bumps to "Chart 4".
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT COUNT(*) FROM seating_periods WHERE class_id = ? AND name = ?`)).
        WithArgs(uint64(7), "Chart 3").
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT COUNT(*) FROM seating_periods WHERE class_id = ? AND name = ?`)).
        WithArgs(uint64(7), "Chart 4").
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id FROM seating_periods WHERE class_id = ? AND end_date IS NULL FOR UPDATE`)).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    mock.ExpectExec(regexp.QuoteMeta(
        `INSERT INTO seating_periods (class_id, layout_id, name, start_date, end_date, notes) VALUES (?, ?, ?, ?, NULL, ?)`)).
        WithArgs(uint64(7), uint64(3), "Chart 4", start, "").
        WillReturnResult(sqlmock.NewResult(5, 1))
    mock.ExpectCommit()

    p := &model.SeatingPeriod{ClassID: 7, LayoutID: 3, StartDate: start}
    require.NoError(t, repo.Create(context.Background(), p))
    require.Equal(t, "Chart 4", p.Name)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodCreateClosedFromStart(t *testing.T) {
    repo, mock := newMock(t)
    start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
    end := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

    // A pre-closed period must not touch the class's current period:
    // no sibling lock, no sibling close, just the insert.
    mock.ExpectBegin()
    mock.ExpectExec(regexp.QuoteMeta(
        `INSERT INTO seating_periods (class_id, layout_id, name, start_date, end_date, notes) VALUES (?, ?, ?, ?, ?, ?)`)).
        WithArgs(uint64(7), uint64(3), "September", start, end, "").
        WillReturnResult(sqlmock.NewResult(12, 1))
    mock.ExpectCommit()

    p := &model.SeatingPeriod{ClassID: 7, LayoutID: 3, Name: "September", StartDate: start, EndDate: &end}
    require.NoError(t, repo.Create(context.Background(), p))
    require.Equal(t, uint64(12), p.ID)
    require.NotNil(t, p.EndDate)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeCurrentAlreadyCurrent(t *testing.T) {
    repo, mock := newMock(t)
    today := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id FROM seating_periods WHERE class_id = ? AND end_date IS NULL FOR UPDATE`)).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
    mock.ExpectRollback()

    err := repo.MakeCurrent(context.Background(), 7, 9, today)
    require.ErrorIs(t, err, ErrAlreadyCurrent)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeCurrentSwapsInOneTransaction(t *testing.T) {
    repo, mock := newMock(t)
    today := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id FROM seating_periods WHERE class_id = ? AND end_date IS NULL FOR UPDATE`)).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
    mock.ExpectExec(regexp.QuoteMeta(
        `UPDATE seating_periods SET end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)).
        WithArgs(today, uint64(9)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta(
        `UPDATE seating_periods SET end_date = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND class_id = ?`)).
        WithArgs(uint64(4), uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    require.NoError(t, repo.MakeCurrent(context.Background(), 7, 4, today))
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseRejectsClosedPeriod(t *testing.T) {
    repo, mock := newMock(t)
    end := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
    closed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

    mock.ExpectExec(regexp.QuoteMeta(
        `UPDATE seating_periods SET end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND class_id = ? AND end_date IS NULL`)).
        WithArgs(end, uint64(4), uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id, class_id, layout_id, name, start_date, end_date, notes, created_at, updated_at FROM seating_periods WHERE id = ? AND class_id = ?`)).
        WithArgs(uint64(4), uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "layout_id", "name", "start_date", "end_date", "notes", "created_at", "updated_at"}).
            AddRow(4, 7, 3, "Chart 1", closed, closed, "", closed, closed))

    err := repo.Close(context.Background(), 7, 4, end)
    require.ErrorIs(t, err, ErrNotCurrent)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseMissingPeriod(t *testing.T) {
    repo, mock := newMock(t)
    end := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

    mock.ExpectExec(regexp.QuoteMeta(
        `UPDATE seating_periods SET end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND class_id = ? AND end_date IS NULL`)).
        WithArgs(end, uint64(99), uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id, class_id, layout_id, name, start_date, end_date, notes, created_at, updated_at FROM seating_periods WHERE id = ? AND class_id = ?`)).
        WithArgs(uint64(99), uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))

    err := repo.Close(context.Background(), 7, 99, end)
    require.ErrorIs(t, err, ErrPeriodNotFound)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviousIsReadOnly(t *testing.T) {
    repo, mock := newMock(t)
    cursor := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
    prevStart := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
    prevEnd := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

    // Navigation issues exactly one SELECT.  Any write here would be
    // an unexpected call and fail ExpectationsWereMet.
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id, class_id, layout_id, name, start_date, end_date, notes, created_at, updated_at FROM seating_periods WHERE class_id = ? AND (start_date < ? OR (start_date = ? AND id < ?)) ORDER BY start_date DESC, id DESC LIMIT 1`)).
        WithArgs(uint64(7), cursor, cursor, uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "layout_id", "name", "start_date", "end_date", "notes", "created_at", "updated_at"}).
            AddRow(4, 7, 3, "Chart 1", prevStart, prevEnd, "", prevStart, prevEnd))

    p, err := repo.Previous(context.Background(), 7, cursor, 9)
    require.NoError(t, err)
    require.Equal(t, uint64(4), p.ID)
    require.NotNil(t, p.EndDate)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextIsReadOnly(t *testing.T) {
    repo, mock := newMock(t)
    cursor := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

    // The sibling created the same day is still reachable through
    // the id half of the cursor.
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id, class_id, layout_id, name, start_date, end_date, notes, created_at, updated_at FROM seating_periods WHERE class_id = ? AND (start_date > ? OR (start_date = ? AND id > ?)) ORDER BY start_date, id LIMIT 1`)).
        WithArgs(uint64(7), cursor, cursor, uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "layout_id", "name", "start_date", "end_date", "notes", "created_at", "updated_at"}).
            AddRow(10, 7, 3, "Chart 3", cursor, nil, "", cursor, cursor))

    p, err := repo.Next(context.Background(), 7, cursor, 9)
    require.NoError(t, err)
    require.Equal(t, uint64(10), p.ID)
    require.Nil(t, p.EndDate)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextAtEndOfTimeline(t *testing.T) {
    repo, mock := newMock(t)
    cursor := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id, class_id, layout_id, name, start_date, end_date, notes, created_at, updated_at FROM seating_periods WHERE class_id = ? AND (start_date > ? OR (start_date = ? AND id > ?)) ORDER BY start_date, id LIMIT 1`)).
        WithArgs(uint64(7), cursor, cursor, uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))

    _, err := repo.Next(context.Background(), 7, cursor, 9)
    require.ErrorIs(t, err, ErrPeriodNotFound)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentByClassNone(t *testing.T) {
    repo, mock := newMock(t)

    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id, class_id, layout_id, name, start_date, end_date, notes, created_at, updated_at FROM seating_periods WHERE class_id = ? AND end_date IS NULL`)).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))

    _, err := repo.CurrentByClass(context.Background(), 7)
    require.ErrorIs(t, err, ErrNoCurrentPeriod)
    require.NoError(t, mock.ExpectationsWereMet())
}
