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

func newRatingMock(t *testing.T) (*RatingRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewRatingRepo(db), mock
}

const ratingUpsert = `INSERT INTO partnership_ratings (class_id, student_a, student_b, rating, created_by, notes) VALUES (?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE rating = VALUES(rating), notes = VALUES(notes), updated_at = CURRENT_TIMESTAMP`

func TestRatingSetCanonicalizesPair(t *testing.T) {
    repo, mock := newRatingMock(t)

    // Student IDs arrive high-first; the row must store low-first.
    mock.ExpectExec(regexp.QuoteMeta(ratingUpsert)).
        WithArgs(uint64(7), uint64(11), uint64(30), 2, uint64(1), "").
        WillReturnResult(sqlmock.NewResult(8, 1))

    pr := &model.PartnershipRating{ClassID: 7, StudentA: 30, StudentB: 11, Rating: 2, CreatedBy: 1}
    require.NoError(t, repo.Set(context.Background(), pr))
    require.Equal(t, uint64(11), pr.StudentA)
    require.Equal(t, uint64(30), pr.StudentB)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingSetRejectsSelfPair(t *testing.T) {
    repo, _ := newRatingMock(t)

    pr := &model.PartnershipRating{ClassID: 7, StudentA: 5, StudentB: 5, Rating: 1}
    require.ErrorIs(t, repo.Set(context.Background(), pr), ErrSelfRating)
}

func TestRatingGetSymmetric(t *testing.T) {
    repo, mock := newRatingMock(t)

    // Both argument orders must query the same canonical row.
    for i := 0; i < 2; i++ {
        mock.ExpectQuery(regexp.QuoteMeta(
            `SELECT rating FROM partnership_ratings WHERE class_id = ? AND student_a = ? AND student_b = ?`)).
            WithArgs(uint64(7), uint64(11), uint64(30)).
            WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(-2))
    }

    got, err := repo.Get(context.Background(), 7, 11, 30)
    require.NoError(t, err)
    require.Equal(t, -2, got)

    got, err = repo.Get(context.Background(), 7, 30, 11)
    require.NoError(t, err)
    require.Equal(t, -2, got)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingGetDefaultsToNeutral(t *testing.T) {
    repo, mock := newRatingMock(t)

    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT rating FROM partnership_ratings WHERE class_id = ? AND student_a = ? AND student_b = ?`)).
        WithArgs(uint64(7), uint64(1), uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"rating"}))

    got, err := repo.Get(context.Background(), 7, 1, 2)
    require.NoError(t, err)
    require.Equal(t, model.RatingNeutral, got)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingBulkSetPerItemResults(t *testing.T) {
    repo, mock := newRatingMock(t)

    // Only the valid middle item reaches the database.
    mock.ExpectExec(regexp.QuoteMeta(ratingUpsert)).
        WithArgs(uint64(7), uint64(2), uint64(3), 1, uint64(0), "").
        WillReturnResult(sqlmock.NewResult(1, 1))

    enrolled := map[uint64]bool{1: true, 2: true, 3: true, 4: true}
    results, err := repo.BulkSet(context.Background(), []model.PartnershipRating{
        {ClassID: 7, StudentA: 1, StudentB: 2, Rating: 5},
        {ClassID: 7, StudentA: 3, StudentB: 2, Rating: 1},
        {ClassID: 7, StudentA: 4, StudentB: 4, Rating: 0},
    }, enrolled)
    require.NoError(t, err)
    require.Len(t, results, 3)
    require.False(t, results[0].OK)
    require.Equal(t, "rating out of range", results[0].Error)
    require.True(t, results[1].OK)
    require.False(t, results[2].OK)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingBulkSetRejectsUnenrolledStudents(t *testing.T) {
    repo, mock := newRatingMock(t)

    // Item two pairs two students who were never enrolled in the
    // class; it must fail on its own while item one still persists.
    mock.ExpectExec(regexp.QuoteMeta(ratingUpsert)).
        WithArgs(uint64(7), uint64(1), uint64(2), 1, uint64(0), "").
        WillReturnResult(sqlmock.NewResult(1, 1))

    enrolled := map[uint64]bool{1: true, 2: true}
    results, err := repo.BulkSet(context.Background(), []model.PartnershipRating{
        {ClassID: 7, StudentA: 1, StudentB: 2, Rating: 1},
        {ClassID: 7, StudentA: 500, StudentB: 501, Rating: 1},
        {ClassID: 7, StudentA: 1, StudentB: 501, Rating: 1},
    }, enrolled)
    require.NoError(t, err)
    require.Len(t, results, 3)
    require.True(t, results[0].OK)
    require.False(t, results[1].OK)
    require.Equal(t, "student is not on this class's roster", results[1].Error)
    require.False(t, results[2].OK)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingGridFillsNeutral(t *testing.T) {
    repo, mock := newRatingMock(t)

    now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
    mock.ExpectQuery(regexp.QuoteMeta(
        `SELECT id, class_id, student_a, student_b, rating, created_by, notes, created_at, updated_at FROM partnership_ratings WHERE class_id = ? ORDER BY student_a, student_b`)).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "student_a", "student_b", "rating", "created_by", "notes", "created_at", "updated_at"}).
            AddRow(1, 7, 1, 2, 2, 1, "", now, now))

    grid, err := repo.Grid(context.Background(), 7, []uint64{1, 2, 3})
    require.NoError(t, err)
    require.Equal(t, 2, grid[1][2])
    require.Equal(t, 2, grid[2][1])
    require.Equal(t, 0, grid[1][3])
    require.Equal(t, 0, grid[3][2])
    _, hasSelf := grid[1][1]
    require.False(t, hasSelf)
    require.NoError(t, mock.ExpectationsWereMet())
}
