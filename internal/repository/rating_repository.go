package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/teachdesk/classroom-seating/internal/model"
)

// ErrSelfRating is returned when a rating targets the same student
// on both sides of the pair.
var ErrSelfRating = errors.New("cannot rate a student with themselves")

// RatingRepo manages partnership ratings.  Pairs are stored in
// canonical order (lower student ID first) under a unique
// (class_id, student_a, student_b) index, so a pair has exactly one
// row no matter which order callers name the students in.
type RatingRepo struct {
    db *sql.DB
}

// NewRatingRepo constructs a RatingRepo with the given DB handle.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

const ratingColumns = `id, class_id, student_a, student_b, rating, created_by, notes, created_at, updated_at`

func scanRating(row interface{ Scan(...any) error }) (model.PartnershipRating, error) {
    var pr model.PartnershipRating
    var notes sql.NullString
    err := row.Scan(&pr.ID, &pr.ClassID, &pr.StudentA, &pr.StudentB, &pr.Rating, &pr.CreatedBy, &notes, &pr.CreatedAt, &pr.UpdatedAt)
    if err != nil {
        return pr, err
    }
    pr.Notes = notes.String
    return pr, nil
}

// Get returns the stored rating for the pair, or the neutral zero
// rating when no row exists.  Argument order does not matter.
func (r *RatingRepo) Get(ctx context.Context, classID, studentA, studentB uint64) (int, error) {
    if studentA == studentB {
        return 0, ErrSelfRating
    }
    a, b := model.CanonicalPair(studentA, studentB)
    var rating int
    err := r.db.QueryRowContext(ctx,
        `SELECT rating FROM partnership_ratings WHERE class_id = ? AND student_a = ? AND student_b = ?`,
        classID, a, b).Scan(&rating)
    if errors.Is(err, sql.ErrNoRows) {
        return model.RatingNeutral, nil
    }
    if err != nil {
        return 0, err
    }
    return rating, nil
}

// Set upserts the rating for a pair.  The pair is canonicalized
// before the write so "set(a,b)" and "set(b,a)" hit the same row.
func (r *RatingRepo) Set(ctx context.Context, pr *model.PartnershipRating) error {
    if pr.StudentA == pr.StudentB {
        return ErrSelfRating
    }
    pr.StudentA, pr.StudentB = model.CanonicalPair(pr.StudentA, pr.StudentB)
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO partnership_ratings (class_id, student_a, student_b, rating, created_by, notes)
         VALUES (?, ?, ?, ?, ?, ?)
         ON DUPLICATE KEY UPDATE rating = VALUES(rating), notes = VALUES(notes), updated_at = CURRENT_TIMESTAMP`,
        pr.ClassID, pr.StudentA, pr.StudentB, pr.Rating, pr.CreatedBy, pr.Notes)
    if err != nil {
        return err
    }
    if id, err := res.LastInsertId(); err == nil && id > 0 {
        pr.ID = uint64(id)
    }
    return nil
}

// BulkSetResult reports the outcome of one item in a bulk rating
// write.  Bulk writes are best-effort per item: a bad pair does not
// abort the rest.
type BulkSetResult struct {
    StudentA uint64 `json:"student_a"`
    StudentB uint64 `json:"student_b"`
    OK       bool   `json:"ok"`
    Error    string `json:"error,omitempty"`
}

// BulkSet applies several rating upserts, returning a per-item
// result in input order.  Both students of an item must appear in
// the enrolled set (the class's active roster); items referencing
// anyone else fail individually without touching the database.
func (r *RatingRepo) BulkSet(ctx context.Context, ratings []model.PartnershipRating, enrolled map[uint64]bool) ([]BulkSetResult, error) {
    results := make([]BulkSetResult, 0, len(ratings))
    for i := range ratings {
        pr := ratings[i]
        res := BulkSetResult{StudentA: pr.StudentA, StudentB: pr.StudentB}
        switch {
        case !model.ValidRating(pr.Rating):
            res.Error = "rating out of range"
        case pr.StudentA == pr.StudentB:
            res.Error = ErrSelfRating.Error()
        case !enrolled[pr.StudentA] || !enrolled[pr.StudentB]:
            res.Error = "student is not on this class's roster"
        default:
            if err := r.Set(ctx, &pr); err != nil {
                res.Error = err.Error()
            } else {
                res.OK = true
            }
        }
        results = append(results, res)
    }
    return results, nil
}

// ListByClass returns all stored ratings for the class, canonical
// pair order.
func (r *RatingRepo) ListByClass(ctx context.Context, classID uint64) ([]model.PartnershipRating, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+ratingColumns+` FROM partnership_ratings WHERE class_id = ? ORDER BY student_a, student_b`,
        classID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.PartnershipRating, 0)
    for rows.Next() {
        pr, err := scanRating(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, pr)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// PairMap returns the class's ratings keyed by canonical pair, the
// shape the chart generator consumes.  Pairs without a row are
// simply absent and read as neutral.
func (r *RatingRepo) PairMap(ctx context.Context, classID uint64) (map[[2]uint64]int, error) {
    ratings, err := r.ListByClass(ctx, classID)
    if err != nil {
        return nil, err
    }
    out := make(map[[2]uint64]int, len(ratings))
    for _, pr := range ratings {
        out[[2]uint64{pr.StudentA, pr.StudentB}] = pr.Rating
    }
    return out, nil
}

// Grid materializes the full symmetric rating matrix over the
// class's active roster.  Missing pairs read as the neutral zero;
// the diagonal is omitted.
func (r *RatingRepo) Grid(ctx context.Context, classID uint64, studentIDs []uint64) (map[uint64]map[uint64]int, error) {
    pairs, err := r.PairMap(ctx, classID)
    if err != nil {
        return nil, err
    }
    grid := make(map[uint64]map[uint64]int, len(studentIDs))
    for _, id := range studentIDs {
        grid[id] = make(map[uint64]int, len(studentIDs)-1)
    }
    for _, a := range studentIDs {
        for _, b := range studentIDs {
            if a >= b {
                continue
            }
            rating := pairs[[2]uint64{a, b}]
            grid[a][b] = rating
            grid[b][a] = rating
        }
    }
    return grid, nil
}

// Delete removes the stored rating for a pair, reverting it to the
// neutral default.
func (r *RatingRepo) Delete(ctx context.Context, classID, studentA, studentB uint64) error {
    a, b := model.CanonicalPair(studentA, studentB)
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM partnership_ratings WHERE class_id = ? AND student_a = ? AND student_b = ?`,
        classID, a, b)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
