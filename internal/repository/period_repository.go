package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/teachdesk/classroom-seating/internal/model"
)

// ErrPeriodNotFound is returned when a seating period lookup yields
// no rows.
var ErrPeriodNotFound = errors.New("seating period not found")

// ErrNoCurrentPeriod is returned when a class has no period with a
// NULL end date.
var ErrNoCurrentPeriod = errors.New("class has no current seating period")

// ErrAlreadyCurrent is returned by MakeCurrent when the period's end
// date is already NULL.
var ErrAlreadyCurrent = errors.New("seating period is already current")

// ErrNotCurrent is returned by Close when the period already has an
// end date.
var ErrNotCurrent = errors.New("seating period is not current")

// ErrPeriodNameExists is returned when a period name collides within
// a class.
var ErrPeriodNameExists = errors.New("seating period name already exists in class")

// PeriodRepo manages seating periods.  The one invariant it guards
// with transactions is that at most one period per class has a NULL
// end date; every write that could open a second current period
// locks and closes the sibling first.
type PeriodRepo struct {
    db *sql.DB
}

// NewPeriodRepo constructs a PeriodRepo with the given DB handle.
func NewPeriodRepo(db *sql.DB) *PeriodRepo { return &PeriodRepo{db: db} }

const periodColumns = `id, class_id, layout_id, name, start_date, end_date, notes, created_at, updated_at`

func scanPeriod(row interface{ Scan(...any) error }) (model.SeatingPeriod, error) {
    var p model.SeatingPeriod
    var end sql.NullTime
    var notes sql.NullString
    err := row.Scan(&p.ID, &p.ClassID, &p.LayoutID, &p.Name, &p.StartDate, &end, &notes, &p.CreatedAt, &p.UpdatedAt)
    if err != nil {
        return p, err
    }
    if end.Valid {
        t := end.Time
        p.EndDate = &t
    }
    p.Notes = notes.String
    return p, nil
}

// Create inserts a new period for the class.  Without an end date
// the period opens as current: inside one transaction the class's
// current period is locked and closed with the new period's start
// date, so the class never has two current periods.  With an end
// date the period is created already closed and the current period
// is left alone.  A blank name is replaced with "Chart {n}" where n
// is one past the class's period count.
func (r *PeriodRepo) Create(ctx context.Context, p *model.SeatingPeriod) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    if strings.TrimSpace(p.Name) == "" {
        var n int
        err := tx.QueryRowContext(ctx,
            `SELECT COUNT(*) FROM seating_periods WHERE class_id = ?`, p.ClassID).Scan(&n)
        if err != nil {
            return err
        }
        // Count+1 can collide after deletes or renames; bump until
        // the name is free.
        for n++; ; n++ {
            var taken int
            err := tx.QueryRowContext(ctx,
                `SELECT COUNT(*) FROM seating_periods WHERE class_id = ? AND name = ?`,
                p.ClassID, fmt.Sprintf("Chart %d", n)).Scan(&taken)
            if err != nil {
                return err
            }
            if taken == 0 {
                break
            }
        }
        p.Name = fmt.Sprintf("Chart %d", n)
    }

    var res sql.Result
    if p.EndDate != nil {
        // A pre-closed period goes straight into history.
        res, err = tx.ExecContext(ctx,
            `INSERT INTO seating_periods (class_id, layout_id, name, start_date, end_date, notes)
             VALUES (?, ?, ?, ?, ?, ?)`,
            p.ClassID, p.LayoutID, p.Name, p.StartDate, *p.EndDate, p.Notes)
    } else {
        // Lock the sibling current row so concurrent creates
        // serialize on it and cannot both leave their row open.
        var currentID uint64
        err = tx.QueryRowContext(ctx,
            `SELECT id FROM seating_periods WHERE class_id = ? AND end_date IS NULL FOR UPDATE`,
            p.ClassID).Scan(&currentID)
        switch {
        case errors.Is(err, sql.ErrNoRows):
            // First period for the class.
        case err != nil:
            return err
        default:
            if _, err := tx.ExecContext(ctx,
                `UPDATE seating_periods SET end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
                p.StartDate, currentID); err != nil {
                return err
            }
        }

        res, err = tx.ExecContext(ctx,
            `INSERT INTO seating_periods (class_id, layout_id, name, start_date, end_date, notes)
             VALUES (?, ?, ?, ?, NULL, ?)`,
            p.ClassID, p.LayoutID, p.Name, p.StartDate, p.Notes)
    }
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrPeriodNameExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return tx.Commit()
}

// GetByID retrieves a period scoped to a class.
func (r *PeriodRepo) GetByID(ctx context.Context, classID, periodID uint64) (*model.SeatingPeriod, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+periodColumns+` FROM seating_periods WHERE id = ? AND class_id = ?`,
        periodID, classID)
    p, err := scanPeriod(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrPeriodNotFound
        }
        return nil, err
    }
    return &p, nil
}

// CurrentByClass returns the class's period whose end date is NULL.
func (r *PeriodRepo) CurrentByClass(ctx context.Context, classID uint64) (*model.SeatingPeriod, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+periodColumns+` FROM seating_periods WHERE class_id = ? AND end_date IS NULL`,
        classID)
    p, err := scanPeriod(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNoCurrentPeriod
        }
        return nil, err
    }
    return &p, nil
}

// ListByClass returns the class's periods ordered by start date,
// newest first.  The current period, having no end date, sorts
// first when start dates tie.
func (r *PeriodRepo) ListByClass(ctx context.Context, classID uint64) ([]model.SeatingPeriod, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+periodColumns+` FROM seating_periods WHERE class_id = ?
         ORDER BY start_date DESC, (end_date IS NULL) DESC, id DESC`, classID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.SeatingPeriod, 0)
    for rows.Next() {
        p, err := scanPeriod(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// MakeCurrent reopens a historical period.  Inside one transaction
// it locks and closes the class's current period with today's date,
// then nulls the target's end date.  Returns ErrAlreadyCurrent when
// the target is already the current period.
func (r *PeriodRepo) MakeCurrent(ctx context.Context, classID, periodID uint64, today time.Time) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    var currentID uint64
    err = tx.QueryRowContext(ctx,
        `SELECT id FROM seating_periods WHERE class_id = ? AND end_date IS NULL FOR UPDATE`,
        classID).Scan(&currentID)
    switch {
    case errors.Is(err, sql.ErrNoRows):
        // No current period to close.
    case err != nil:
        return err
    case currentID == periodID:
        return ErrAlreadyCurrent
    default:
        if _, err := tx.ExecContext(ctx,
            `UPDATE seating_periods SET end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
            today, currentID); err != nil {
            return err
        }
    }

    res, err := tx.ExecContext(ctx,
        `UPDATE seating_periods SET end_date = NULL, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND class_id = ?`, periodID, classID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrPeriodNotFound
    }
    return tx.Commit()
}

// Close ends the period on the given date.  Only a current period
// can be closed; closing a period that already has an end date
// returns ErrNotCurrent.
func (r *PeriodRepo) Close(ctx context.Context, classID, periodID uint64, endDate time.Time) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE seating_periods SET end_date = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND class_id = ? AND end_date IS NULL`,
        endDate, periodID, classID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        if _, err := r.GetByID(ctx, classID, periodID); err != nil {
            return err
        }
        return ErrNotCurrent
    }
    return nil
}

// Previous returns the period that precedes the given one in the
// class's timeline, ordered by (start date, id) so periods sharing a
// start date stay reachable.  Pure navigation; no state changes.
func (r *PeriodRepo) Previous(ctx context.Context, classID uint64, before time.Time, beforeID uint64) (*model.SeatingPeriod, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+periodColumns+` FROM seating_periods
         WHERE class_id = ? AND (start_date < ? OR (start_date = ? AND id < ?))
         ORDER BY start_date DESC, id DESC LIMIT 1`, classID, before, before, beforeID)
    p, err := scanPeriod(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrPeriodNotFound
        }
        return nil, err
    }
    return &p, nil
}

// Next returns the period that follows the given one in the class's
// timeline.
func (r *PeriodRepo) Next(ctx context.Context, classID uint64, after time.Time, afterID uint64) (*model.SeatingPeriod, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+periodColumns+` FROM seating_periods
         WHERE class_id = ? AND (start_date > ? OR (start_date = ? AND id > ?))
         ORDER BY start_date, id LIMIT 1`, classID, after, after, afterID)
    p, err := scanPeriod(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrPeriodNotFound
        }
        return nil, err
    }
    return &p, nil
}

// Update persists name and notes changes to a period.
func (r *PeriodRepo) Update(ctx context.Context, p *model.SeatingPeriod) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE seating_periods SET name = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND class_id = ?`,
        p.Name, p.Notes, p.ID, p.ClassID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrPeriodNameExists
        }
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrPeriodNotFound
    }
    return nil
}

// Delete removes a period and its assignments in one transaction.
func (r *PeriodRepo) Delete(ctx context.Context, classID, periodID uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    if _, err := tx.ExecContext(ctx,
        `DELETE FROM seating_assignments WHERE period_id = ?`, periodID); err != nil {
        return err
    }
    res, err := tx.ExecContext(ctx,
        `DELETE FROM seating_periods WHERE id = ? AND class_id = ?`, periodID, classID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrPeriodNotFound
    }
    return tx.Commit()
}
