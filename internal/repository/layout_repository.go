package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/seating"
)

// ErrLayoutNotFound is returned when a layout lookup yields no rows.
var ErrLayoutNotFound = errors.New("layout not found")

// ErrLayoutInUse is returned when deleting a layout that is
// referenced by one or more seating periods.
var ErrLayoutInUse = errors.New("layout is referenced by seating periods")

// ErrTableNotFound is returned when a table lookup yields no rows.
var ErrTableNotFound = errors.New("table not found")

// ErrTableNumberExists is returned when a table number collides
// within a layout.
var ErrTableNumberExists = errors.New("table number already exists in layout")

// ErrSeatNumberExists is returned when a seat number collides within
// a table.
var ErrSeatNumberExists = errors.New("seat number already exists at table")

// LayoutRepo provides data access for classroom layouts and their
// tables, seats and obstacles.  A layout is readable by its creator
// and, when flagged as a template, by every teacher; it is writable
// only by its creator.
type LayoutRepo struct {
    db *sql.DB
}

// NewLayoutRepo constructs a LayoutRepo with the given DB handle.
func NewLayoutRepo(db *sql.DB) *LayoutRepo { return &LayoutRepo{db: db} }

const layoutColumns = `id, created_by, name, description, room_width, room_height, is_template, is_deleted, created_at, updated_at`

func scanLayout(row interface{ Scan(...any) error }) (model.Layout, error) {
    var l model.Layout
    var desc sql.NullString
    err := row.Scan(&l.ID, &l.CreatedBy, &l.Name, &desc, &l.RoomWidth, &l.RoomHeight, &l.IsTemplate, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt)
    if err != nil {
        return l, err
    }
    l.Description = desc.String
    return l, nil
}

// Create inserts a layout. On success the layout's ID is populated.
func (r *LayoutRepo) Create(ctx context.Context, l *model.Layout) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO classroom_layouts (created_by, name, description, room_width, room_height, is_template)
         VALUES (?, ?, ?, ?, ?, ?)`,
        l.CreatedBy, strings.TrimSpace(l.Name), l.Description, l.RoomWidth, l.RoomHeight, l.IsTemplate)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    l.ID = uint64(id)
    return nil
}

// GetByID retrieves a non-deleted layout readable by the user: the
// user must be its creator or the layout must be a template.
func (r *LayoutRepo) GetByID(ctx context.Context, layoutID, userID uint64) (*model.Layout, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+layoutColumns+` FROM classroom_layouts
         WHERE id = ? AND is_deleted = 0 AND (created_by = ? OR is_template = 1)`,
        layoutID, userID)
    l, err := scanLayout(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrLayoutNotFound
        }
        return nil, err
    }
    return &l, nil
}

// ListVisible returns the user's own layouts plus shared templates,
// newest first, excluding soft-deleted ones.
func (r *LayoutRepo) ListVisible(ctx context.Context, userID uint64) ([]model.Layout, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+layoutColumns+` FROM classroom_layouts
         WHERE is_deleted = 0 AND (created_by = ? OR is_template = 1)
         ORDER BY created_at DESC, id DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.Layout, 0)
    for rows.Next() {
        l, err := scanLayout(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// Update persists changes to a layout owned by the user.
func (r *LayoutRepo) Update(ctx context.Context, l *model.Layout, userID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE classroom_layouts SET name = ?, description = ?, room_width = ?, room_height = ?, is_template = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND created_by = ? AND is_deleted = 0`,
        strings.TrimSpace(l.Name), l.Description, l.RoomWidth, l.RoomHeight, l.IsTemplate, l.ID, userID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrLayoutNotFound
    }
    return nil
}

// Delete soft-deletes a layout owned by the user.  A layout
// referenced by any seating period stays visible through those
// periods and may only be hidden, never removed, so the delete maps
// to ErrLayoutInUse and callers can surface that distinction.
func (r *LayoutRepo) Delete(ctx context.Context, layoutID, userID uint64) error {
    var n int
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM seating_periods WHERE layout_id = ?`, layoutID).Scan(&n)
    if err != nil {
        return err
    }
    if n > 0 {
        return ErrLayoutInUse
    }
    res, err := r.db.ExecContext(ctx,
        `UPDATE classroom_layouts SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND created_by = ? AND is_deleted = 0`, layoutID, userID)
    if err != nil {
        return err
    }
    if affected, _ := res.RowsAffected(); affected == 0 {
        return ErrLayoutNotFound
    }
    return nil
}

// CreateTable inserts a table into a layout.  The unique
// (layout_id, table_number) index maps duplicates to
// ErrTableNumberExists.
func (r *LayoutRepo) CreateTable(ctx context.Context, t *model.Table) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO classroom_tables (layout_id, table_number, table_name, x_position, y_position, width, height, shape, rotation, max_seats)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        t.LayoutID, t.TableNumber, t.Name, t.X, t.Y, t.Width, t.Height, t.Shape, t.Rotation, t.MaxSeats)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrTableNumberExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

const tableColumns = `id, layout_id, table_number, table_name, x_position, y_position, width, height, shape, rotation, max_seats`

func scanTable(row interface{ Scan(...any) error }) (model.Table, error) {
    var t model.Table
    var name sql.NullString
    err := row.Scan(&t.ID, &t.LayoutID, &t.TableNumber, &name, &t.X, &t.Y, &t.Width, &t.Height, &t.Shape, &t.Rotation, &t.MaxSeats)
    if err != nil {
        return t, err
    }
    t.Name = name.String
    return t, nil
}

// ListTables returns a layout's tables ordered by table number.
func (r *LayoutRepo) ListTables(ctx context.Context, layoutID uint64) ([]model.Table, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+tableColumns+` FROM classroom_tables WHERE layout_id = ? ORDER BY table_number`, layoutID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.Table, 0)
    for rows.Next() {
        t, err := scanTable(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// UpdateTable persists geometry and label changes to a table.
func (r *LayoutRepo) UpdateTable(ctx context.Context, t *model.Table) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE classroom_tables SET table_name = ?, x_position = ?, y_position = ?, width = ?, height = ?, shape = ?, rotation = ?, max_seats = ?
         WHERE id = ? AND layout_id = ?`,
        t.Name, t.X, t.Y, t.Width, t.Height, t.Shape, t.Rotation, t.MaxSeats, t.ID, t.LayoutID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrTableNotFound
    }
    return nil
}

// DeleteTable removes a table and its seats.
func (r *LayoutRepo) DeleteTable(ctx context.Context, layoutID, tableID uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    if _, err := tx.ExecContext(ctx, `DELETE FROM table_seats WHERE table_id = ?`, tableID); err != nil {
        return err
    }
    res, err := tx.ExecContext(ctx,
        `DELETE FROM classroom_tables WHERE id = ? AND layout_id = ?`, tableID, layoutID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrTableNotFound
    }
    return tx.Commit()
}

// CreateSeatsBulk inserts several seats at a table in one
// transaction.  Seat IDs are populated on success.
func (r *LayoutRepo) CreateSeatsBulk(ctx context.Context, tableID uint64, seats []model.Seat) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    for i := range seats {
        res, err := tx.ExecContext(ctx,
            `INSERT INTO table_seats (table_id, seat_number, relative_x, relative_y, is_accessible, notes)
             VALUES (?, ?, ?, ?, ?, ?)`,
            tableID, seats[i].SeatNumber, seats[i].RelativeX, seats[i].RelativeY, seats[i].IsAccessible, seats[i].Notes)
        if err != nil {
            if strings.Contains(strings.ToLower(err.Error()), "1062") {
                return ErrSeatNumberExists
            }
            return err
        }
        id, err := res.LastInsertId()
        if err != nil {
            return err
        }
        seats[i].ID = uint64(id)
        seats[i].TableID = tableID
    }
    return tx.Commit()
}

const seatColumns = `id, table_id, seat_number, relative_x, relative_y, is_accessible, notes`

func scanSeat(row interface{ Scan(...any) error }) (model.Seat, error) {
    var s model.Seat
    var notes sql.NullString
    err := row.Scan(&s.ID, &s.TableID, &s.SeatNumber, &s.RelativeX, &s.RelativeY, &s.IsAccessible, &notes)
    if err != nil {
        return s, err
    }
    s.Notes = notes.String
    return s, nil
}

// ListSeats returns a table's seats ordered by seat number.
func (r *LayoutRepo) ListSeats(ctx context.Context, tableID uint64) ([]model.Seat, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+seatColumns+` FROM table_seats WHERE table_id = ? ORDER BY seat_number`, tableID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.Seat, 0)
    for rows.Next() {
        s, err := scanSeat(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// DeleteSeat removes one seat from a table.
func (r *LayoutRepo) DeleteSeat(ctx context.Context, tableID, seatID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM table_seats WHERE id = ? AND table_id = ?`, seatID, tableID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// SeatExists reports whether the layout contains the seat named by
// ref, i.e. a table with ref's table number holding a seat with
// ref's seat number.
func (r *LayoutRepo) SeatExists(ctx context.Context, layoutID uint64, ref seating.SeatRef) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx,
        `SELECT 1 FROM table_seats ts
         JOIN classroom_tables ct ON ct.id = ts.table_id
         WHERE ct.layout_id = ? AND ct.table_number = ? AND ts.seat_number = ?`,
        layoutID, ref.Table, ref.Seat).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// ListSeatRefs returns every seat in the layout as a composite seat
// reference, ordered by table then seat number.  The chart generator
// consumes this as its slot list.
func (r *LayoutRepo) ListSeatRefs(ctx context.Context, layoutID uint64) ([]seating.SeatRef, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT ct.table_number, ts.seat_number FROM table_seats ts
         JOIN classroom_tables ct ON ct.id = ts.table_id
         WHERE ct.layout_id = ?
         ORDER BY ct.table_number, ts.seat_number`, layoutID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    refs := make([]seating.SeatRef, 0)
    for rows.Next() {
        var ref seating.SeatRef
        if err := rows.Scan(&ref.Table, &ref.Seat); err != nil {
            return nil, err
        }
        refs = append(refs, ref)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return refs, nil
}

// CreateObstacle inserts an obstacle into a layout.
func (r *LayoutRepo) CreateObstacle(ctx context.Context, o *model.Obstacle) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO layout_obstacles (layout_id, name, obstacle_type, x_position, y_position, width, height, color)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
        o.LayoutID, o.Name, o.Type, o.X, o.Y, o.Width, o.Height, o.Color)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    return nil
}

// ListObstacles returns a layout's obstacles.
func (r *LayoutRepo) ListObstacles(ctx context.Context, layoutID uint64) ([]model.Obstacle, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, layout_id, name, obstacle_type, x_position, y_position, width, height, color
         FROM layout_obstacles WHERE layout_id = ? ORDER BY id`, layoutID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.Obstacle, 0)
    for rows.Next() {
        var o model.Obstacle
        var color sql.NullString
        if err := rows.Scan(&o.ID, &o.LayoutID, &o.Name, &o.Type, &o.X, &o.Y, &o.Width, &o.Height, &color); err != nil {
            return nil, err
        }
        o.Color = color.String
        result = append(result, o)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// DeleteObstacle removes an obstacle from a layout.
func (r *LayoutRepo) DeleteObstacle(ctx context.Context, layoutID, obstacleID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM layout_obstacles WHERE id = ? AND layout_id = ?`, obstacleID, layoutID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
