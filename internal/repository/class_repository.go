package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/teachdesk/classroom-seating/internal/model"
)

// ErrClassNotFound is returned when a class lookup yields no rows
// for the requesting teacher.
var ErrClassNotFound = errors.New("class not found")

// ClassRepo provides data access for classes.  Every query is
// scoped by teacher_id so one teacher can never read or mutate
// another teacher's classes; the authorization boundary lives
// here, not in the seating core.
type ClassRepo struct {
    db *sql.DB
}

// NewClassRepo constructs a ClassRepo with the given DB handle.
func NewClassRepo(db *sql.DB) *ClassRepo { return &ClassRepo{db: db} }

const classColumns = `id, teacher_id, name, subject, grade_level, description, created_at, updated_at`

func scanClass(row interface{ Scan(...any) error }) (model.Class, error) {
    var c model.Class
    var grade, desc sql.NullString
    err := row.Scan(&c.ID, &c.TeacherID, &c.Name, &c.Subject, &grade, &desc, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return c, err
    }
    if grade.Valid {
        g := grade.String
        c.GradeLevel = &g
    }
    if desc.Valid {
        d := desc.String
        c.Description = &d
    }
    return c, nil
}

// Create inserts a class record. On success the class's ID is populated.
func (r *ClassRepo) Create(ctx context.Context, c *model.Class) error {
    var grade, desc any
    if c.GradeLevel != nil {
        grade = *c.GradeLevel
    }
    if c.Description != nil {
        desc = *c.Description
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO classes (teacher_id, name, subject, grade_level, description) VALUES (?, ?, ?, ?, ?)`,
        c.TeacherID, strings.TrimSpace(c.Name), strings.TrimSpace(c.Subject), grade, desc)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return nil
}

// GetByIDAndTeacher retrieves a class while enforcing ownership.
func (r *ClassRepo) GetByIDAndTeacher(ctx context.Context, id, teacherID uint64) (*model.Class, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+classColumns+` FROM classes WHERE id = ? AND teacher_id = ?`, id, teacherID)
    c, err := scanClass(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrClassNotFound
        }
        return nil, err
    }
    return &c, nil
}

// ListByTeacher returns all classes owned by a teacher ordered by name.
func (r *ClassRepo) ListByTeacher(ctx context.Context, teacherID uint64) ([]model.Class, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+classColumns+` FROM classes WHERE teacher_id = ? ORDER BY name`, teacherID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.Class, 0)
    for rows.Next() {
        c, err := scanClass(rows)
        if err != nil {
            return nil, err
        }
        result = append(result, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// Update persists name/subject/grade/description changes.
// Returns ErrClassNotFound when no row matched the id and teacher.
func (r *ClassRepo) Update(ctx context.Context, c *model.Class) error {
    var grade, desc any
    if c.GradeLevel != nil {
        grade = *c.GradeLevel
    }
    if c.Description != nil {
        desc = *c.Description
    }
    res, err := r.db.ExecContext(ctx,
        `UPDATE classes SET name = ?, subject = ?, grade_level = ?, description = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND teacher_id = ?`,
        strings.TrimSpace(c.Name), strings.TrimSpace(c.Subject), grade, desc, c.ID, c.TeacherID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrClassNotFound
    }
    return nil
}

// Delete removes a class. Classes that still have seating periods
// cannot be deleted; the caller gets ErrConflict and must delete
// the periods first.
func (r *ClassRepo) Delete(ctx context.Context, id, teacherID uint64) error {
    var periods int
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM seating_periods WHERE class_id = ?`, id).Scan(&periods)
    if err != nil {
        return err
    }
    if periods > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM classes WHERE id = ? AND teacher_id = ?`, id, teacherID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrClassNotFound
    }
    return nil
}
