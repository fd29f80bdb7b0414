package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/teachdesk/classroom-seating/internal/model"
)

// ErrStudentNotFound is returned when a student lookup yields no rows.
var ErrStudentNotFound = errors.New("student not found")

// ErrStudentCodeExists is returned when creating a student with a
// code that is already taken.
var ErrStudentCodeExists = errors.New("student code already exists")

// StudentRepo provides data access for school-wide student records.
// Students are not owned by a teacher; ownership applies to the
// roster entries that link students into classes.
type StudentRepo struct {
    db *sql.DB
}

// NewStudentRepo constructs a StudentRepo with the given DB handle.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

const studentColumns = `id, student_code, first_name, last_name, email, is_active, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (model.Student, error) {
    var s model.Student
    var email sql.NullString
    err := row.Scan(&s.ID, &s.StudentCode, &s.FirstName, &s.LastName, &email, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        return s, err
    }
    if email.Valid {
        e := email.String
        s.Email = &e
    }
    return s, nil
}

// Create inserts a student record. On success the student's ID is populated.
func (r *StudentRepo) Create(ctx context.Context, s *model.Student) error {
    var email any
    if s.Email != nil {
        email = *s.Email
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO students (student_code, first_name, last_name, email) VALUES (?, ?, ?, ?)`,
        strings.TrimSpace(s.StudentCode), strings.TrimSpace(s.FirstName), strings.TrimSpace(s.LastName), email)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrStudentCodeExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// GetByID retrieves a student by its id.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (*model.Student, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
    s, err := scanStudent(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrStudentNotFound
        }
        return nil, err
    }
    return &s, nil
}

// List returns students ordered by last then first name.  Use the
// activeOnly flag to exclude students who left the school.
func (r *StudentRepo) List(ctx context.Context, activeOnly bool) ([]model.Student, error) {
    q := `SELECT ` + studentColumns + ` FROM students`
    if activeOnly {
        q += ` WHERE is_active = 1`
    }
    q += ` ORDER BY last_name, first_name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    result := make([]model.Student, 0)
    for rows.Next() {
        s, err := scanStudent(rows)
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

// Update persists name/email/active changes to a student.
func (r *StudentRepo) Update(ctx context.Context, s *model.Student) error {
    var email any
    if s.Email != nil {
        email = *s.Email
    }
    res, err := r.db.ExecContext(ctx,
        `UPDATE students SET first_name = ?, last_name = ?, email = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ?`,
        strings.TrimSpace(s.FirstName), strings.TrimSpace(s.LastName), email, s.IsActive, s.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrStudentNotFound
    }
    return nil
}
