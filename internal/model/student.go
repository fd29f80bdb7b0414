package model

import "time"

// Student represents a student record independent of any class.
// Students are linked to classes through roster entries, never
// directly.  This struct corresponds to a row in the `students`
// table.
//
// Fields:
//  ID          – primary key identifier.
//  StudentCode – school-issued identifier, unique across students.
//  FirstName   – given name.
//  LastName    – family name.
//  Email       – optional contact email.
//  IsActive    – whether the student is active school-wide.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Student struct {
    ID          uint64    // students.id
    StudentCode string    // students.student_code
    FirstName   string    // students.first_name
    LastName    string    // students.last_name
    Email       *string   // students.email (nullable)
    IsActive    bool      // students.is_active
    CreatedAt   time.Time // students.created_at
    UpdatedAt   time.Time // students.updated_at
}

// FullName returns the display name used in seating charts and
// partnership views.
func (s *Student) FullName() string {
    return s.FirstName + " " + s.LastName
}
