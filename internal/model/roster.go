package model

import "time"

// RosterEntry links one student to one class for an enrollment
// span.  Seating assignments reference the roster entry rather
// than the student so a student's seating history in a class
// survives re-enrollment edge cases and is naturally scoped per
// class.  Exactly one entry may exist per (class, student) pair.
//
// Fields:
//  ID             – primary key identifier.
//  ClassID        – class the student is enrolled in.
//  StudentID      – the enrolled student.
//  IsActive       – whether the enrollment is active.
//  EnrollmentDate – date the student joined the class.
//  Notes          – teacher notes about this student in this class.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type RosterEntry struct {
    ID             uint64    // class_roster.id
    ClassID        uint64    // class_roster.class_id
    StudentID      uint64    // class_roster.student_id
    IsActive       bool      // class_roster.is_active
    EnrollmentDate time.Time // class_roster.enrollment_date
    Notes          string    // class_roster.notes
    CreatedAt      time.Time // class_roster.created_at
    UpdatedAt      time.Time // class_roster.updated_at
}
