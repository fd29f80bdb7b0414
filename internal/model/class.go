package model

import "time"

// Class represents a course taught by one teacher.  All seating
// data (rosters, periods, assignments, partnership ratings) is
// scoped to a class, and the class to its teacher.  This struct
// corresponds to a row in the `classes` table.
//
// Fields:
//  ID         – primary key identifier.
//  TeacherID  – user ID of the owning teacher.
//  Name       – class name, e.g. "Period 3 Biology".
//  Subject    – subject taught.
//  GradeLevel – optional grade level label.
//  Description – optional free-text description.
//  CreatedAt  – timestamp when the class was created.
//  UpdatedAt  – timestamp of last update.
type Class struct {
    ID          uint64    // classes.id
    TeacherID   uint64    // classes.teacher_id
    Name        string    // classes.name
    Subject     string    // classes.subject
    GradeLevel  *string   // classes.grade_level (nullable)
    Description *string   // classes.description (nullable)
    CreatedAt   time.Time // classes.created_at
    UpdatedAt   time.Time // classes.updated_at
}
