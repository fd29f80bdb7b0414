package model

import "time"

// Rating scale for partnership ratings.  The zero value is the
// implicit default for any pair with no stored row.
const (
    RatingNeverPair = -2 // hard constraint: never seat together
    RatingAvoid     = -1
    RatingNeutral   = 0
    RatingGood      = 1
    RatingBest      = 2
)

// PartnershipRating is a teacher-declared, symmetric preference
// score for seating two specific students together in a class.
// The two student IDs are stored in canonical order (lower first)
// so the pair is unique regardless of argument order; the write
// path canonicalizes before upsert.
//
// Fields:
//  ID        – primary key identifier.
//  ClassID   – class the rating applies to.
//  StudentA  – lower student ID of the pair.
//  StudentB  – higher student ID of the pair.
//  Rating    – integer in [-2, 2].
//  CreatedBy – teacher who set the rating.
//  Notes     – optional rationale.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type PartnershipRating struct {
    ID        uint64    // partnership_ratings.id
    ClassID   uint64    // partnership_ratings.class_id
    StudentA  uint64    // partnership_ratings.student_a
    StudentB  uint64    // partnership_ratings.student_b
    Rating    int       // partnership_ratings.rating
    CreatedBy uint64    // partnership_ratings.created_by
    Notes     string    // partnership_ratings.notes
    CreatedAt time.Time // partnership_ratings.created_at
    UpdatedAt time.Time // partnership_ratings.updated_at
}

// CanonicalPair returns the two student IDs in canonical storage
// order (lower first).
func CanonicalPair(a, b uint64) (uint64, uint64) {
    if a > b {
        return b, a
    }
    return a, b
}

// ValidRating reports whether r is within the allowed closed range.
func ValidRating(r int) bool {
    return r >= RatingNeverPair && r <= RatingBest
}
