package model

import "time"

// Group roles a student can hold within a table group.  Stored as
// strings in the `group_role` column; empty means no role.
const (
    GroupRoleLeader     = "leader"
    GroupRoleSecretary  = "secretary"
    GroupRolePresenter  = "presenter"
    GroupRoleResearcher = "researcher"
    GroupRoleMember     = "member"
)

// ValidGroupRole reports whether role is one of the recognized
// group roles.  The empty string is allowed (no role assigned).
func ValidGroupRole(role string) bool {
    switch role {
    case "", GroupRoleLeader, GroupRoleSecretary, GroupRolePresenter, GroupRoleResearcher, GroupRoleMember:
        return true
    }
    return false
}

// SeatingAssignment places one roster entry at one seat within one
// period.  The seat is identified by the composite "table-seat"
// string rather than a foreign key, so its validity is re-checked
// against the period's live layout on every write.  Unique per
// (period, roster entry) and per (period, seat id).
//
// Fields:
//  ID          – primary key identifier.
//  PeriodID    – seating period this assignment belongs to.
//  RosterID    – roster entry (student-in-class) being seated.
//  SeatID      – composite seat identifier, e.g. "1-2".
//  GroupNumber – optional group number for group work.
//  GroupRole   – optional role within the group.
//  Notes       – notes specific to this placement.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type SeatingAssignment struct {
    ID          uint64    // seating_assignments.id
    PeriodID    uint64    // seating_assignments.period_id
    RosterID    uint64    // seating_assignments.roster_id
    SeatID      string    // seating_assignments.seat_id
    GroupNumber *uint32   // seating_assignments.group_number (nullable)
    GroupRole   string    // seating_assignments.group_role
    Notes       string    // seating_assignments.notes
    CreatedAt   time.Time // seating_assignments.created_at
    UpdatedAt   time.Time // seating_assignments.updated_at
}
