package model

import "time"

// SeatingPeriod is a named, time-bounded seating arrangement for
// one class, tied to one layout.  A period with a NULL end date is
// the class's current period; at most one such period may exist
// per class at any time.  There is deliberately no stored
// "is_active" flag: an earlier revision carried one alongside the
// end date and the two drifted apart, leaving two rows active at
// once.  EndDate IS NULL is the single source of truth.
//
// Fields:
//  ID        – primary key identifier.
//  ClassID   – class this period belongs to.
//  LayoutID  – layout snapshot the period's assignments refer to.
//  Name      – period name, unique per class (e.g. "Chart 3").
//  StartDate – first day the arrangement is in effect.
//  EndDate   – last day, or nil while the period is current.
//  Notes     – notes about this arrangement.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type SeatingPeriod struct {
    ID        uint64     // seating_periods.id
    ClassID   uint64     // seating_periods.class_id
    LayoutID  uint64     // seating_periods.layout_id
    Name      string     // seating_periods.name
    StartDate time.Time  // seating_periods.start_date
    EndDate   *time.Time // seating_periods.end_date (nullable)
    Notes     string     // seating_periods.notes
    CreatedAt time.Time  // seating_periods.created_at
    UpdatedAt time.Time  // seating_periods.updated_at
}

// IsCurrent reports whether this period is the class's current
// period.  Derived, never stored.
func (p *SeatingPeriod) IsCurrent() bool {
    return p.EndDate == nil
}
