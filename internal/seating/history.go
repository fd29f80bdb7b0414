package seating

import (
    "sort"
    "time"
)

// HistoryAssignment is the slice of a seating assignment the
// partnership fold needs: who sat where.  The repository flattens
// roster entries down to student IDs before calling the fold so
// history is keyed by student, matching the rating store.
type HistoryAssignment struct {
    StudentID uint64 // student seated
    SeatID    string // composite seat identifier, e.g. "3-1"
}

// ClosedPeriod is one completed seating period together with its
// assignments.  Only closed periods participate in history; the
// caller must not pass a period whose end date is still open.
type ClosedPeriod struct {
    PeriodID    uint64
    EndDate     time.Time
    Assignments []HistoryAssignment
}

// StudentInfo carries the display fields the history output needs
// for each student who ever appeared in an assignment.
type StudentInfo struct {
    Name     string
    IsActive bool
}

// PartnerHistory is the per-student view of the partnership map:
// the student's display name, whether they are still actively
// enrolled, and for each partner the chronological list of dates
// on which the two shared a table.
type PartnerHistory struct {
    Name         string              `json:"name"`
    IsActive     bool                `json:"is_active"`
    Partnerships map[uint64][]string `json:"partnerships"`
}

// dateLayout is the wire format for co-seating dates.
const dateLayout = "2006-01-02"

// BuildPartnershipHistory folds closed periods into a symmetric
// partnership map.  For each period, assignments are grouped by
// table number; every unordered pair of students co-located at a
// table records the period's end date on both sides of the map.
// A pair accumulates at most one entry per distinct date.  Periods
// are processed in end-date order and each partner's date list
// comes out chronologically sorted.
//
// Complexity is O(periods × students-per-table²), which is fine
// for classroom tables of at most a handful of seats.
func BuildPartnershipHistory(periods []ClosedPeriod, students map[uint64]StudentInfo) map[uint64]PartnerHistory {
    ordered := make([]ClosedPeriod, len(periods))
    copy(ordered, periods)
    sort.Slice(ordered, func(i, j int) bool { return ordered[i].EndDate.Before(ordered[j].EndDate) })

    // partner -> partner -> set of dates
    seen := make(map[uint64]map[uint64]map[string]struct{})
    record := func(a, b uint64, date string) {
        m, ok := seen[a]
        if !ok {
            m = make(map[uint64]map[string]struct{})
            seen[a] = m
        }
        dates, ok := m[b]
        if !ok {
            dates = make(map[string]struct{})
            m[b] = dates
        }
        dates[date] = struct{}{}
    }

    appeared := make(map[uint64]struct{})
    for _, p := range ordered {
        date := p.EndDate.Format(dateLayout)
        tables := make(map[uint32][]uint64)
        for _, a := range p.Assignments {
            ref, err := ParseSeatRef(a.SeatID)
            if err != nil {
                // Assignments are validated at write time; an
                // unparsable id here means stale data, so skip it
                // rather than fail the whole fold.
                continue
            }
            tables[ref.Table] = append(tables[ref.Table], a.StudentID)
            appeared[a.StudentID] = struct{}{}
        }
        for _, mates := range tables {
            for i := 0; i < len(mates); i++ {
                for j := i + 1; j < len(mates); j++ {
                    if mates[i] == mates[j] {
                        continue
                    }
                    record(mates[i], mates[j], date)
                    record(mates[j], mates[i], date)
                }
            }
        }
    }

    out := make(map[uint64]PartnerHistory, len(appeared))
    for id := range appeared {
        info := students[id]
        ph := PartnerHistory{
            Name:         info.Name,
            IsActive:     info.IsActive,
            Partnerships: make(map[uint64][]string),
        }
        for partner, dates := range seen[id] {
            list := make([]string, 0, len(dates))
            for d := range dates {
                list = append(list, d)
            }
            sort.Strings(list)
            ph.Partnerships[partner] = list
        }
        out[id] = ph
    }
    return out
}

// CoSeatingCounts collapses a partnership map into pair counts,
// the shape the chart generator scores against.  Keys are present
// in both directions, mirroring the map itself.
func CoSeatingCounts(history map[uint64]PartnerHistory) map[uint64]map[uint64]int {
    counts := make(map[uint64]map[uint64]int, len(history))
    for id, ph := range history {
        inner := make(map[uint64]int, len(ph.Partnerships))
        for partner, dates := range ph.Partnerships {
            inner[partner] = len(dates)
        }
        counts[id] = inner
    }
    return counts
}
