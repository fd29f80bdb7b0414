package seating

import (
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

func date(s string) time.Time {
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        panic(err)
    }
    return t
}

func TestBuildPartnershipHistoryEmpty(t *testing.T) {
    out := BuildPartnershipHistory(nil, nil)
    require.Empty(t, out)
}

func TestBuildPartnershipHistorySinglePeriod(t *testing.T) {
    // Table 1 holds students A(1) and B(2); period closed 2024-01-15.
    periods := []ClosedPeriod{{
        PeriodID: 10,
        EndDate:  date("2024-01-15"),
        Assignments: []HistoryAssignment{
            {StudentID: 1, SeatID: "1-1"},
            {StudentID: 2, SeatID: "1-2"},
        },
    }}
    students := map[uint64]StudentInfo{
        1: {Name: "Ada Lovelace", IsActive: true},
        2: {Name: "Ben Ode", IsActive: true},
    }

    out := BuildPartnershipHistory(periods, students)
    require.Len(t, out, 2)
    require.Equal(t, []string{"2024-01-15"}, out[1].Partnerships[2])
    require.Equal(t, []string{"2024-01-15"}, out[2].Partnerships[1])
    require.Equal(t, "Ada Lovelace", out[1].Name)
    require.True(t, out[2].IsActive)
}

func TestBuildPartnershipHistoryTableOfThree(t *testing.T) {
    periods := []ClosedPeriod{{
        PeriodID: 1,
        EndDate:  date("2024-02-01"),
        Assignments: []HistoryAssignment{
            {StudentID: 1, SeatID: "2-1"},
            {StudentID: 2, SeatID: "2-2"},
            {StudentID: 3, SeatID: "2-3"},
        },
    }}
    out := BuildPartnershipHistory(periods, nil)

    // Three unordered pairs, each recorded once on both sides.
    require.Len(t, out, 3)
    for _, pair := range [][2]uint64{{1, 2}, {1, 3}, {2, 3}} {
        require.Equal(t, []string{"2024-02-01"}, out[pair[0]].Partnerships[pair[1]])
        require.Equal(t, []string{"2024-02-01"}, out[pair[1]].Partnerships[pair[0]])
    }
}

func TestBuildPartnershipHistorySeparateTables(t *testing.T) {
    periods := []ClosedPeriod{{
        PeriodID: 1,
        EndDate:  date("2024-02-01"),
        Assignments: []HistoryAssignment{
            {StudentID: 1, SeatID: "1-1"},
            {StudentID: 2, SeatID: "2-1"},
        },
    }}
    out := BuildPartnershipHistory(periods, nil)
    require.Empty(t, out[1].Partnerships)
    require.Empty(t, out[2].Partnerships)
}

func TestBuildPartnershipHistoryChronologicalAndDeduplicated(t *testing.T) {
    together := func(end string, id uint64) ClosedPeriod {
        return ClosedPeriod{
            PeriodID: id,
            EndDate:  date(end),
            Assignments: []HistoryAssignment{
                {StudentID: 1, SeatID: "1-1"},
                {StudentID: 2, SeatID: "1-2"},
            },
        }
    }
    // Deliberately out of order, with a repeated end date.
    periods := []ClosedPeriod{
        together("2024-03-01", 3),
        together("2024-01-15", 1),
        together("2024-03-01", 4),
        together("2024-02-01", 2),
    }
    out := BuildPartnershipHistory(periods, nil)
    require.Equal(t, []string{"2024-01-15", "2024-02-01", "2024-03-01"}, out[1].Partnerships[2])
}

func TestBuildPartnershipHistorySkipsBadSeatIDs(t *testing.T) {
    periods := []ClosedPeriod{{
        PeriodID: 1,
        EndDate:  date("2024-02-01"),
        Assignments: []HistoryAssignment{
            {StudentID: 1, SeatID: "not-a-seat"},
            {StudentID: 2, SeatID: "1-1"},
            {StudentID: 3, SeatID: "1-2"},
        },
    }}
    out := BuildPartnershipHistory(periods, nil)
    require.NotContains(t, out, uint64(1))
    require.Equal(t, []string{"2024-02-01"}, out[2].Partnerships[3])
}

func TestCoSeatingCounts(t *testing.T) {
    history := map[uint64]PartnerHistory{
        1: {Partnerships: map[uint64][]string{2: {"2024-01-15", "2024-02-01"}}},
        2: {Partnerships: map[uint64][]string{1: {"2024-01-15", "2024-02-01"}}},
    }
    counts := CoSeatingCounts(history)
    require.Equal(t, 2, counts[1][2])
    require.Equal(t, 2, counts[2][1])
    require.Zero(t, counts[1][3])
}
