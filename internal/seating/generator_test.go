package seating

import (
    "testing"

    "github.com/stretchr/testify/require"
)

func fourSeats() []SeatRef {
    return []SeatRef{
        {Table: 1, Seat: 1}, {Table: 1, Seat: 2},
        {Table: 2, Seat: 1}, {Table: 2, Seat: 2},
    }
}

func testConfig() GeneratorConfig {
    cfg := DefaultGeneratorConfig()
    cfg.Seed = 42
    return cfg
}

func TestGeneratePlacesEveryStudent(t *testing.T) {
    in := GenerateInput{
        Seats:    fourSeats(),
        Students: []uint64{1, 2, 3, 4},
    }
    res, err := Generate(in, testConfig())
    require.NoError(t, err)
    require.Len(t, res.Placement, 4)

    used := make(map[SeatRef]bool)
    for _, ref := range res.Placement {
        require.False(t, used[ref], "seat assigned twice")
        used[ref] = true
    }
}

func TestGenerateNotEnoughSeats(t *testing.T) {
    in := GenerateInput{
        Seats:    []SeatRef{{Table: 1, Seat: 1}},
        Students: []uint64{1, 2},
    }
    _, err := Generate(in, testConfig())
    require.ErrorIs(t, err, ErrNotEnoughSeats)
}

func TestGenerateHonorsLockedSeats(t *testing.T) {
    pinned := SeatRef{Table: 2, Seat: 2}
    in := GenerateInput{
        Seats:    fourSeats(),
        Students: []uint64{1, 2, 3},
        Locked:   map[uint64]SeatRef{3: pinned},
    }
    res, err := Generate(in, testConfig())
    require.NoError(t, err)
    require.Equal(t, pinned, res.Placement[3])
}

func TestGenerateRejectsLockOutsideLayout(t *testing.T) {
    in := GenerateInput{
        Seats:    fourSeats(),
        Students: []uint64{1, 2},
        Locked:   map[uint64]SeatRef{1: {Table: 9, Seat: 9}},
    }
    _, err := Generate(in, testConfig())
    require.ErrorIs(t, err, ErrInvalidLock)
}

func TestGenerateSeparatesNeverPair(t *testing.T) {
    // Two tables of two; students 1 and 2 must never share a table.
    in := GenerateInput{
        Seats:    fourSeats(),
        Students: []uint64{1, 2, 3, 4},
        Ratings:  map[[2]uint64]int{{1, 2}: -2},
    }
    res, err := Generate(in, testConfig())
    require.NoError(t, err)
    require.NotEqual(t, res.Placement[1].Table, res.Placement[2].Table,
        "never-pair students ended up at the same table")
}

func TestGeneratePrefersUnpairedPartners(t *testing.T) {
    // Students 1 and 2 have sat together three times; 3 and 4 are
    // fresh.  The generator should split the repeat pair.
    in := GenerateInput{
        Seats:    fourSeats(),
        Students: []uint64{1, 2, 3, 4},
        History: map[uint64]map[uint64]int{
            1: {2: 3},
            2: {1: 3},
        },
    }
    cfg := testConfig()
    cfg.MaxIterations = 2000
    res, err := Generate(in, cfg)
    require.NoError(t, err)
    require.NotEqual(t, res.Placement[1].Table, res.Placement[2].Table)
}

func TestGenerateDeterministicUnderSeed(t *testing.T) {
    in := GenerateInput{
        Seats:    fourSeats(),
        Students: []uint64{1, 2, 3},
        Ratings:  map[[2]uint64]int{{1, 3}: 2},
    }
    a, err := Generate(in, testConfig())
    require.NoError(t, err)
    b, err := Generate(in, testConfig())
    require.NoError(t, err)
    require.Equal(t, a.Placement, b.Placement)
    require.Equal(t, a.Score, b.Score)
}

func TestScoreWeightsApplied(t *testing.T) {
    g := &annealer{
        cfg: GeneratorConfig{Weights: DefaultWeights()},
        in: GenerateInput{
            Seats:    []SeatRef{{Table: 1, Seat: 1}, {Table: 1, Seat: 2}},
            Students: []uint64{1, 2},
            Ratings:  map[[2]uint64]int{{1, 2}: 2},
        },
    }
    g.buildDoNotPair()
    // Both students at table 1: new partnership (-10) plus best
    // rating (2 * -20).
    require.Equal(t, float64(-50), g.score([]int{0, 1}))
}

func TestScoreLonelyTable(t *testing.T) {
    g := &annealer{
        cfg: GeneratorConfig{Weights: DefaultWeights()},
        in: GenerateInput{
            Seats:    []SeatRef{{Table: 1, Seat: 1}, {Table: 2, Seat: 1}},
            Students: []uint64{1},
        },
    }
    g.buildDoNotPair()
    require.Equal(t, float64(20), g.score([]int{0, -1}))
}
