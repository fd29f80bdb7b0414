package seating

import (
    "errors"
    "math"
    "math/rand"
    "time"
)

// Errors returned by Generate when the input cannot produce a
// complete chart.
var (
    ErrNotEnoughSeats = errors.New("not enough seats for students")
    ErrInvalidLock    = errors.New("locked seat does not exist in the layout")
)

// Weights controls the scoring function.  Lower scores are better;
// negative weights reward a property, positive weights penalize it.
type Weights struct {
    DoNotPairViolation  float64 // pair rated "never" sharing a table
    NewPartnership      float64 // pair that has never shared a table
    RepeatedPartnership float64 // per prior co-seating of a pair
    PositiveRating      float64 // multiplied by a positive rating (1 or 2)
    NegativeRating      float64 // applied per unit of a negative rating
    LonelyTable         float64 // table occupied by exactly one student
}

// DefaultWeights returns the scoring weights the optimizer ships
// with.  Do-not-pair is large enough to dominate everything else,
// making a -2 rating an effectively hard constraint.
func DefaultWeights() Weights {
    return Weights{
        DoNotPairViolation:  10000,
        NewPartnership:      -10,
        RepeatedPartnership: 5,
        PositiveRating:      -20,
        NegativeRating:      10,
        LonelyTable:         20,
    }
}

// GeneratorConfig holds the annealing schedule.  Seed fixes the
// random source for reproducible runs; zero seeds from the clock.
type GeneratorConfig struct {
    InitialTemp   float64
    CoolingRate   float64
    MinTemp       float64
    MaxIterations int
    Weights       Weights
    Seed          int64
}

// DefaultGeneratorConfig returns the schedule used by the
// interactive generate endpoint.  Iteration count is kept modest
// because generation runs synchronously inside a request.
func DefaultGeneratorConfig() GeneratorConfig {
    return GeneratorConfig{
        InitialTemp:   100,
        CoolingRate:   0.995,
        MinTemp:       0.01,
        MaxIterations: 500,
        Weights:       DefaultWeights(),
    }
}

// GenerateInput is everything the generator needs, already loaded
// from storage: the layout's seats, the students to place, prior
// co-seating counts (both directions, as CoSeatingCounts emits),
// canonical-pair ratings, and any seats the teacher pinned.
type GenerateInput struct {
    Seats    []SeatRef
    Students []uint64
    History  map[uint64]map[uint64]int
    Ratings  map[[2]uint64]int
    Locked   map[uint64]SeatRef
}

// GenerateResult is a proposed chart: one seat per student, plus
// the score the proposal achieved (lower is better).
type GenerateResult struct {
    Placement map[uint64]SeatRef
    Score     float64
}

// Generate proposes a seating chart by simulated annealing: start
// from a random constraint-respecting placement, then repeatedly
// swap, relocate or three-cycle students, accepting worse charts
// with probability exp(-delta/T) while the temperature cools.
// The best chart seen is returned; there is no optimality
// guarantee, only that locked seats are honored and every student
// is placed.
func Generate(in GenerateInput, cfg GeneratorConfig) (GenerateResult, error) {
    if len(in.Students) > len(in.Seats) {
        return GenerateResult{}, ErrNotEnoughSeats
    }
    seed := cfg.Seed
    if seed == 0 {
        seed = time.Now().UnixNano()
    }
    g := &annealer{
        cfg:  cfg,
        rng:  rand.New(rand.NewSource(seed)),
        in:   in,
        slot: make(map[SeatRef]int, len(in.Seats)),
    }
    for i, s := range in.Seats {
        g.slot[s] = i
    }
    g.buildDoNotPair()
    occ, err := g.initialPlacement()
    if err != nil {
        return GenerateResult{}, err
    }

    current := occ
    currentScore := g.score(current)
    best := append([]int(nil), current...)
    bestScore := currentScore

    temp := cfg.InitialTemp
    for i := 0; i < cfg.MaxIterations && temp > cfg.MinTemp; i++ {
        neighbor := g.neighbor(current)
        if neighbor != nil {
            s := g.score(neighbor)
            if g.accept(currentScore, s, temp) {
                current = neighbor
                currentScore = s
                if s < bestScore {
                    best = append([]int(nil), neighbor...)
                    bestScore = s
                }
            }
        }
        temp *= cfg.CoolingRate
    }

    placement := make(map[uint64]SeatRef, len(in.Students))
    for slotIdx, studentIdx := range best {
        if studentIdx >= 0 {
            placement[in.Students[studentIdx]] = in.Seats[slotIdx]
        }
    }
    return GenerateResult{Placement: placement, Score: bestScore}, nil
}

// annealer carries the working state of one Generate run.  The
// chart is a slice indexed by seat slot holding a student index,
// -1 for an empty seat.
type annealer struct {
    cfg       GeneratorConfig
    rng       *rand.Rand
    in        GenerateInput
    slot      map[SeatRef]int
    doNotPair map[uint64]map[uint64]bool
    locked    map[int]bool // student index -> immovable
}

func (g *annealer) buildDoNotPair() {
    g.doNotPair = make(map[uint64]map[uint64]bool)
    add := func(a, b uint64) {
        if g.doNotPair[a] == nil {
            g.doNotPair[a] = make(map[uint64]bool)
        }
        g.doNotPair[a][b] = true
    }
    for pair, r := range g.in.Ratings {
        if r == -2 {
            add(pair[0], pair[1])
            add(pair[1], pair[0])
        }
    }
}

// initialPlacement seats locked students first, then the rest in
// random order, preferring seats whose table has no incompatible
// occupant.  When constraints leave no compatible seat the student
// is placed anyway; the violation weight pushes the annealer to
// repair it.
func (g *annealer) initialPlacement() ([]int, error) {
    occ := make([]int, len(g.in.Seats))
    for i := range occ {
        occ[i] = -1
    }
    g.locked = make(map[int]bool)

    studentIdx := make(map[uint64]int, len(g.in.Students))
    for i, id := range g.in.Students {
        studentIdx[id] = i
    }

    for studentID, ref := range g.in.Locked {
        si, ok := studentIdx[studentID]
        if !ok {
            continue // lock for a student not being placed
        }
        slotIdx, ok := g.slot[ref]
        if !ok || occ[slotIdx] != -1 {
            return nil, ErrInvalidLock
        }
        occ[slotIdx] = si
        g.locked[si] = true
    }

    rest := make([]int, 0, len(g.in.Students))
    for i := range g.in.Students {
        if !g.locked[i] {
            rest = append(rest, i)
        }
    }
    g.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

    for _, si := range rest {
        placed := -1
        fallback := -1
        for slotIdx, cur := range occ {
            if cur != -1 {
                continue
            }
            if fallback == -1 {
                fallback = slotIdx
            }
            if g.canSit(si, g.in.Seats[slotIdx].Table, occ, -1) {
                placed = slotIdx
                break
            }
        }
        if placed == -1 {
            placed = fallback
        }
        occ[placed] = si
    }
    return occ, nil
}

// canSit reports whether the student can join the table without a
// do-not-pair violation.  ignoreSlot excludes a seat being vacated
// as part of the move under consideration.
func (g *annealer) canSit(si int, table uint32, occ []int, ignoreSlot int) bool {
    incompatible := g.doNotPair[g.in.Students[si]]
    if incompatible == nil {
        return true
    }
    for slotIdx, cur := range occ {
        if cur == -1 || slotIdx == ignoreSlot || cur == si {
            continue
        }
        if g.in.Seats[slotIdx].Table != table {
            continue
        }
        if incompatible[g.in.Students[cur]] {
            return false
        }
    }
    return true
}

// neighbor produces a mutated copy of the chart, or nil when no
// valid move was found.  Strategy mix mirrors the original tool:
// mostly swaps, some relocations, occasionally a three-cycle.
func (g *annealer) neighbor(occ []int) []int {
    r := g.rng.Float64()
    var move func([]int) []int
    switch {
    case r < 0.5:
        move = g.trySwap
    case r < 0.8:
        move = g.tryRelocate
    default:
        move = g.tryThreeCycle
    }
    for attempt := 0; attempt < 5; attempt++ {
        if next := move(occ); next != nil {
            return next
        }
    }
    return nil
}

// movableSlots returns the seat slots occupied by students that
// are not locked.
func (g *annealer) movableSlots(occ []int) []int {
    slots := make([]int, 0, len(occ))
    for slotIdx, si := range occ {
        if si != -1 && !g.locked[si] {
            slots = append(slots, slotIdx)
        }
    }
    return slots
}

func (g *annealer) trySwap(occ []int) []int {
    slots := g.movableSlots(occ)
    if len(slots) < 2 {
        return nil
    }
    a := slots[g.rng.Intn(len(slots))]
    b := slots[g.rng.Intn(len(slots))]
    if a == b {
        return nil
    }
    sa, sb := occ[a], occ[b]
    if !g.canSit(sa, g.in.Seats[b].Table, occ, a) || !g.canSit(sb, g.in.Seats[a].Table, occ, b) {
        return nil
    }
    next := append([]int(nil), occ...)
    next[a], next[b] = sb, sa
    return next
}

func (g *annealer) tryRelocate(occ []int) []int {
    slots := g.movableSlots(occ)
    if len(slots) == 0 {
        return nil
    }
    from := slots[g.rng.Intn(len(slots))]
    to := g.rng.Intn(len(occ))
    if to == from {
        return nil
    }
    si := occ[from]
    occupant := occ[to]
    if occupant == -1 {
        if !g.canSit(si, g.in.Seats[to].Table, occ, from) {
            return nil
        }
        next := append([]int(nil), occ...)
        next[from] = -1
        next[to] = si
        return next
    }
    if g.locked[occupant] {
        return nil
    }
    // Displacement: fall back to a swap with the occupant.
    if !g.canSit(si, g.in.Seats[to].Table, occ, from) || !g.canSit(occupant, g.in.Seats[from].Table, occ, to) {
        return nil
    }
    next := append([]int(nil), occ...)
    next[from], next[to] = occupant, si
    return next
}

func (g *annealer) tryThreeCycle(occ []int) []int {
    slots := g.movableSlots(occ)
    if len(slots) < 3 {
        return nil
    }
    g.rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
    a, b, c := slots[0], slots[1], slots[2]
    // Rotate occupants a->b->c->a and verify each lands compatibly.
    next := append([]int(nil), occ...)
    next[a], next[b], next[c] = occ[c], occ[a], occ[b]
    for _, slotIdx := range []int{a, b, c} {
        if !g.canSitFinal(next[slotIdx], g.in.Seats[slotIdx].Table, next, slotIdx) {
            return nil
        }
    }
    return next
}

// canSitFinal checks compatibility against an already-mutated
// chart, excluding the student's own seat.
func (g *annealer) canSitFinal(si int, table uint32, occ []int, ownSlot int) bool {
    incompatible := g.doNotPair[g.in.Students[si]]
    if incompatible == nil {
        return true
    }
    for slotIdx, cur := range occ {
        if cur == -1 || slotIdx == ownSlot || g.in.Seats[slotIdx].Table != table {
            continue
        }
        if incompatible[g.in.Students[cur]] {
            return false
        }
    }
    return true
}

// score evaluates a chart.  Lower is better.
func (g *annealer) score(occ []int) float64 {
    w := g.cfg.Weights
    tables := make(map[uint32][]int)
    for slotIdx, si := range occ {
        if si != -1 {
            t := g.in.Seats[slotIdx].Table
            tables[t] = append(tables[t], si)
        }
    }
    var score float64
    for _, mates := range tables {
        if len(mates) == 1 {
            score += w.LonelyTable
        }
        for i := 0; i < len(mates); i++ {
            for j := i + 1; j < len(mates); j++ {
                a := g.in.Students[mates[i]]
                b := g.in.Students[mates[j]]
                if g.doNotPair[a][b] {
                    score += w.DoNotPairViolation
                }
                if cnt := g.historyCount(a, b); cnt == 0 {
                    score += w.NewPartnership
                } else {
                    score += w.RepeatedPartnership * float64(cnt)
                }
                switch r := g.rating(a, b); {
                case r > 0:
                    score += w.PositiveRating * float64(r)
                case r < 0 && r != -2: // -2 is covered by the violation weight
                    score += w.NegativeRating * math.Abs(float64(r))
                }
            }
        }
    }
    return score
}

func (g *annealer) historyCount(a, b uint64) int {
    if m := g.in.History[a]; m != nil {
        if c, ok := m[b]; ok {
            return c
        }
    }
    if m := g.in.History[b]; m != nil {
        return m[a]
    }
    return 0
}

func (g *annealer) rating(a, b uint64) int {
    if a > b {
        a, b = b, a
    }
    return g.in.Ratings[[2]uint64{a, b}]
}

// accept implements the Metropolis criterion.
func (g *annealer) accept(current, candidate, temp float64) bool {
    if candidate < current {
        return true
    }
    return g.rng.Float64() < math.Exp(-(candidate-current)/temp)
}
