// Package seating contains the algorithmic core of the classroom
// backend: the composite seat identifier used on the wire, the
// partnership-history fold over closed seating periods, and the
// chart generator that proposes new arrangements.  Everything here
// is pure computation; persistence lives in internal/repository.
package seating

import (
    "errors"
    "strconv"
    "strings"
)

// ErrInvalidSeatID is returned when a seat identifier string does
// not parse into two positive integers separated by one hyphen.
var ErrInvalidSeatID = errors.New("invalid seat identifier")

// SeatRef is the structured form of the composite seat identifier.
// The wire format is "{table_number}-{seat_number}" with an ASCII
// hyphen and no sign or leading-zero semantics; internally the two
// halves are kept as numbers so table grouping never re-parses
// strings.  A SeatRef is a value, not a foreign key: whether it
// resolves to a real seat depends on the layout it is checked
// against at write time.
type SeatRef struct {
    Table uint32 // table number within the layout
    Seat  uint32 // seat number within the table
}

// ParseSeatRef parses the wire form of a seat identifier.  Both
// halves must be positive base-10 integers and exactly one hyphen
// must separate them; anything else yields ErrInvalidSeatID.
func ParseSeatRef(s string) (SeatRef, error) {
    table, seat, ok := strings.Cut(s, "-")
    if !ok {
        return SeatRef{}, ErrInvalidSeatID
    }
    t, err := strconv.ParseUint(table, 10, 32)
    if err != nil || t == 0 {
        return SeatRef{}, ErrInvalidSeatID
    }
    n, err := strconv.ParseUint(seat, 10, 32)
    if err != nil || n == 0 {
        return SeatRef{}, ErrInvalidSeatID
    }
    return SeatRef{Table: uint32(t), Seat: uint32(n)}, nil
}

// String renders the seat reference in its wire format.  The
// output round-trips through ParseSeatRef bit-exact.
func (r SeatRef) String() string {
    return strconv.FormatUint(uint64(r.Table), 10) + "-" + strconv.FormatUint(uint64(r.Seat), 10)
}
