package seating

import (
    "testing"

    "github.com/stretchr/testify/require"
)

func TestParseSeatRef(t *testing.T) {
    tests := []struct {
        name    string
        in      string
        want    SeatRef
        wantErr bool
    }{
        {name: "simple", in: "1-2", want: SeatRef{Table: 1, Seat: 2}},
        {name: "multi digit", in: "12-34", want: SeatRef{Table: 12, Seat: 34}},
        {name: "missing hyphen", in: "12", wantErr: true},
        {name: "empty", in: "", wantErr: true},
        {name: "empty seat", in: "3-", wantErr: true},
        {name: "empty table", in: "-3", wantErr: true},
        {name: "zero table", in: "0-1", wantErr: true},
        {name: "zero seat", in: "1-0", wantErr: true},
        {name: "negative", in: "-1-2", wantErr: true},
        {name: "non numeric", in: "a-b", wantErr: true},
        {name: "extra separator", in: "1-2-3", wantErr: true},
        {name: "whitespace", in: " 1-2", wantErr: true},
        {name: "float", in: "1.5-2", wantErr: true},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got, err := ParseSeatRef(tt.in)
            if tt.wantErr {
                require.ErrorIs(t, err, ErrInvalidSeatID)
                return
            }
            require.NoError(t, err)
            require.Equal(t, tt.want, got)
        })
    }
}

func TestSeatRefRoundTrip(t *testing.T) {
    for _, s := range []string{"1-1", "3-2", "10-6", "999-999"} {
        ref, err := ParseSeatRef(s)
        require.NoError(t, err)
        require.Equal(t, s, ref.String())
    }
}
