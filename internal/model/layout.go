package model

import "time"

// Layout describes the physical arrangement of a classroom: a grid
// of tables, each with seats at relative positions, plus
// non-seating obstacles such as the teacher's desk.  Layouts are
// pure data; placement validation happens at assignment time.  A
// layout referenced by any seating period is protected from hard
// deletion and can only be soft-deleted.
//
// Fields:
//  ID          – primary key identifier.
//  CreatedBy   – user ID of the teacher who built the layout.
//  Name        – layout name, e.g. "Room 201 Standard".
//  Description – optional description.
//  RoomWidth   – room width in grid units.
//  RoomHeight  – room height in grid units.
//  IsTemplate  – whether other teachers may use this layout.
//  IsDeleted   – soft-delete flag.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Layout struct {
    ID          uint64    // classroom_layouts.id
    CreatedBy   uint64    // classroom_layouts.created_by
    Name        string    // classroom_layouts.name
    Description string    // classroom_layouts.description
    RoomWidth   uint32    // classroom_layouts.room_width
    RoomHeight  uint32    // classroom_layouts.room_height
    IsTemplate  bool      // classroom_layouts.is_template
    IsDeleted   bool      // classroom_layouts.is_deleted
    CreatedAt   time.Time // classroom_layouts.created_at
    UpdatedAt   time.Time // classroom_layouts.updated_at
}

// Table represents one table inside a layout.  Table numbers are
// unique within a layout and form the first half of the composite
// seat identifier used by assignments.
//
// Fields:
//  ID          – primary key identifier.
//  LayoutID    – layout this table belongs to.
//  TableNumber – unique table number within the layout.
//  Name        – optional label like "Front Left".
//  X, Y        – position on the room grid.
//  Width       – table width in grid units.
//  Height      – table height in grid units.
//  Shape       – rectangle, circle or l_shape.
//  Rotation    – rotation in degrees (0, 90, 180, 270).
//  MaxSeats    – maximum number of students at this table.
type Table struct {
    ID          uint64 // classroom_tables.id
    LayoutID    uint64 // classroom_tables.layout_id
    TableNumber uint32 // classroom_tables.table_number
    Name        string // classroom_tables.table_name
    X           uint32 // classroom_tables.x_position
    Y           uint32 // classroom_tables.y_position
    Width       uint32 // classroom_tables.width
    Height      uint32 // classroom_tables.height
    Shape       string // classroom_tables.shape
    Rotation    uint32 // classroom_tables.rotation
    MaxSeats    uint32 // classroom_tables.max_seats
}

// Seat represents one seat at a table.  Seat numbers are unique
// within their table; the position is normalized to the table so
// the front end can render seats regardless of table size.
//
// Fields:
//  ID           – primary key identifier.
//  TableID      – table this seat belongs to.
//  SeatNumber   – unique seat number within the table.
//  RelativeX    – horizontal position relative to the table (0.0–1.0).
//  RelativeY    – vertical position relative to the table (0.0–1.0).
//  IsAccessible – whether the seat is wheelchair accessible.
//  Notes        – special notes about this seat.
type Seat struct {
    ID           uint64  // table_seats.id
    TableID      uint64  // table_seats.table_id
    SeatNumber   uint32  // table_seats.seat_number
    RelativeX    float64 // table_seats.relative_x
    RelativeY    float64 // table_seats.relative_y
    IsAccessible bool    // table_seats.is_accessible
    Notes        string  // table_seats.notes
}

// Obstacle represents a non-seating object placed on the room
// grid, such as a bookshelf or door.  Obstacles only matter for
// rendering and for layout editors; they never take assignments.
//
// Fields:
//  ID       – primary key identifier.
//  LayoutID – layout this obstacle belongs to.
//  Name     – label, e.g. "Teacher Desk".
//  Type     – obstacle kind (desk, bookshelf, door, window, other).
//  X, Y     – position on the room grid.
//  Width    – width in grid units.
//  Height   – height in grid units.
//  Color    – hex color code used by the editor.
type Obstacle struct {
    ID       uint64 // layout_obstacles.id
    LayoutID uint64 // layout_obstacles.layout_id
    Name     string // layout_obstacles.name
    Type     string // layout_obstacles.obstacle_type
    X        uint32 // layout_obstacles.x_position
    Y        uint32 // layout_obstacles.y_position
    Width    uint32 // layout_obstacles.width
    Height   uint32 // layout_obstacles.height
    Color    string // layout_obstacles.color
}
