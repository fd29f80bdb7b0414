package handler // handler package contains classroom layout handlers

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/repository"
)

// validTableShapes are the shapes the layout editor knows how to draw.
var validTableShapes = map[string]bool{"rectangle": true, "circle": true, "l_shape": true}

// validObstacleTypes are the obstacle kinds the layout editor supports.
var validObstacleTypes = map[string]bool{"desk": true, "bookshelf": true, "door": true, "window": true, "other": true}

// CreateLayout handles POST /v1/layouts.
func (h *TeacherHandler) CreateLayout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    var body struct {
        Name        string `json:"name"`
        Description string `json:"description"`
        RoomWidth   uint32 `json:"room_width"`
        RoomHeight  uint32 `json:"room_height"`
        IsTemplate  bool   `json:"is_template"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if strings.TrimSpace(body.Name) == "" || body.RoomWidth == 0 || body.RoomHeight == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "name, room_width and room_height are required and must be greater than zero"})
    }
    layout := &model.Layout{
        CreatedBy:   userID,
        Name:        strings.TrimSpace(body.Name),
        Description: body.Description,
        RoomWidth:   body.RoomWidth,
        RoomHeight:  body.RoomHeight,
        IsTemplate:  body.IsTemplate,
    }
    if err := h.LayoutRepo.Create(c.Request().Context(), layout); err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create layout"})
    }
    return c.JSON(http.StatusCreated, layout)
}

// ListLayouts handles GET /v1/layouts: own layouts plus templates.
func (h *TeacherHandler) ListLayouts(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    layouts, err := h.LayoutRepo.ListVisible(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, layouts)
}

// GetLayout handles GET /v1/layouts/:id and returns the layout with
// its tables, seats and obstacles in one payload so the editor can
// render it without extra round trips.
func (h *TeacherHandler) GetLayout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    layoutID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid layout id"})
    }
    ctx := c.Request().Context()
    layout, err := h.LayoutRepo.GetByID(ctx, layoutID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrLayoutNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    tables, err := h.LayoutRepo.ListTables(ctx, layoutID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    type tableWithSeats struct {
        model.Table
        Seats []model.Seat `json:"seats"`
    }
    detailed := make([]tableWithSeats, 0, len(tables))
    for _, t := range tables {
        seats, err := h.LayoutRepo.ListSeats(ctx, t.ID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
        }
        detailed = append(detailed, tableWithSeats{Table: t, Seats: seats})
    }
    obstacles, err := h.LayoutRepo.ListObstacles(ctx, layoutID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "layout":    layout,
        "tables":    detailed,
        "obstacles": obstacles,
    })
}

// UpdateLayout handles PUT/PATCH /v1/layouts/:id.
func (h *TeacherHandler) UpdateLayout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    layoutID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid layout id"})
    }
    cur, err := h.LayoutRepo.GetByID(c.Request().Context(), layoutID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrLayoutNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    if cur.CreatedBy != userID {
        // Templates are readable by everyone but writable only by
        // their creator.
        return c.JSON(http.StatusForbidden, map[string]string{"error": "only the layout creator can modify it"})
    }
    var body struct {
        Name        *string `json:"name"`
        Description *string `json:"description"`
        RoomWidth   *uint32 `json:"room_width"`
        RoomHeight  *uint32 `json:"room_height"`
        IsTemplate  *bool   `json:"is_template"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
        cur.Name = strings.TrimSpace(*body.Name)
    }
    if body.Description != nil {
        cur.Description = strings.TrimSpace(*body.Description)
    }
    if body.RoomWidth != nil && *body.RoomWidth > 0 {
        cur.RoomWidth = *body.RoomWidth
    }
    if body.RoomHeight != nil && *body.RoomHeight > 0 {
        cur.RoomHeight = *body.RoomHeight
    }
    if body.IsTemplate != nil {
        cur.IsTemplate = *body.IsTemplate
    }
    if err := h.LayoutRepo.Update(c.Request().Context(), cur, userID); err != nil {
        if errors.Is(err, repository.ErrLayoutNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update layout"})
    }
    return c.JSON(http.StatusOK, cur)
}

// DeleteLayout handles DELETE /v1/layouts/:id (soft delete).
func (h *TeacherHandler) DeleteLayout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    layoutID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid layout id"})
    }
    if err := h.LayoutRepo.Delete(c.Request().Context(), layoutID, userID); err != nil {
        switch {
        case errors.Is(err, repository.ErrLayoutNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
        case errors.Is(err, repository.ErrLayoutInUse):
            return c.JSON(http.StatusConflict, map[string]string{"error": "layout is used by seating periods"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete layout"})
    }
    return c.NoContent(http.StatusNoContent)
}

// editableLayout verifies the layout exists and the caller created
// it.  Table, seat and obstacle writes all pass through here.
func (h *TeacherHandler) editableLayout(c echo.Context) (uint64, bool, error) {
    userID, err := getUserID(c)
    if err != nil {
        return 0, false, c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    layoutID, err := paramID(c, "layout_id")
    if err != nil {
        return 0, false, c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid layout id"})
    }
    layout, err := h.LayoutRepo.GetByID(c.Request().Context(), layoutID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrLayoutNotFound) {
            return 0, false, c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
        }
        return 0, false, c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    if layout.CreatedBy != userID {
        return 0, false, c.JSON(http.StatusForbidden, map[string]string{"error": "only the layout creator can modify it"})
    }
    return layoutID, true, nil
}

// CreateTable handles POST /v1/layouts/:layout_id/tables.  Seats may
// be supplied inline and are created in the same request.
func (h *TeacherHandler) CreateTable(c echo.Context) error {
    layoutID, ok, err := h.editableLayout(c)
    if !ok {
        return err
    }
    var body struct {
        TableNumber uint32 `json:"table_number"`
        Name        string `json:"name"`
        X           uint32 `json:"x"`
        Y           uint32 `json:"y"`
        Width       uint32 `json:"width"`
        Height      uint32 `json:"height"`
        Shape       string `json:"shape"`
        Rotation    uint32 `json:"rotation"`
        MaxSeats    uint32 `json:"max_seats"`
        Seats       []struct {
            SeatNumber   uint32  `json:"seat_number"`
            RelativeX    float64 `json:"relative_x"`
            RelativeY    float64 `json:"relative_y"`
            IsAccessible bool    `json:"is_accessible"`
            Notes        string  `json:"notes"`
        } `json:"seats"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.TableNumber == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "table_number must be greater than zero"})
    }
    shape := strings.ToLower(strings.TrimSpace(body.Shape))
    if shape == "" {
        shape = "rectangle"
    }
    if !validTableShapes[shape] {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "shape must be rectangle, circle or l_shape"})
    }
    if body.Rotation%90 != 0 || body.Rotation >= 360 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "rotation must be 0, 90, 180 or 270"})
    }
    maxSeats := body.MaxSeats
    if maxSeats == 0 {
        maxSeats = 4
    }
    table := &model.Table{
        LayoutID:    layoutID,
        TableNumber: body.TableNumber,
        Name:        strings.TrimSpace(body.Name),
        X:           body.X,
        Y:           body.Y,
        Width:       body.Width,
        Height:      body.Height,
        Shape:       shape,
        Rotation:    body.Rotation,
        MaxSeats:    maxSeats,
    }
    if err := h.LayoutRepo.CreateTable(c.Request().Context(), table); err != nil {
        if errors.Is(err, repository.ErrTableNumberExists) {
            return c.JSON(http.StatusConflict, map[string]string{"error": "table number already used in this layout"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create table"})
    }
    if len(body.Seats) > 0 {
        if uint32(len(body.Seats)) > maxSeats {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "more seats than max_seats"})
        }
        seats := make([]model.Seat, 0, len(body.Seats))
        for _, s := range body.Seats {
            if s.SeatNumber == 0 || s.RelativeX < 0 || s.RelativeX > 1 || s.RelativeY < 0 || s.RelativeY > 1 {
                return c.JSON(http.StatusBadRequest, map[string]string{"error": "seat_number must be positive and relative positions within 0.0-1.0"})
            }
            seats = append(seats, model.Seat{
                SeatNumber:   s.SeatNumber,
                RelativeX:    s.RelativeX,
                RelativeY:    s.RelativeY,
                IsAccessible: s.IsAccessible,
                Notes:        s.Notes,
            })
        }
        if err := h.LayoutRepo.CreateSeatsBulk(c.Request().Context(), table.ID, seats); err != nil {
            if errors.Is(err, repository.ErrSeatNumberExists) {
                return c.JSON(http.StatusConflict, map[string]string{"error": "duplicate seat number at table"})
            }
            return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create seats"})
        }
        return c.JSON(http.StatusCreated, echo.Map{"table": table, "seats": seats})
    }
    return c.JSON(http.StatusCreated, table)
}

// UpdateTable handles PUT/PATCH /v1/layouts/:layout_id/tables/:id.
func (h *TeacherHandler) UpdateTable(c echo.Context) error {
    layoutID, ok, err := h.editableLayout(c)
    if !ok {
        return err
    }
    tableID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid table id"})
    }
    tables, err := h.LayoutRepo.ListTables(c.Request().Context(), layoutID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    var cur *model.Table
    for i := range tables {
        if tables[i].ID == tableID {
            cur = &tables[i]
            break
        }
    }
    if cur == nil {
        return c.JSON(http.StatusNotFound, map[string]string{"error": "table not found"})
    }
    var body struct {
        Name     *string `json:"name"`
        X        *uint32 `json:"x"`
        Y        *uint32 `json:"y"`
        Width    *uint32 `json:"width"`
        Height   *uint32 `json:"height"`
        Shape    *string `json:"shape"`
        Rotation *uint32 `json:"rotation"`
        MaxSeats *uint32 `json:"max_seats"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.Name != nil {
        cur.Name = strings.TrimSpace(*body.Name)
    }
    if body.X != nil {
        cur.X = *body.X
    }
    if body.Y != nil {
        cur.Y = *body.Y
    }
    if body.Width != nil && *body.Width > 0 {
        cur.Width = *body.Width
    }
    if body.Height != nil && *body.Height > 0 {
        cur.Height = *body.Height
    }
    if body.Shape != nil {
        shape := strings.ToLower(strings.TrimSpace(*body.Shape))
        if !validTableShapes[shape] {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "shape must be rectangle, circle or l_shape"})
        }
        cur.Shape = shape
    }
    if body.Rotation != nil {
        if *body.Rotation%90 != 0 || *body.Rotation >= 360 {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "rotation must be 0, 90, 180 or 270"})
        }
        cur.Rotation = *body.Rotation
    }
    if body.MaxSeats != nil && *body.MaxSeats > 0 {
        cur.MaxSeats = *body.MaxSeats
    }
    if err := h.LayoutRepo.UpdateTable(c.Request().Context(), cur); err != nil {
        if errors.Is(err, repository.ErrTableNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update table"})
    }
    return c.JSON(http.StatusOK, cur)
}

// DeleteTable handles DELETE /v1/layouts/:layout_id/tables/:id.
func (h *TeacherHandler) DeleteTable(c echo.Context) error {
    layoutID, ok, err := h.editableLayout(c)
    if !ok {
        return err
    }
    tableID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid table id"})
    }
    if err := h.LayoutRepo.DeleteTable(c.Request().Context(), layoutID, tableID); err != nil {
        if errors.Is(err, repository.ErrTableNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete table"})
    }
    return c.NoContent(http.StatusNoContent)
}

// CreateSeats handles POST /v1/layouts/:layout_id/tables/:id/seats
// and adds seats to an existing table in bulk.
func (h *TeacherHandler) CreateSeats(c echo.Context) error {
    _, ok, err := h.editableLayout(c)
    if !ok {
        return err
    }
    tableID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid table id"})
    }
    var body struct {
        Seats []struct {
            SeatNumber   uint32  `json:"seat_number"`
            RelativeX    float64 `json:"relative_x"`
            RelativeY    float64 `json:"relative_y"`
            IsAccessible bool    `json:"is_accessible"`
            Notes        string  `json:"notes"`
        } `json:"seats"`
    }
    if err := c.Bind(&body); err != nil || len(body.Seats) == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "seats required"})
    }
    seats := make([]model.Seat, 0, len(body.Seats))
    for _, s := range body.Seats {
        if s.SeatNumber == 0 || s.RelativeX < 0 || s.RelativeX > 1 || s.RelativeY < 0 || s.RelativeY > 1 {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "seat_number must be positive and relative positions within 0.0-1.0"})
        }
        seats = append(seats, model.Seat{
            SeatNumber:   s.SeatNumber,
            RelativeX:    s.RelativeX,
            RelativeY:    s.RelativeY,
            IsAccessible: s.IsAccessible,
            Notes:        s.Notes,
        })
    }
    if err := h.LayoutRepo.CreateSeatsBulk(c.Request().Context(), tableID, seats); err != nil {
        if errors.Is(err, repository.ErrSeatNumberExists) {
            return c.JSON(http.StatusConflict, map[string]string{"error": "duplicate seat number at table"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create seats"})
    }
    return c.JSON(http.StatusCreated, seats)
}

// DeleteSeat handles DELETE /v1/layouts/:layout_id/tables/:id/seats/:seat_id.
func (h *TeacherHandler) DeleteSeat(c echo.Context) error {
    _, ok, err := h.editableLayout(c)
    if !ok {
        return err
    }
    tableID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid table id"})
    }
    seatID, err := paramID(c, "seat_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid seat id"})
    }
    if err := h.LayoutRepo.DeleteSeat(c.Request().Context(), tableID, seatID); err != nil {
        return c.JSON(http.StatusNotFound, map[string]string{"error": "seat not found"})
    }
    return c.NoContent(http.StatusNoContent)
}

// CreateObstacle handles POST /v1/layouts/:layout_id/obstacles.
func (h *TeacherHandler) CreateObstacle(c echo.Context) error {
    layoutID, ok, err := h.editableLayout(c)
    if !ok {
        return err
    }
    var body struct {
        Name   string `json:"name"`
        Type   string `json:"type"`
        X      uint32 `json:"x"`
        Y      uint32 `json:"y"`
        Width  uint32 `json:"width"`
        Height uint32 `json:"height"`
        Color  string `json:"color"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    kind := strings.ToLower(strings.TrimSpace(body.Type))
    if !validObstacleTypes[kind] {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "type must be desk, bookshelf, door, window or other"})
    }
    obstacle := &model.Obstacle{
        LayoutID: layoutID,
        Name:     strings.TrimSpace(body.Name),
        Type:     kind,
        X:        body.X,
        Y:        body.Y,
        Width:    body.Width,
        Height:   body.Height,
        Color:    body.Color,
    }
    if err := h.LayoutRepo.CreateObstacle(c.Request().Context(), obstacle); err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create obstacle"})
    }
    return c.JSON(http.StatusCreated, obstacle)
}

// DeleteObstacle handles DELETE /v1/layouts/:layout_id/obstacles/:id.
func (h *TeacherHandler) DeleteObstacle(c echo.Context) error {
    layoutID, ok, err := h.editableLayout(c)
    if !ok {
        return err
    }
    obstacleID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid obstacle id"})
    }
    if err := h.LayoutRepo.DeleteObstacle(c.Request().Context(), layoutID, obstacleID); err != nil {
        return c.JSON(http.StatusNotFound, map[string]string{"error": "obstacle not found"})
    }
    return c.NoContent(http.StatusNoContent)
}
