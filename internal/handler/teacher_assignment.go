package handler // handler package contains seating assignment handlers

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/repository"
    "github.com/teachdesk/classroom-seating/internal/seating"
)

// validateSeatPlacement runs the assignment checks in order: the
// seat id must parse, the seat must exist in the period's layout,
// and the roster entry must belong to the period's class.  Seat and
// student uniqueness within the period is left to the database's
// unique indexes.
func (h *TeacherHandler) validateSeatPlacement(c echo.Context, classID uint64, period *model.SeatingPeriod, rosterID uint64, seatID string) (seating.SeatRef, error) {
    ref, err := seating.ParseSeatRef(seatID)
    if err != nil {
        return ref, c.JSON(http.StatusBadRequest, map[string]string{"error": "seat_id must be \"table-seat\" with positive numbers"})
    }
    exists, err := h.LayoutRepo.SeatExists(c.Request().Context(), period.LayoutID, ref)
    if err != nil {
        return ref, c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    if !exists {
        return ref, c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "seat does not exist in the period's layout"})
    }
    entry, err := h.RosterRepo.GetByID(c.Request().Context(), classID, rosterID)
    if err != nil {
        if errors.Is(err, repository.ErrRosterEntryNotFound) {
            return ref, c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "student is not on this class's roster"})
        }
        return ref, c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    if !entry.IsActive {
        return ref, c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "student's enrollment is inactive"})
    }
    return ref, nil
}

func (h *TeacherHandler) periodForClass(c echo.Context, classID uint64) (*model.SeatingPeriod, error) {
    periodID, err := paramID(c, "period_id")
    if err != nil {
        return nil, c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid period id"})
    }
    period, err := h.PeriodRepo.GetByID(c.Request().Context(), classID, periodID)
    if err != nil {
        if errors.Is(err, repository.ErrPeriodNotFound) {
            return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "period not found"})
        }
        return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return period, nil
}

// CreateAssignment handles POST /v1/classes/:class_id/periods/:period_id/assignments.
func (h *TeacherHandler) CreateAssignment(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    period, err := h.periodForClass(c, classID)
    if period == nil {
        return err
    }
    var body struct {
        RosterID    uint64  `json:"roster_id"`
        SeatID      string  `json:"seat_id"`
        GroupNumber *uint32 `json:"group_number"`
        GroupRole   string  `json:"group_role"`
        Notes       string  `json:"notes"`
    }
    if err := c.Bind(&body); err != nil || body.RosterID == 0 || strings.TrimSpace(body.SeatID) == "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "roster_id and seat_id are required"})
    }
    if !model.ValidGroupRole(body.GroupRole) {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "group_role must be leader, secretary, presenter, researcher or member"})
    }
    seatID := strings.TrimSpace(body.SeatID)
    if _, err := h.validateSeatPlacement(c, classID, period, body.RosterID, seatID); err != nil {
        return err
    }
    assignment := &model.SeatingAssignment{
        PeriodID:    period.ID,
        RosterID:    body.RosterID,
        SeatID:      seatID,
        GroupNumber: body.GroupNumber,
        GroupRole:   body.GroupRole,
        Notes:       body.Notes,
    }
    if err := h.AssignmentRepo.Create(c.Request().Context(), assignment); err != nil {
        switch {
        case errors.Is(err, repository.ErrSeatTaken):
            return c.JSON(http.StatusConflict, map[string]string{"error": "seat already taken in this period"})
        case errors.Is(err, repository.ErrStudentAlreadySeated):
            return c.JSON(http.StatusConflict, map[string]string{"error": "student already seated in this period"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, map[string]string{"error": "placement conflict"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create assignment"})
    }
    return c.JSON(http.StatusCreated, assignment)
}

// ListAssignments handles GET /v1/classes/:class_id/periods/:period_id/assignments.
func (h *TeacherHandler) ListAssignments(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    period, err := h.periodForClass(c, classID)
    if period == nil {
        return err
    }
    assignments, err := h.AssignmentRepo.ListByPeriod(c.Request().Context(), period.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, assignments)
}

// UpdateAssignment handles PUT/PATCH /v1/classes/:class_id/periods/:period_id/assignments/:id.
// Moving a student re-runs the placement checks against the live layout.
func (h *TeacherHandler) UpdateAssignment(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    period, err := h.periodForClass(c, classID)
    if period == nil {
        return err
    }
    assignmentID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid assignment id"})
    }
    cur, err := h.AssignmentRepo.GetByID(c.Request().Context(), period.ID, assignmentID)
    if err != nil {
        if errors.Is(err, repository.ErrAssignmentNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "assignment not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    var body struct {
        SeatID      *string `json:"seat_id"`
        GroupNumber *uint32 `json:"group_number"`
        GroupRole   *string `json:"group_role"`
        Notes       *string `json:"notes"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.SeatID != nil {
        seatID := strings.TrimSpace(*body.SeatID)
        if _, err := h.validateSeatPlacement(c, classID, period, cur.RosterID, seatID); err != nil {
            return err
        }
        cur.SeatID = seatID
    }
    if body.GroupNumber != nil {
        cur.GroupNumber = body.GroupNumber
    }
    if body.GroupRole != nil {
        if !model.ValidGroupRole(*body.GroupRole) {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "group_role must be leader, secretary, presenter, researcher or member"})
        }
        cur.GroupRole = *body.GroupRole
    }
    if body.Notes != nil {
        cur.Notes = *body.Notes
    }
    if err := h.AssignmentRepo.Update(c.Request().Context(), cur); err != nil {
        switch {
        case errors.Is(err, repository.ErrSeatTaken):
            return c.JSON(http.StatusConflict, map[string]string{"error": "seat already taken in this period"})
        case errors.Is(err, repository.ErrAssignmentNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "assignment not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update assignment"})
    }
    return c.JSON(http.StatusOK, cur)
}

// DeleteAssignment handles DELETE /v1/classes/:class_id/periods/:period_id/assignments/:id.
func (h *TeacherHandler) DeleteAssignment(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    period, err := h.periodForClass(c, classID)
    if period == nil {
        return err
    }
    assignmentID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid assignment id"})
    }
    if err := h.AssignmentRepo.Delete(c.Request().Context(), period.ID, assignmentID); err != nil {
        if errors.Is(err, repository.ErrAssignmentNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "assignment not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete assignment"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListGroupMembers handles GET /v1/classes/:class_id/periods/:period_id/groups/:number.
func (h *TeacherHandler) ListGroupMembers(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    period, err := h.periodForClass(c, classID)
    if period == nil {
        return err
    }
    number, err := paramID(c, "number")
    if err != nil || number == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid group number"})
    }
    members, err := h.AssignmentRepo.GroupMembers(c.Request().Context(), period.ID, uint32(number))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, members)
}

// ListTableMates handles GET /v1/classes/:class_id/periods/:period_id/seats/:seat_id/mates
// and returns who else sits at the same table as the given seat.
func (h *TeacherHandler) ListTableMates(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    period, err := h.periodForClass(c, classID)
    if period == nil {
        return err
    }
    ref, err := seating.ParseSeatRef(c.Param("seat_id"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "seat_id must be \"table-seat\" with positive numbers"})
    }
    mates, err := h.AssignmentRepo.TableMates(c.Request().Context(), period.ID, ref)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, mates)
}
