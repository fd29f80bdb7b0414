package handler // handler package contains seating period handlers

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/queue"
    "github.com/teachdesk/classroom-seating/internal/repository"
    publisher "github.com/teachdesk/classroom-seating/internal/service"
)

const dateLayout = "2006-01-02"

// CreatePeriod handles POST /v1/classes/:class_id/periods.  Without
// an end_date the new period becomes current immediately; if another
// current period exists it is closed in the same transaction with
// the new period's start date.  With an end_date the period is
// created as history and the current period is untouched.  A missing
// name is auto-assigned as "Chart {n}".
func (h *TeacherHandler) CreatePeriod(c echo.Context) error {
    teacherID, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    var body struct {
        LayoutID  uint64  `json:"layout_id"`
        Name      string  `json:"name"`
        StartDate *string `json:"start_date"` // YYYY-MM-DD, defaults to today
        EndDate   *string `json:"end_date"`   // YYYY-MM-DD, present = create closed
        Notes     string  `json:"notes"`
    }
    if err := c.Bind(&body); err != nil || body.LayoutID == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "layout_id required"})
    }
    if _, err := h.LayoutRepo.GetByID(c.Request().Context(), body.LayoutID, teacherID); err != nil {
        if errors.Is(err, repository.ErrLayoutNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "layout not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    start := time.Now().UTC().Truncate(24 * time.Hour)
    if body.StartDate != nil {
        d, err := time.Parse(dateLayout, *body.StartDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
        }
        start = d
    }
    var end *time.Time
    if body.EndDate != nil {
        d, err := time.Parse(dateLayout, *body.EndDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "end_date must be YYYY-MM-DD"})
        }
        if d.Before(start) {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "end_date must not precede start_date"})
        }
        end = &d
    }
    period := &model.SeatingPeriod{
        ClassID:   classID,
        LayoutID:  body.LayoutID,
        Name:      strings.TrimSpace(body.Name),
        StartDate: start,
        EndDate:   end,
        Notes:     body.Notes,
    }
    if err := h.PeriodRepo.Create(c.Request().Context(), period); err != nil {
        if errors.Is(err, repository.ErrPeriodNameExists) {
            return c.JSON(http.StatusConflict, map[string]string{"error": "period name already used in this class"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create period"})
    }
    return c.JSON(http.StatusCreated, period)
}

// ListPeriods handles GET /v1/classes/:class_id/periods.
func (h *TeacherHandler) ListPeriods(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    periods, err := h.PeriodRepo.ListByClass(c.Request().Context(), classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, periods)
}

// GetCurrentPeriod handles GET /v1/classes/:class_id/periods/current
// and returns the current period with its assignments.
func (h *TeacherHandler) GetCurrentPeriod(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    period, err := h.PeriodRepo.CurrentByClass(c.Request().Context(), classID)
    if err != nil {
        if errors.Is(err, repository.ErrNoCurrentPeriod) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "no current seating period"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    assignments, err := h.AssignmentRepo.ListByPeriod(c.Request().Context(), period.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"period": period, "assignments": assignments})
}

// GetPeriod handles GET /v1/classes/:class_id/periods/:id.
func (h *TeacherHandler) GetPeriod(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    periodID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid period id"})
    }
    period, err := h.PeriodRepo.GetByID(c.Request().Context(), classID, periodID)
    if err != nil {
        if errors.Is(err, repository.ErrPeriodNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "period not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    assignments, err := h.AssignmentRepo.ListByPeriod(c.Request().Context(), period.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"period": period, "assignments": assignments})
}

// MakeCurrentPeriod handles POST /v1/classes/:class_id/periods/:id/make-current.
// Re-activating an old chart closes whichever period is current now.
func (h *TeacherHandler) MakeCurrentPeriod(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    periodID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid period id"})
    }
    today := time.Now().UTC().Truncate(24 * time.Hour)
    if err := h.PeriodRepo.MakeCurrent(c.Request().Context(), classID, periodID, today); err != nil {
        switch {
        case errors.Is(err, repository.ErrAlreadyCurrent):
            return c.JSON(http.StatusConflict, map[string]string{"error": "period is already current"})
        case errors.Is(err, repository.ErrPeriodNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "period not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not activate period"})
    }
    period, err := h.PeriodRepo.GetByID(c.Request().Context(), classID, periodID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, period)
}

// ClosePeriod handles POST /v1/classes/:class_id/periods/:id/close.
// Once closed the period joins the partnership history; a
// period.closed event is published for downstream consumers.
func (h *TeacherHandler) ClosePeriod(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    periodID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid period id"})
    }
    var body struct {
        EndDate *string `json:"end_date"` // YYYY-MM-DD, defaults to today
    }
    _ = c.Bind(&body)
    end := time.Now().UTC().Truncate(24 * time.Hour)
    if body.EndDate != nil {
        d, err := time.Parse(dateLayout, *body.EndDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "end_date must be YYYY-MM-DD"})
        }
        end = d
    }
    if err := h.PeriodRepo.Close(c.Request().Context(), classID, periodID, end); err != nil {
        switch {
        case errors.Is(err, repository.ErrNotCurrent):
            return c.JSON(http.StatusConflict, map[string]string{"error": "period is already closed"})
        case errors.Is(err, repository.ErrPeriodNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "period not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not close period"})
    }
    period, err := h.PeriodRepo.GetByID(c.Request().Context(), classID, periodID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    assignments, _ := h.AssignmentRepo.ListByPeriod(c.Request().Context(), periodID)
    event := queue.PeriodClosedEvent{
        PeriodID:        periodID,
        ClassID:         classID,
        PeriodName:      period.Name,
        StartDate:       period.StartDate.Format(dateLayout),
        EndDate:         end.Format(dateLayout),
        AssignmentCount: len(assignments),
        ClosedAt:        time.Now().UTC().Format(time.RFC3339),
    }
    // Event delivery is best effort; closing succeeded regardless.
    _ = publisher.PublishPeriodClosed(c.Request().Context(), event)
    return c.JSON(http.StatusOK, period)
}

// PreviousPeriod handles GET /v1/classes/:class_id/periods/:id/previous.
// Navigation never changes which period is current.
func (h *TeacherHandler) PreviousPeriod(c echo.Context) error {
    return h.navigatePeriod(c, h.PeriodRepo.Previous)
}

// NextPeriod handles GET /v1/classes/:class_id/periods/:id/next.
func (h *TeacherHandler) NextPeriod(c echo.Context) error {
    return h.navigatePeriod(c, h.PeriodRepo.Next)
}

func (h *TeacherHandler) navigatePeriod(c echo.Context, step func(context.Context, uint64, time.Time, uint64) (*model.SeatingPeriod, error)) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    periodID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid period id"})
    }
    cur, err := h.PeriodRepo.GetByID(c.Request().Context(), classID, periodID)
    if err != nil {
        if errors.Is(err, repository.ErrPeriodNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "period not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    neighbor, err := step(c.Request().Context(), classID, cur.StartDate, cur.ID)
    if err != nil {
        if errors.Is(err, repository.ErrPeriodNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "no adjacent period"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    assignments, err := h.AssignmentRepo.ListByPeriod(c.Request().Context(), neighbor.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"period": neighbor, "assignments": assignments})
}

// UpdatePeriod handles PATCH /v1/classes/:class_id/periods/:id for
// renaming and note edits.
func (h *TeacherHandler) UpdatePeriod(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    periodID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid period id"})
    }
    cur, err := h.PeriodRepo.GetByID(c.Request().Context(), classID, periodID)
    if err != nil {
        if errors.Is(err, repository.ErrPeriodNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "period not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    var body struct {
        Name  *string `json:"name"`
        Notes *string `json:"notes"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
        cur.Name = strings.TrimSpace(*body.Name)
    }
    if body.Notes != nil {
        cur.Notes = *body.Notes
    }
    if err := h.PeriodRepo.Update(c.Request().Context(), cur); err != nil {
        if errors.Is(err, repository.ErrPeriodNameExists) {
            return c.JSON(http.StatusConflict, map[string]string{"error": "period name already used in this class"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update period"})
    }
    return c.JSON(http.StatusOK, cur)
}

// DeletePeriod handles DELETE /v1/classes/:class_id/periods/:id and
// removes the period together with its assignments.
func (h *TeacherHandler) DeletePeriod(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    periodID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid period id"})
    }
    if err := h.PeriodRepo.Delete(c.Request().Context(), classID, periodID); err != nil {
        if errors.Is(err, repository.ErrPeriodNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "period not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete period"})
    }
    return c.NoContent(http.StatusNoContent)
}
