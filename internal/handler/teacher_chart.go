package handler // handler package contains the chart generation handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/repository"
    "github.com/teachdesk/classroom-seating/internal/seating"
)

// GenerateChart handles POST /v1/classes/:class_id/seating-chart/generate.
// It proposes a chart for the class's current period using simulated
// annealing over the partnership history and ratings.  With
// "apply": true the period's assignments are replaced by the
// proposal; otherwise the proposal is only returned.
func (h *TeacherHandler) GenerateChart(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    var body struct {
        Locked map[uint64]string `json:"locked"` // student id -> seat id to pin
        Apply  bool              `json:"apply"`
        Seed   int64             `json:"seed"` // fixed seed for reproducible charts
    }
    _ = c.Bind(&body)

    ctx := c.Request().Context()
    period, err := h.PeriodRepo.CurrentByClass(ctx, classID)
    if err != nil {
        if errors.Is(err, repository.ErrNoCurrentPeriod) {
            return c.JSON(http.StatusConflict, map[string]string{"error": "class has no current seating period"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }

    seats, err := h.LayoutRepo.ListSeatRefs(ctx, period.LayoutID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    students, err := h.RosterRepo.ActiveStudentIDs(ctx, classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    if len(students) == 0 {
        return c.JSON(http.StatusConflict, map[string]string{"error": "class roster has no active students"})
    }
    periods, studentInfo, err := h.AssignmentRepo.HistoryByClass(ctx, classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    ratings, err := h.RatingRepo.PairMap(ctx, classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }

    locked := make(map[uint64]seating.SeatRef, len(body.Locked))
    for studentID, seatID := range body.Locked {
        ref, err := seating.ParseSeatRef(seatID)
        if err != nil {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "locked seat ids must be \"table-seat\" with positive numbers"})
        }
        locked[studentID] = ref
    }

    cfg := seating.DefaultGeneratorConfig()
    cfg.Seed = body.Seed
    result, err := seating.Generate(seating.GenerateInput{
        Seats:    seats,
        Students: students,
        History:  seating.CoSeatingCounts(seating.BuildPartnershipHistory(periods, studentInfo)),
        Ratings:  ratings,
        Locked:   locked,
    }, cfg)
    if err != nil {
        switch {
        case errors.Is(err, seating.ErrNotEnoughSeats):
            return c.JSON(http.StatusConflict, map[string]string{"error": "layout has fewer seats than active students"})
        case errors.Is(err, seating.ErrInvalidLock):
            return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "a locked seat does not exist or is pinned twice"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "chart generation failed"})
    }

    // The generator works with student IDs; assignments reference
    // roster entries, so map back before writing or returning.
    entries, err := h.RosterRepo.ListByClass(ctx, classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    rosterByStudent := make(map[uint64]uint64, len(entries))
    for _, e := range entries {
        if e.IsActive {
            rosterByStudent[e.StudentID] = e.ID
        }
    }

    type placement struct {
        StudentID uint64 `json:"student_id"`
        RosterID  uint64 `json:"roster_id"`
        SeatID    string `json:"seat_id"`
    }
    placements := make([]placement, 0, len(result.Placement))
    for studentID, ref := range result.Placement {
        placements = append(placements, placement{
            StudentID: studentID,
            RosterID:  rosterByStudent[studentID],
            SeatID:    ref.String(),
        })
    }

    if body.Apply {
        if err := h.AssignmentRepo.DeleteByPeriod(ctx, period.ID); err != nil {
            return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not clear period"})
        }
        for _, p := range placements {
            a := &model.SeatingAssignment{PeriodID: period.ID, RosterID: p.RosterID, SeatID: p.SeatID}
            if err := h.AssignmentRepo.Create(ctx, a); err != nil {
                return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not write generated chart"})
            }
        }
    }

    return c.JSON(http.StatusOK, echo.Map{
        "period_id":  period.ID,
        "score":      result.Score,
        "applied":    body.Apply,
        "placements": placements,
    })
}
