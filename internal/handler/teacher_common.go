package handler // handler defines http handlers

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/repository"
)

// TeacherHandler bundles the repositories teachers manipulate:
// classes, students, rosters, layouts, periods, assignments and
// partnership ratings.
type TeacherHandler struct {
    ClassRepo      *repository.ClassRepo
    StudentRepo    *repository.StudentRepo
    RosterRepo     *repository.RosterRepo
    LayoutRepo     *repository.LayoutRepo
    PeriodRepo     *repository.PeriodRepo
    AssignmentRepo *repository.AssignmentRepo
    RatingRepo     *repository.RatingRepo
}

// NewTeacherHandler constructs a TeacherHandler and panics if any
// dependency is nil; wiring errors should fail at startup, not on
// the first request.
func NewTeacherHandler(
    classRepo *repository.ClassRepo,
    studentRepo *repository.StudentRepo,
    rosterRepo *repository.RosterRepo,
    layoutRepo *repository.LayoutRepo,
    periodRepo *repository.PeriodRepo,
    assignmentRepo *repository.AssignmentRepo,
    ratingRepo *repository.RatingRepo,
) *TeacherHandler {
    if classRepo == nil || studentRepo == nil || rosterRepo == nil ||
        layoutRepo == nil || periodRepo == nil || assignmentRepo == nil || ratingRepo == nil {
        panic("nil repository passed to NewTeacherHandler")
    }
    return &TeacherHandler{
        ClassRepo:      classRepo,
        StudentRepo:    studentRepo,
        RosterRepo:     rosterRepo,
        LayoutRepo:     layoutRepo,
        PeriodRepo:     periodRepo,
        AssignmentRepo: assignmentRepo,
        RatingRepo:     ratingRepo,
    }
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// classForTeacher resolves the :class_id path parameter and verifies
// the authenticated teacher owns that class.  Nearly every teacher
// endpoint starts here, so the unauthorized/not-found translation
// lives in one place.  When ok is false the response has already
// been written and the handler should return err as-is.
func (h *TeacherHandler) classForTeacher(c echo.Context) (teacherID, classID uint64, ok bool, err error) {
    teacherID, uidErr := getUserID(c)
    if uidErr != nil {
        return 0, 0, false, c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    classID, idErr := paramID(c, "class_id")
    if idErr != nil {
        return 0, 0, false, c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid class id"})
    }
    if _, repoErr := h.ClassRepo.GetByIDAndTeacher(c.Request().Context(), classID, teacherID); repoErr != nil {
        if errors.Is(repoErr, repository.ErrClassNotFound) {
            return 0, 0, false, c.JSON(http.StatusNotFound, map[string]string{"error": "class not found"})
        }
        return 0, 0, false, c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return teacherID, classID, true, nil
}
