package handler // handler package contains partnership history and rating handlers

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/repository"
    "github.com/teachdesk/classroom-seating/internal/seating"
)

// GetPartnershipHistory handles GET /v1/classes/:class_id/partnership-history.
// Only closed periods contribute; the current chart never appears in
// history until it has an end date.
func (h *TeacherHandler) GetPartnershipHistory(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    periods, students, err := h.AssignmentRepo.HistoryByClass(c.Request().Context(), classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    history := seating.BuildPartnershipHistory(periods, students)
    return c.JSON(http.StatusOK, history)
}

// GetRating handles GET /v1/classes/:class_id/ratings/:student_a/:student_b.
// Pairs with no stored rating read as neutral zero.
func (h *TeacherHandler) GetRating(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    a, errA := paramID(c, "student_a")
    b, errB := paramID(c, "student_b")
    if errA != nil || errB != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid student ids"})
    }
    rating, err := h.RatingRepo.Get(c.Request().Context(), classID, a, b)
    if err != nil {
        if errors.Is(err, repository.ErrSelfRating) {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "students must differ"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    sa, sb := model.CanonicalPair(a, b)
    return c.JSON(http.StatusOK, echo.Map{
        "class_id":  classID,
        "student_a": sa,
        "student_b": sb,
        "rating":    rating,
    })
}

// SetRating handles PUT /v1/classes/:class_id/ratings.  The pair is
// canonicalized; both students must be on the class roster.
func (h *TeacherHandler) SetRating(c echo.Context) error {
    teacherID, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    var body struct {
        StudentA uint64 `json:"student_a"`
        StudentB uint64 `json:"student_b"`
        Rating   int    `json:"rating"`
        Notes    string `json:"notes"`
    }
    if err := c.Bind(&body); err != nil || body.StudentA == 0 || body.StudentB == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "student_a and student_b are required"})
    }
    if body.StudentA == body.StudentB {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "students must differ"})
    }
    if !model.ValidRating(body.Rating) {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "rating must be between -2 and 2"})
    }
    for _, sid := range []uint64{body.StudentA, body.StudentB} {
        enrolled, err := h.RosterRepo.IsEnrolled(c.Request().Context(), classID, sid)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
        }
        if !enrolled {
            return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "student is not on this class's roster"})
        }
    }
    rating := &model.PartnershipRating{
        ClassID:   classID,
        StudentA:  body.StudentA,
        StudentB:  body.StudentB,
        Rating:    body.Rating,
        CreatedBy: teacherID,
        Notes:     body.Notes,
    }
    if err := h.RatingRepo.Set(c.Request().Context(), rating); err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not save rating"})
    }
    return c.JSON(http.StatusOK, rating)
}

// BulkSetRatings handles PUT /v1/classes/:class_id/ratings/bulk.
// Items succeed or fail individually; the response mirrors the
// input order.
func (h *TeacherHandler) BulkSetRatings(c echo.Context) error {
    teacherID, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    var body struct {
        Ratings []struct {
            StudentA uint64 `json:"student_a"`
            StudentB uint64 `json:"student_b"`
            Rating   int    `json:"rating"`
            Notes    string `json:"notes"`
        } `json:"ratings"`
    }
    if err := c.Bind(&body); err != nil || len(body.Ratings) == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "ratings required"})
    }
    studentIDs, err := h.RosterRepo.ActiveStudentIDs(c.Request().Context(), classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    enrolled := make(map[uint64]bool, len(studentIDs))
    for _, id := range studentIDs {
        enrolled[id] = true
    }
    items := make([]model.PartnershipRating, 0, len(body.Ratings))
    for _, r := range body.Ratings {
        items = append(items, model.PartnershipRating{
            ClassID:   classID,
            StudentA:  r.StudentA,
            StudentB:  r.StudentB,
            Rating:    r.Rating,
            CreatedBy: teacherID,
            Notes:     r.Notes,
        })
    }
    results, err := h.RatingRepo.BulkSet(c.Request().Context(), items, enrolled)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"results": results})
}

// GetRatingGrid handles GET /v1/classes/:class_id/ratings and
// returns the full symmetric matrix over the active roster, with
// unrated pairs as zero.
func (h *TeacherHandler) GetRatingGrid(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    studentIDs, err := h.RosterRepo.ActiveStudentIDs(c.Request().Context(), classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    grid, err := h.RatingRepo.Grid(c.Request().Context(), classID, studentIDs)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"students": studentIDs, "grid": grid})
}

// DeleteRating handles DELETE /v1/classes/:class_id/ratings/:student_a/:student_b
// and reverts the pair to the neutral default.
func (h *TeacherHandler) DeleteRating(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    a, errA := paramID(c, "student_a")
    b, errB := paramID(c, "student_b")
    if errA != nil || errB != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid student ids"})
    }
    if err := h.RatingRepo.Delete(c.Request().Context(), classID, a, b); err != nil {
        return c.JSON(http.StatusNotFound, map[string]string{"error": "rating not found"})
    }
    return c.NoContent(http.StatusNoContent)
}
