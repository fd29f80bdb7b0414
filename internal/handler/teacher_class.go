package handler // handler package contains teacher-facing class handlers

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/repository"
)

// CreateClass handles POST /v1/classes.
func (h *TeacherHandler) CreateClass(c echo.Context) error {
    teacherID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    var body struct {
        Name        string  `json:"name"`
        Subject     string  `json:"subject"`
        GradeLevel  *string `json:"grade_level"`
        Description *string `json:"description"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Subject) == "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "name and subject are required"})
    }
    class := &model.Class{
        TeacherID:   teacherID,
        Name:        strings.TrimSpace(body.Name),
        Subject:     strings.TrimSpace(body.Subject),
        GradeLevel:  body.GradeLevel,
        Description: body.Description,
    }
    if err := h.ClassRepo.Create(c.Request().Context(), class); err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create class"})
    }
    return c.JSON(http.StatusCreated, class)
}

// ListClasses handles GET /v1/classes and returns only the caller's classes.
func (h *TeacherHandler) ListClasses(c echo.Context) error {
    teacherID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    classes, err := h.ClassRepo.ListByTeacher(c.Request().Context(), teacherID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, classes)
}

// GetClass handles GET /v1/classes/:class_id.
func (h *TeacherHandler) GetClass(c echo.Context) error {
    teacherID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    classID, err := paramID(c, "class_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid class id"})
    }
    class, err := h.ClassRepo.GetByIDAndTeacher(c.Request().Context(), classID, teacherID)
    if err != nil {
        if errors.Is(err, repository.ErrClassNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "class not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, class)
}

// UpdateClass handles PUT/PATCH /v1/classes/:class_id.  Omitted
// fields keep their current values.
func (h *TeacherHandler) UpdateClass(c echo.Context) error {
    teacherID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    classID, err := paramID(c, "class_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid class id"})
    }
    cur, err := h.ClassRepo.GetByIDAndTeacher(c.Request().Context(), classID, teacherID)
    if err != nil {
        if errors.Is(err, repository.ErrClassNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "class not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    var body struct {
        Name        *string `json:"name"`
        Subject     *string `json:"subject"`
        GradeLevel  *string `json:"grade_level"`
        Description *string `json:"description"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
        cur.Name = strings.TrimSpace(*body.Name)
    }
    if body.Subject != nil && strings.TrimSpace(*body.Subject) != "" {
        cur.Subject = strings.TrimSpace(*body.Subject)
    }
    if body.GradeLevel != nil {
        if s := strings.TrimSpace(*body.GradeLevel); s == "" {
            cur.GradeLevel = nil // empty string clears the grade level
        } else {
            cur.GradeLevel = &s
        }
    }
    if body.Description != nil {
        if s := strings.TrimSpace(*body.Description); s == "" {
            cur.Description = nil
        } else {
            cur.Description = &s
        }
    }
    if err := h.ClassRepo.Update(c.Request().Context(), cur); err != nil {
        if errors.Is(err, repository.ErrClassNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "class not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update class"})
    }
    return c.JSON(http.StatusOK, cur)
}

// DeleteClass handles DELETE /v1/classes/:class_id.  A class that
// still has seating periods cannot be deleted.
func (h *TeacherHandler) DeleteClass(c echo.Context) error {
    teacherID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    classID, err := paramID(c, "class_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid class id"})
    }
    if err := h.ClassRepo.Delete(c.Request().Context(), classID, teacherID); err != nil {
        switch {
        case errors.Is(err, repository.ErrClassNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "class not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, map[string]string{"error": "class has seating periods; delete them first"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete class"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ---- Roster ----

// EnrollStudent handles POST /v1/classes/:class_id/roster.
func (h *TeacherHandler) EnrollStudent(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    var body struct {
        StudentID      uint64  `json:"student_id"`
        EnrollmentDate *string `json:"enrollment_date"` // YYYY-MM-DD, defaults to today
        Notes          string  `json:"notes"`
    }
    if err := c.Bind(&body); err != nil || body.StudentID == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "student_id required"})
    }
    if _, err := h.StudentRepo.GetByID(c.Request().Context(), body.StudentID); err != nil {
        if errors.Is(err, repository.ErrStudentNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "student not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    enrolled := time.Now().UTC().Truncate(24 * time.Hour)
    if body.EnrollmentDate != nil {
        d, err := time.Parse("2006-01-02", *body.EnrollmentDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "enrollment_date must be YYYY-MM-DD"})
        }
        enrolled = d
    }
    entry := &model.RosterEntry{
        ClassID:        classID,
        StudentID:      body.StudentID,
        IsActive:       true,
        EnrollmentDate: enrolled,
        Notes:          body.Notes,
    }
    if err := h.RosterRepo.Enroll(c.Request().Context(), entry); err != nil {
        if errors.Is(err, repository.ErrAlreadyEnrolled) {
            return c.JSON(http.StatusConflict, map[string]string{"error": "student already enrolled"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not enroll student"})
    }
    return c.JSON(http.StatusCreated, entry)
}

// ListRoster handles GET /v1/classes/:class_id/roster.
func (h *TeacherHandler) ListRoster(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    entries, err := h.RosterRepo.ListByClass(c.Request().Context(), classID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, entries)
}

// UpdateRosterEntry handles PATCH /v1/classes/:class_id/roster/:id
// for toggling is_active and editing notes.
func (h *TeacherHandler) UpdateRosterEntry(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    entryID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid roster id"})
    }
    cur, err := h.RosterRepo.GetByID(c.Request().Context(), classID, entryID)
    if err != nil {
        if errors.Is(err, repository.ErrRosterEntryNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "roster entry not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    var body struct {
        IsActive *bool   `json:"is_active"`
        Notes    *string `json:"notes"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.IsActive != nil {
        cur.IsActive = *body.IsActive
    }
    if body.Notes != nil {
        cur.Notes = *body.Notes
    }
    if err := h.RosterRepo.Update(c.Request().Context(), cur); err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update roster entry"})
    }
    return c.JSON(http.StatusOK, cur)
}

// RemoveRosterEntry handles DELETE /v1/classes/:class_id/roster/:id.
// Entries with seating history cannot be hard-deleted.
func (h *TeacherHandler) RemoveRosterEntry(c echo.Context) error {
    _, classID, ok, err := h.classForTeacher(c)
    if !ok {
        return err
    }
    entryID, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid roster id"})
    }
    if err := h.RosterRepo.Remove(c.Request().Context(), classID, entryID); err != nil {
        switch {
        case errors.Is(err, repository.ErrRosterEntryNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "roster entry not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, map[string]string{"error": "student has seating history; deactivate instead"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not remove roster entry"})
    }
    return c.NoContent(http.StatusNoContent)
}
