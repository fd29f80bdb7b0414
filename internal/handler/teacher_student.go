package handler // handler package contains teacher-facing student handlers

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/model"
    "github.com/teachdesk/classroom-seating/internal/repository"
)

// CreateStudent handles POST /v1/students.  Student records are
// school-wide; enrollment into classes happens through the roster.
func (h *TeacherHandler) CreateStudent(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    var body struct {
        StudentCode string  `json:"student_code"`
        FirstName   string  `json:"first_name"`
        LastName    string  `json:"last_name"`
        Email       *string `json:"email"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if strings.TrimSpace(body.StudentCode) == "" || strings.TrimSpace(body.FirstName) == "" || strings.TrimSpace(body.LastName) == "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "student_code, first_name and last_name are required"})
    }
    student := &model.Student{
        StudentCode: body.StudentCode,
        FirstName:   body.FirstName,
        LastName:    body.LastName,
        Email:       body.Email,
        IsActive:    true,
    }
    if err := h.StudentRepo.Create(c.Request().Context(), student); err != nil {
        if errors.Is(err, repository.ErrStudentCodeExists) {
            return c.JSON(http.StatusConflict, map[string]string{"error": "student code already exists"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create student"})
    }
    return c.JSON(http.StatusCreated, student)
}

// ListStudents handles GET /v1/students.  Pass ?active=true to
// exclude students who left the school.
func (h *TeacherHandler) ListStudents(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    activeOnly := strings.EqualFold(c.QueryParam("active"), "true")
    students, err := h.StudentRepo.List(c.Request().Context(), activeOnly)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, students)
}

// GetStudent handles GET /v1/students/:id.
func (h *TeacherHandler) GetStudent(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid student id"})
    }
    student, err := h.StudentRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrStudentNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "student not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, student)
}

// UpdateStudent handles PUT/PATCH /v1/students/:id.
func (h *TeacherHandler) UpdateStudent(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    id, err := paramID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid student id"})
    }
    cur, err := h.StudentRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrStudentNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "student not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    var body struct {
        FirstName *string `json:"first_name"`
        LastName  *string `json:"last_name"`
        Email     *string `json:"email"`
        IsActive  *bool   `json:"is_active"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.FirstName != nil && strings.TrimSpace(*body.FirstName) != "" {
        cur.FirstName = strings.TrimSpace(*body.FirstName)
    }
    if body.LastName != nil && strings.TrimSpace(*body.LastName) != "" {
        cur.LastName = strings.TrimSpace(*body.LastName)
    }
    if body.Email != nil {
        if s := strings.TrimSpace(*body.Email); s == "" {
            cur.Email = nil // empty string clears the email
        } else {
            cur.Email = &s
        }
    }
    if body.IsActive != nil {
        cur.IsActive = *body.IsActive
    }
    if err := h.StudentRepo.Update(c.Request().Context(), cur); err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update student"})
    }
    return c.JSON(http.StatusOK, cur)
}
