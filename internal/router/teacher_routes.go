package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/teachdesk/classroom-seating/internal/handler"
    "github.com/teachdesk/classroom-seating/internal/middleware"
)

// RegisterTeacher registers TEACHER-scoped endpoints under /v1.
// All routes require a valid JWT and the TEACHER or ADMIN role;
// per-class ownership checks happen inside the handlers.
func RegisterTeacher(e *echo.Echo, t *handler.TeacherHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("TEACHER", "ADMIN"),
    )

    // ---- Classes ----
    g.POST("/classes", t.CreateClass)
    g.GET("/classes", t.ListClasses)
    g.GET("/classes/:class_id", t.GetClass)
    g.PUT("/classes/:class_id", t.UpdateClass)
    g.PATCH("/classes/:class_id", t.UpdateClass)
    g.DELETE("/classes/:class_id", t.DeleteClass)

    // ---- Students ----
    g.POST("/students", t.CreateStudent)
    g.GET("/students", t.ListStudents)
    g.GET("/students/:id", t.GetStudent)
    g.PUT("/students/:id", t.UpdateStudent)
    g.PATCH("/students/:id", t.UpdateStudent)

    // ---- Roster ----
    g.POST("/classes/:class_id/roster", t.EnrollStudent)
    g.GET("/classes/:class_id/roster", t.ListRoster)
    g.PATCH("/classes/:class_id/roster/:id", t.UpdateRosterEntry)
    g.DELETE("/classes/:class_id/roster/:id", t.RemoveRosterEntry)

    // ---- Layouts ----
    g.POST("/layouts", t.CreateLayout)
    g.GET("/layouts", t.ListLayouts)
    g.GET("/layouts/:id", t.GetLayout)
    g.PUT("/layouts/:id", t.UpdateLayout)
    g.PATCH("/layouts/:id", t.UpdateLayout)
    g.DELETE("/layouts/:id", t.DeleteLayout)
    g.POST("/layouts/:layout_id/tables", t.CreateTable)
    g.PUT("/layouts/:layout_id/tables/:id", t.UpdateTable)
    g.PATCH("/layouts/:layout_id/tables/:id", t.UpdateTable)
    g.DELETE("/layouts/:layout_id/tables/:id", t.DeleteTable)
    g.POST("/layouts/:layout_id/tables/:id/seats", t.CreateSeats)
    g.DELETE("/layouts/:layout_id/tables/:id/seats/:seat_id", t.DeleteSeat)
    g.POST("/layouts/:layout_id/obstacles", t.CreateObstacle)
    g.DELETE("/layouts/:layout_id/obstacles/:id", t.DeleteObstacle)

    // ---- Seating periods ----
    g.POST("/classes/:class_id/periods", t.CreatePeriod)
    g.GET("/classes/:class_id/periods", t.ListPeriods)
    // The literal "current" segment must be registered before the
    // :id routes would otherwise shadow it.
    g.GET("/classes/:class_id/periods/current", t.GetCurrentPeriod)
    g.GET("/classes/:class_id/periods/:id", t.GetPeriod)
    g.PATCH("/classes/:class_id/periods/:id", t.UpdatePeriod)
    g.DELETE("/classes/:class_id/periods/:id", t.DeletePeriod)
    g.POST("/classes/:class_id/periods/:id/make-current", t.MakeCurrentPeriod)
    g.POST("/classes/:class_id/periods/:id/close", t.ClosePeriod)
    g.GET("/classes/:class_id/periods/:id/previous", t.PreviousPeriod)
    g.GET("/classes/:class_id/periods/:id/next", t.NextPeriod)

    // ---- Assignments ----
    g.POST("/classes/:class_id/periods/:period_id/assignments", t.CreateAssignment)
    g.GET("/classes/:class_id/periods/:period_id/assignments", t.ListAssignments)
    g.PUT("/classes/:class_id/periods/:period_id/assignments/:id", t.UpdateAssignment)
    g.PATCH("/classes/:class_id/periods/:period_id/assignments/:id", t.UpdateAssignment)
    g.DELETE("/classes/:class_id/periods/:period_id/assignments/:id", t.DeleteAssignment)
    g.GET("/classes/:class_id/periods/:period_id/groups/:number", t.ListGroupMembers)
    g.GET("/classes/:class_id/periods/:period_id/seats/:seat_id/mates", t.ListTableMates)

    // ---- Partnership history and ratings ----
    g.GET("/classes/:class_id/partnership-history", t.GetPartnershipHistory)
    g.GET("/classes/:class_id/ratings", t.GetRatingGrid)
    g.PUT("/classes/:class_id/ratings", t.SetRating)
    g.PUT("/classes/:class_id/ratings/bulk", t.BulkSetRatings)
    g.GET("/classes/:class_id/ratings/:student_a/:student_b", t.GetRating)
    g.DELETE("/classes/:class_id/ratings/:student_a/:student_b", t.DeleteRating)

    // ---- Chart generation ----
    g.POST("/classes/:class_id/seating-chart/generate", t.GenerateChart)
}
