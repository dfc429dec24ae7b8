package router

import (
	"net/http"

	"github.com/deppfellow/etudiants-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerStudentRoutes mounts the student API on g (/api/etudiants).
func registerStudentRoutes(g *echo.Group, h *handler.Handlers) {
	students := h.Students

	g.POST("", handler.Handle(students.Handler, students.CreateStudent, http.StatusCreated, &handler.CreateStudentRequest{}))
	g.GET("", handler.Handle(students.Handler, students.ListStudents, http.StatusOK, &handler.ListStudentsRequest{}))

	g.GET("/search/advanced", handler.Handle(students.Handler, students.AdvancedSearch, http.StatusOK, &handler.AdvancedSearchRequest{}))
	g.GET("/filiere/:filiere", handler.Handle(students.Handler, students.SearchByFiliere, http.StatusOK, &handler.FiliereRequest{}))

	g.GET("/:id", handler.Handle(students.Handler, students.GetStudent, http.StatusOK, &handler.StudentIDRequest{}))
	g.PUT("/:id", handler.Handle(students.Handler, students.UpdateStudent, http.StatusOK, &handler.UpdateStudentRequest{}))
	g.DELETE("/:id", handler.Handle(students.Handler, students.DeleteStudent, http.StatusOK, &handler.StudentIDRequest{}))
}
