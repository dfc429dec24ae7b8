package handler

import (
	"github.com/deppfellow/etudiants-api/internal/server"
	"github.com/deppfellow/etudiants-api/internal/service"
	"github.com/labstack/echo/v4"
)

// StudentHandler exposes the student operations under /api/etudiants.
type StudentHandler struct {
	Handler
	students *service.StudentService
}

func NewStudentHandler(s *server.Server, students *service.StudentService) *StudentHandler {
	return &StudentHandler{
		Handler:  NewHandler(s),
		students: students,
	}
}

func (h *StudentHandler) CreateStudent(c echo.Context, req *CreateStudentRequest) (*StudentResponse, error) {
	student, err := h.students.Create(c.Request().Context(), req.Student())
	if err != nil {
		return nil, err
	}

	return &StudentResponse{
		Success: true,
		Message: "Étudiant créé avec succès",
		Data:    student,
	}, nil
}

func (h *StudentHandler) ListStudents(c echo.Context, req *ListStudentsRequest) (*ListStudentsResponse, error) {
	res, err := h.students.ListPage(c.Request().Context(), service.ListParams{
		Page:   req.Page,
		Limit:  req.Limit,
		Sort:   req.Sort,
		Fields: req.Fields,
	})
	if err != nil {
		return nil, err
	}

	return &ListStudentsResponse{
		Success: true,
		Page:    res.Page,
		Limit:   res.Limit,
		Total:   res.Total,
		Count:   len(res.Data),
		Data:    res.Data,
	}, nil
}

func (h *StudentHandler) GetStudent(c echo.Context, req *StudentIDRequest) (*StudentResponse, error) {
	student, err := h.students.GetByID(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}

	return &StudentResponse{Success: true, Data: student}, nil
}

func (h *StudentHandler) UpdateStudent(c echo.Context, req *UpdateStudentRequest) (*StudentResponse, error) {
	student, err := h.students.Update(c.Request().Context(), req.ID, req.StudentPatch)
	if err != nil {
		return nil, err
	}

	return &StudentResponse{
		Success: true,
		Message: "Étudiant mis à jour avec succès",
		Data:    student,
	}, nil
}

func (h *StudentHandler) DeleteStudent(c echo.Context, req *StudentIDRequest) (*MessageResponse, error) {
	if err := h.students.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}

	return &MessageResponse{
		Success: true,
		Message: "Étudiant supprimé avec succès",
	}, nil
}

func (h *StudentHandler) SearchByFiliere(c echo.Context, req *FiliereRequest) (*FiliereResponse, error) {
	res, err := h.students.SearchByFiliere(c.Request().Context(), req.Filiere)
	if err != nil {
		return nil, err
	}

	return &FiliereResponse{
		Success: true,
		Count:   len(res.Data),
		Filiere: res.Filiere,
		Data:    res.Data,
	}, nil
}

func (h *StudentHandler) AdvancedSearch(c echo.Context, req *AdvancedSearchRequest) (*AdvancedSearchResponse, error) {
	res, err := h.students.AdvancedSearch(c.Request().Context(), req.Params())
	if err != nil {
		return nil, err
	}

	return &AdvancedSearchResponse{
		Success: true,
		Filters: res.Filters,
		Count:   len(res.Data),
		Data:    res.Data,
	}, nil
}
