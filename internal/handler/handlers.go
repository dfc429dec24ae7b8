package handler

import (
	"github.com/deppfellow/etudiants-api/internal/server"
	"github.com/deppfellow/etudiants-api/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives a single object.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Students *StudentHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Students: NewStudentHandler(s, services.Students),
	}
}
