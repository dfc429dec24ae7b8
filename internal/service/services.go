// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives bound request data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/etudiants-api/internal/lib/job"
	"github.com/deppfellow/etudiants-api/internal/repository"
	"github.com/deppfellow/etudiants-api/internal/server"
)

type Services struct {
	Students *StudentService
	Job      *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var notifier WelcomeNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Students: NewStudentService(repos.Students, notifier, s.Logger),
		Job:      s.Job,
	}, nil
}
