package repository

import (
	"github.com/deppfellow/etudiants-api/internal/config"
	"github.com/deppfellow/etudiants-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Students StudentStore
}

// NewRepositories picks the student store for the configured driver.
//
// The mongo driver needs s.DB to be connected; the memory driver keeps
// everything in process and loses it on restart.
func NewRepositories(s *server.Server) *Repositories {
	if s.Config.Database.Driver == config.DriverMemory || s.DB == nil {
		s.Logger.Warn().Msg("using in-memory student store, data is not persisted")
		return &Repositories{Students: NewMemoryStudentStore()}
	}

	return &Repositories{
		Students: NewMongoStudentStore(s.DB.Collection(s.Config.Database.Collection)),
	}
}
