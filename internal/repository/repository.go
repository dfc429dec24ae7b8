// Package repository handles all interactions with the document store.
//
// It contains the store queries and methods to fetch, persist,
// or update students, abstracting driver details away from the service
// layer. Two stores implement StudentStore: MongoDB and an in-memory
// store used for local runs and tests.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/etudiants-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no student has the requested identifier.
var ErrNotFound = errors.New("student not found")

// SortField is one key of a sort order.
type SortField struct {
	Field string
	Desc  bool
}

// ListOptions drives a paginated listing.
type ListOptions struct {
	Skip  int64
	Limit int64
	Sort  []SortField

	// Fields is an inclusion projection. Empty means every field.
	Fields []string
}

// StudentStore is the document store the student service works against.
//
// Create and UpdateByID validate the document before writing and return a
// *model.ValidationError when it breaks the schema. A violated unique index
// is reported as a driver duplicate key error.
type StudentStore interface {
	// ExistsByName reports whether a student with exactly this nom and prenom
	// exists. A non-nil exclude ignores that identifier.
	ExistsByName(ctx context.Context, nom, prenom string, exclude *primitive.ObjectID) (bool, error)

	// Create inserts s, filling its identifier and timestamps.
	Create(ctx context.Context, s *model.Student) error

	// Find returns one page of students as raw documents, so that
	// projected fields are the only keys present.
	Find(ctx context.Context, opts ListOptions) ([]bson.M, error)

	// Count returns the number of students in the collection.
	Count(ctx context.Context) (int64, error)

	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Student, error)

	// UpdateByID applies the patch and returns the updated student.
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch *model.StudentPatch) (*model.Student, error)

	DeleteByID(ctx context.Context, id primitive.ObjectID) error

	// Search returns every student matching the filter in the given order.
	Search(ctx context.Context, filter StudentFilter, sort []SortField) ([]model.Student, error)
}
