package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/deppfellow/etudiants-api/internal/errs"
	"github.com/deppfellow/etudiants-api/internal/model"
	"github.com/deppfellow/etudiants-api/internal/mongoerr"
	"github.com/deppfellow/etudiants-api/internal/repository"
	"github.com/deppfellow/etudiants-api/internal/validation"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = model.FieldNom
)

// WelcomeNotifier schedules the welcome email of a new student.
// *job.JobService implements it.
type WelcomeNotifier interface {
	EnqueueWelcomeEmail(ctx context.Context, to, prenom, nom string) error
}

// StudentService implements the student operations on top of a StudentStore.
// Every error it returns is an *errs.HTTPError.
type StudentService struct {
	store    repository.StudentStore
	notifier WelcomeNotifier
	logger   *zerolog.Logger
}

// NewStudentService builds the service. notifier may be nil.
func NewStudentService(store repository.StudentStore, notifier WelcomeNotifier, logger *zerolog.Logger) *StudentService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &StudentService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// ListParams are the raw listing query parameters.
type ListParams struct {
	Page   string
	Limit  string
	Sort   string
	Fields string
}

type ListResult struct {
	Page  int64
	Limit int64
	Total int64
	Data  []bson.M
}

type FiliereResult struct {
	Filiere string
	Data    []model.Student
}

// AdvancedSearchParams are the raw advanced search query parameters. They
// are echoed back to the caller as received.
type AdvancedSearchParams struct {
	Nom        string `json:"nom,omitempty"`
	Filiere    string `json:"filiere,omitempty"`
	AnneeMin   string `json:"anneeMin,omitempty"`
	AnneeMax   string `json:"anneeMax,omitempty"`
	MoyenneMin string `json:"moyenneMin,omitempty"`
}

type AdvancedSearchResult struct {
	Filters AdvancedSearchParams
	Data    []model.Student
}

// logFor prefers the request-scoped logger carried by ctx.
func (s *StudentService) logFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

func internalError(err error) *errs.HTTPError {
	return errs.NewInternalServerError(err.Error())
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.NewInvalidIDError()
	}
	return oid, nil
}

// Create inserts a new student.
//
// The (nom, prenom) pair is checked before writing. The check and the insert
// are two separate store calls, so concurrent creates of the same pair can
// both succeed.
func (s *StudentService) Create(ctx context.Context, student model.Student) (*model.Student, error) {
	exists, err := s.store.ExistsByName(ctx, student.Nom, student.Prenom, nil)
	if err != nil {
		return nil, internalError(err)
	}
	if exists {
		return nil, errs.NewDuplicateNameError()
	}

	if err := s.store.Create(ctx, &student); err != nil {
		switch mongoerr.ErrCode(err) {
		case mongoerr.Validation:
			var ve *model.ValidationError
			errors.As(err, &ve)
			return nil, errs.NewInvalidInputError(ve.Error(), ve.Fields)
		case mongoerr.DuplicateKey:
			if mongoerr.DuplicateKeyField(err) == model.FieldEmail {
				return nil, errs.NewDuplicateEmailError()
			}
			return nil, errs.NewInvalidInputError(err.Error(), nil)
		}
		return nil, internalError(err)
	}

	s.logFor(ctx).Info().
		Str("student_id", student.ID.Hex()).
		Msg("student created")

	if s.notifier != nil {
		if err := s.notifier.EnqueueWelcomeEmail(ctx, student.Email, student.Prenom, student.Nom); err != nil {
			s.logFor(ctx).Error().
				Err(err).
				Str("student_id", student.ID.Hex()).
				Msg("failed to enqueue welcome email")
		}
	}

	return &student, nil
}

// positiveOr parses a positive integer, falling back to def on anything else.
func positiveOr(raw string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ListPage returns one page of students with the collection size.
//
// Out of range pages are not an error; they return no data.
func (s *StudentService) ListPage(ctx context.Context, params ListParams) (*ListResult, error) {
	page := positiveOr(params.Page, DefaultPage)
	limit := positiveOr(params.Limit, DefaultLimit)

	sort := repository.ParseSort(params.Sort)
	if len(sort) == 0 {
		sort = repository.ParseSort(DefaultSort)
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, internalError(err)
	}

	// A skip past MaxInt64 is past any collection.
	if page-1 > math.MaxInt64/limit {
		return &ListResult{
			Page:  page,
			Limit: limit,
			Total: total,
			Data:  []bson.M{},
		}, nil
	}

	docs, err := s.store.Find(ctx, repository.ListOptions{
		Skip:   (page - 1) * limit,
		Limit:  limit,
		Sort:   sort,
		Fields: repository.ParseFields(params.Fields),
	})
	if err != nil {
		return nil, internalError(err)
	}

	return &ListResult{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  docs,
	}, nil
}

// GetByID returns one student. A malformed id never reaches the store.
func (s *StudentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	student, err := s.store.FindByID(ctx, oid)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, errs.NewStudentNotFoundError()
	case err != nil:
		return nil, internalError(err)
	}
	return student, nil
}

// Update applies the allow-listed patch and returns the updated student.
//
// When both nom and prenom are set, the pair must not belong to another
// student. Keeping a student's own pair is allowed.
func (s *StudentService) Update(ctx context.Context, id string, patch model.StudentPatch) (*model.Student, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if patch.HasName() {
		exists, err := s.store.ExistsByName(ctx, *patch.Nom, *patch.Prenom, &oid)
		if err != nil {
			return nil, internalError(err)
		}
		if exists {
			return nil, errs.NewDuplicateNameError()
		}
	}

	student, err := s.store.UpdateByID(ctx, oid, &patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NewStudentNotFoundError()
		}

		switch mongoerr.ErrCode(err) {
		case mongoerr.Validation:
			var ve *model.ValidationError
			errors.As(err, &ve)
			return nil, errs.NewUpdateError(ve.Error(), ve.Fields)
		case mongoerr.DuplicateKey:
			return nil, errs.NewUpdateError(err.Error(), nil)
		}
		return nil, internalError(err)
	}

	s.logFor(ctx).Info().
		Str("student_id", oid.Hex()).
		Msg("student updated")

	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	err = s.store.DeleteByID(ctx, oid)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errs.NewStudentNotFoundError()
	case err != nil:
		return internalError(err)
	}

	s.logFor(ctx).Info().
		Str("student_id", oid.Hex()).
		Msg("student deleted")
	return nil
}

// SearchByFiliere returns the students whose filiere equals filiere,
// ignoring case. The value is matched literally.
func (s *StudentService) SearchByFiliere(ctx context.Context, filiere string) (*FiliereResult, error) {
	students, err := s.store.Search(ctx, repository.StudentFilter{Filiere: filiere}, nil)
	if err != nil {
		return nil, internalError(err)
	}

	return &FiliereResult{
		Filiere: filiere,
		Data:    students,
	}, nil
}

// AdvancedSearch returns active students matching every given criterion,
// sorted by nom.
func (s *StudentService) AdvancedSearch(ctx context.Context, params AdvancedSearchParams) (*AdvancedSearchResult, error) {
	actif := true
	filter := repository.StudentFilter{
		Actif:       &actif,
		NomContains: params.Nom,
		Filiere:     params.Filiere,
	}

	var invalid validation.CustomValidationErrors

	if params.AnneeMin != "" {
		n, err := strconv.Atoi(strings.TrimSpace(params.AnneeMin))
		if err != nil {
			invalid = append(invalid, validation.CustomValidationError{Field: "anneeMin", Message: "must be an integer"})
		} else {
			filter.AnneeMin = &n
		}
	}

	if params.AnneeMax != "" {
		n, err := strconv.Atoi(strings.TrimSpace(params.AnneeMax))
		if err != nil {
			invalid = append(invalid, validation.CustomValidationError{Field: "anneeMax", Message: "must be an integer"})
		} else {
			filter.AnneeMax = &n
		}
	}

	if params.MoyenneMin != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(params.MoyenneMin), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			invalid = append(invalid, validation.CustomValidationError{Field: "moyenneMin", Message: "must be a number"})
		} else {
			filter.MoyenneMin = &f
		}
	}

	if len(invalid) > 0 {
		return nil, errs.NewInvalidInputError(invalid.Error(), validation.FieldErrors(invalid))
	}

	students, err := s.store.Search(ctx, filter, repository.ParseSort(DefaultSort))
	if err != nil {
		return nil, internalError(err)
	}

	return &AdvancedSearchResult{
		Filters: params,
		Data:    students,
	}, nil
}
