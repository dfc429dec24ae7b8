package handler

import (
	"github.com/deppfellow/etudiants-api/internal/errs"
	"github.com/deppfellow/etudiants-api/internal/model"
	"github.com/deppfellow/etudiants-api/internal/service"
	"github.com/deppfellow/etudiants-api/internal/validation"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Requests. Path and query fields are tagged json:"-" so a request body can
// never overwrite them.
//
// Schema rules are enforced by the store, which reports them with the
// INVALID_INPUT or UPDATE_FAILED code, so Validate only guards binding.

type CreateStudentRequest struct {
	Nom     string  `json:"nom"`
	Prenom  string  `json:"prenom"`
	Email   string  `json:"email"`
	Filiere string  `json:"filiere"`
	Annee   int     `json:"annee"`
	Moyenne float64 `json:"moyenne"`
	Actif   *bool   `json:"actif"`
}

func (r *CreateStudentRequest) Validate() error { return nil }

// Student builds the document to insert; actif defaults to true.
func (r *CreateStudentRequest) Student() model.Student {
	actif := true
	if r.Actif != nil {
		actif = *r.Actif
	}
	return model.Student{
		Nom:     r.Nom,
		Prenom:  r.Prenom,
		Email:   r.Email,
		Filiere: r.Filiere,
		Annee:   r.Annee,
		Moyenne: r.Moyenne,
		Actif:   actif,
	}
}

type ListStudentsRequest struct {
	Page   string `query:"page" json:"-"`
	Limit  string `query:"limit" json:"-"`
	Sort   string `query:"sort" json:"-"`
	Fields string `query:"fields" json:"-"`
}

func (r *ListStudentsRequest) Validate() error { return nil }

type StudentIDRequest struct {
	ID string `param:"id" json:"-"`
}

func (r *StudentIDRequest) Validate() error { return nil }

// UpdateStudentRequest decodes the body into the allow-listed patch; any
// other key is dropped.
type UpdateStudentRequest struct {
	ID string `param:"id" json:"-"`
	model.StudentPatch
}

func (r *UpdateStudentRequest) Validate() error { return nil }

// Bind checks the path id before reading the body. A body that does not
// decode is reported as a failed update.
func (r *UpdateStudentRequest) Bind(c echo.Context) error {
	binder := &echo.DefaultBinder{}

	if err := binder.BindPathParams(c, r); err != nil {
		return err
	}
	if !primitive.IsValidObjectID(r.ID) {
		return errs.NewInvalidIDError()
	}

	if err := binder.BindBody(c, r); err != nil {
		return errs.NewUpdateError(validation.BindMessage(err), nil)
	}
	return nil
}

type FiliereRequest struct {
	Filiere string `param:"filiere" json:"-"`
}

func (r *FiliereRequest) Validate() error { return nil }

type AdvancedSearchRequest struct {
	Nom        string `query:"nom" json:"-"`
	Filiere    string `query:"filiere" json:"-"`
	AnneeMin   string `query:"anneeMin" json:"-"`
	AnneeMax   string `query:"anneeMax" json:"-"`
	MoyenneMin string `query:"moyenneMin" json:"-"`
}

func (r *AdvancedSearchRequest) Validate() error { return nil }

func (r *AdvancedSearchRequest) Params() service.AdvancedSearchParams {
	return service.AdvancedSearchParams{
		Nom:        r.Nom,
		Filiere:    r.Filiere,
		AnneeMin:   r.AnneeMin,
		AnneeMax:   r.AnneeMax,
		MoyenneMin: r.MoyenneMin,
	}
}

// Responses. Every body carries "success"; counts are never omitted.

type StudentResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    *model.Student `json:"data"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ListStudentsResponse struct {
	Success bool     `json:"success"`
	Page    int64    `json:"page"`
	Limit   int64    `json:"limit"`
	Total   int64    `json:"total"`
	Count   int      `json:"count"`
	Data    []bson.M `json:"data"`
}

func (r *ListStudentsResponse) ResultCount() int { return r.Count }

type FiliereResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Filiere string          `json:"filiere"`
	Data    []model.Student `json:"data"`
}

func (r *FiliereResponse) ResultCount() int { return r.Count }

type AdvancedSearchResponse struct {
	Success bool                         `json:"success"`
	Filters service.AdvancedSearchParams `json:"filters"`
	Count   int                          `json:"count"`
	Data    []model.Student              `json:"data"`
}

func (r *AdvancedSearchResponse) ResultCount() int { return r.Count }
