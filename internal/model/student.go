// Package model holds the student document and its schema rules.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/deppfellow/etudiants-api/internal/errs"
	"github.com/deppfellow/etudiants-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document field names, shared by filters, sorts and projections.
const (
	FieldID        = "_id"
	FieldNom       = "nom"
	FieldPrenom    = "prenom"
	FieldEmail     = "email"
	FieldFiliere   = "filiere"
	FieldAnnee     = "annee"
	FieldMoyenne   = "moyenne"
	FieldActif     = "actif"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Student is a student record as stored in the "etudiants" collection.
type Student struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Nom       string             `json:"nom" bson:"nom" validate:"required"`
	Prenom    string             `json:"prenom" bson:"prenom" validate:"required"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Filiere   string             `json:"filiere" bson:"filiere"`
	Annee     int                `json:"annee" bson:"annee" validate:"omitempty,min=1,max=8"`
	Moyenne   float64            `json:"moyenne" bson:"moyenne" validate:"min=0,max=20"`
	Actif     bool               `json:"actif" bson:"actif"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks the document against the schema rules.
func (s *Student) Validate() error {
	return schemaError(validation.Struct(s))
}

// StudentPatch is the allow-listed set of fields an update may change.
// A nil pointer means "leave unchanged"; any other key of the request body is
// discarded when the body is decoded into this type.
type StudentPatch struct {
	Nom     *string  `json:"nom" validate:"omitnil,min=1"`
	Prenom  *string  `json:"prenom" validate:"omitnil,min=1"`
	Email   *string  `json:"email" validate:"omitnil,email"`
	Filiere *string  `json:"filiere"`
	Annee   *int     `json:"annee" validate:"omitnil,min=1,max=8"`
	Moyenne *float64 `json:"moyenne" validate:"omitnil,min=0,max=20"`
	Actif   *bool    `json:"actif"`
}

// Validate checks the fields present in the patch.
func (p *StudentPatch) Validate() error {
	return schemaError(validation.Struct(p))
}

// IsEmpty reports whether the patch changes nothing.
func (p *StudentPatch) IsEmpty() bool {
	return p.Nom == nil && p.Prenom == nil && p.Email == nil && p.Filiere == nil &&
		p.Annee == nil && p.Moyenne == nil && p.Actif == nil
}

// HasName reports whether both nom and prenom are being set.
func (p *StudentPatch) HasName() bool {
	return p.Nom != nil && p.Prenom != nil
}

// SetDocument returns the $set document for the patch.
func (p *StudentPatch) SetDocument() bson.M {
	set := bson.M{}
	if p.Nom != nil {
		set[FieldNom] = *p.Nom
	}
	if p.Prenom != nil {
		set[FieldPrenom] = *p.Prenom
	}
	if p.Email != nil {
		set[FieldEmail] = *p.Email
	}
	if p.Filiere != nil {
		set[FieldFiliere] = *p.Filiere
	}
	if p.Annee != nil {
		set[FieldAnnee] = *p.Annee
	}
	if p.Moyenne != nil {
		set[FieldMoyenne] = *p.Moyenne
	}
	if p.Actif != nil {
		set[FieldActif] = *p.Actif
	}
	return set
}

// ApplyTo copies the present fields onto s.
func (p *StudentPatch) ApplyTo(s *Student) {
	if p.Nom != nil {
		s.Nom = *p.Nom
	}
	if p.Prenom != nil {
		s.Prenom = *p.Prenom
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Filiere != nil {
		s.Filiere = *p.Filiere
	}
	if p.Annee != nil {
		s.Annee = *p.Annee
	}
	if p.Moyenne != nil {
		s.Moyenne = *p.Moyenne
	}
	if p.Actif != nil {
		s.Actif = *p.Actif
	}
}

// ValidationError is returned by the store when a document breaks the schema.
type ValidationError struct {
	Fields []errs.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "etudiant validation failed: " + strings.Join(parts, ", ")
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func schemaError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Fields: validation.FieldErrors(err)}
}
