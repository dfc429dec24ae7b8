package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func validStudent() Student {
	return Student{
		Nom:     "Durand",
		Prenom:  "Camille",
		Email:   "camille.durand@example.com",
		Filiere: "Informatique",
		Annee:   2,
		Moyenne: 14.5,
		Actif:   true,
	}
}

func TestStudent_Validate(t *testing.T) {
	s := validStudent()
	require.NoError(t, s.Validate())

	s.Annee = 0
	assert.NoError(t, s.Validate(), "annee is optional")

	s.Moyenne = 0
	assert.NoError(t, s.Validate())
}

func TestStudent_ValidateFailures(t *testing.T) {
	s := validStudent()
	s.Nom = ""
	s.Email = "not-an-email"
	s.Annee = 9
	s.Moyenne = 21

	err := s.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := map[string]string{}
	for _, f := range ve.Fields {
		fields[f.Field] = f.Error
	}
	assert.Equal(t, "is required", fields[FieldNom])
	assert.Equal(t, "must be a valid email address", fields[FieldEmail])
	assert.Equal(t, "must not exceed 8", fields[FieldAnnee])
	assert.Equal(t, "must not exceed 20", fields[FieldMoyenne])
	assert.Contains(t, err.Error(), "etudiant validation failed: ")
}

func TestIsValidationError(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &ValidationError{})

	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.False(t, IsValidationError(nil))
}

func TestStudentPatch(t *testing.T) {
	empty := StudentPatch{}
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.HasName())
	assert.NoError(t, empty.Validate())
	assert.Empty(t, empty.SetDocument())

	nom := "Martin"
	annee := 3
	actif := false
	patch := StudentPatch{Nom: &nom, Annee: &annee, Actif: &actif}

	assert.False(t, patch.IsEmpty())
	assert.False(t, patch.HasName())
	assert.Equal(t, bson.M{FieldNom: "Martin", FieldAnnee: 3, FieldActif: false}, patch.SetDocument())

	s := validStudent()
	patch.ApplyTo(&s)
	assert.Equal(t, "Martin", s.Nom)
	assert.Equal(t, "Camille", s.Prenom)
	assert.Equal(t, 3, s.Annee)
	assert.False(t, s.Actif)
}

func TestStudentPatch_Validate(t *testing.T) {
	email := "bad"
	moyenne := -1.0
	empty := ""
	patch := StudentPatch{Email: &email, Moyenne: &moyenne, Prenom: &empty}

	err := patch.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
}
