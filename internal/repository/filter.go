package repository

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/deppfellow/etudiants-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentFilter selects students. Zero-valued fields do not filter.
type StudentFilter struct {
	// Actif restricts to active or inactive students.
	Actif *bool

	// NomContains is a case-insensitive substring of nom.
	NomContains string

	// Filiere is a case-insensitive match of the whole filiere value.
	Filiere string

	// AnneeMin and AnneeMax are inclusive bounds on annee.
	AnneeMin *int
	AnneeMax *int

	// MoyenneMin is an inclusive lower bound on moyenne.
	MoyenneMin *float64
}

// ExactPattern matches the whole value, with s taken literally. \z is used
// instead of $, which also matches before a trailing newline.
func ExactPattern(s string) string {
	return "^" + regexp.QuoteMeta(s) + `\z`
}

// ContainsPattern matches s literally anywhere in the value.
func ContainsPattern(s string) string {
	return regexp.QuoteMeta(s)
}

// BSON builds the query document for the filter. Conditions are ANDed.
func (f StudentFilter) BSON() bson.M {
	query := bson.M{}

	if f.Actif != nil {
		query[model.FieldActif] = *f.Actif
	}
	if f.NomContains != "" {
		query[model.FieldNom] = primitive.Regex{Pattern: ContainsPattern(f.NomContains), Options: "i"}
	}
	if f.Filiere != "" {
		query[model.FieldFiliere] = primitive.Regex{Pattern: ExactPattern(f.Filiere), Options: "i"}
	}

	if f.AnneeMin != nil || f.AnneeMax != nil {
		annee := bson.M{}
		if f.AnneeMin != nil {
			annee["$gte"] = *f.AnneeMin
		}
		if f.AnneeMax != nil {
			annee["$lte"] = *f.AnneeMax
		}
		query[model.FieldAnnee] = annee
	}

	if f.MoyenneMin != nil {
		query[model.FieldMoyenne] = bson.M{"$gte": *f.MoyenneMin}
	}

	return query
}

// ParseSort reads a sort string such as "nom", "-moyenne" or "filiere,-annee".
// Keys may be separated by commas or spaces; a leading "-" sorts descending.
func ParseSort(s string) []SortField {
	var fields []SortField
	for _, key := range splitList(s) {
		desc := strings.HasPrefix(key, "-")
		key = strings.TrimLeft(key, "+-")
		if key == "" {
			continue
		}
		fields = append(fields, SortField{Field: key, Desc: desc})
	}
	return fields
}

// ParseFields reads a comma separated projection list.
func ParseFields(s string) []string {
	return splitList(s)
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// withIDTiebreak appends _id so that pages never overlap when sort keys tie.
func withIDTiebreak(sort []SortField) []SortField {
	for _, f := range sort {
		if f.Field == model.FieldID {
			return sort
		}
	}
	out := make([]SortField, 0, len(sort)+1)
	out = append(out, sort...)
	return append(out, SortField{Field: model.FieldID})
}

func sortDocument(sort []SortField) bson.D {
	doc := bson.D{}
	for _, f := range withIDTiebreak(sort) {
		dir := 1
		if f.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: f.Field, Value: dir})
	}
	return doc
}

func projectionDocument(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}
	doc := bson.D{}
	for _, f := range fields {
		doc = append(doc, bson.E{Key: f, Value: 1})
	}
	return doc
}
