package mongoerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/etudiants-api/internal/errs"
	"github.com/deppfellow/etudiants-api/internal/model"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Code classifies a store error.
type Code int

const (
	Other Code = iota
	DuplicateKey
	NoDocuments
	Validation
	Timeout
	Network
)

// ErrCode reports the category of a store error.
func ErrCode(err error) Code {
	switch {
	case err == nil:
		return Other
	case model.IsValidationError(err):
		return Validation
	case errors.Is(err, mongo.ErrNoDocuments):
		return NoDocuments
	case IsDuplicateKey(err):
		return DuplicateKey
	case mongo.IsTimeout(err):
		return Timeout
	case mongo.IsNetworkError(err):
		return Network
	}
	return Other
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// Matches "dup key: { email: ..." in the server message.
var dupKeyRegex = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)

// Matches "index: email_1 dup key" in the server message.
var indexRegex = regexp.MustCompile(`index: ([A-Za-z0-9_.]+?)_-?1(?:_|\s)`)

// DuplicateKeyField returns the field whose unique index was violated, or ""
// when err is not a duplicate key error or the field cannot be determined.
//
// It prefers the structured write error and falls back to parsing the message.
func DuplicateKeyField(err error) string {
	if !IsDuplicateKey(err) {
		return ""
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, wErr := range we.WriteErrors {
			if field := fieldFromDetails(wErr.Raw); field != "" {
				return field
			}
		}
	}

	return fieldFromMessage(err.Error())
}

func fieldFromMessage(msg string) string {
	if m := dupKeyRegex.FindStringSubmatch(msg); len(m) > 1 {
		return m[1]
	}
	if m := indexRegex.FindStringSubmatch(msg); len(m) > 1 {
		return m[1]
	}
	return ""
}

// humanizeText converts snake_case or camelCase-less identifiers into Title Case.
//
//	"first_name" -> "First Name"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.French).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a low-level store error into an application-level error.
//
//   - *errs.HTTPError: returned unchanged
//   - schema validation: INVALID_INPUT with field errors
//   - duplicate key on email: DUPLICATE_EMAIL
//   - other duplicate key: BAD_REQUEST naming the field
//   - ErrNoDocuments: STUDENT_NOT_FOUND
//   - anything else: INTERNAL_SERVER_ERROR
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	switch ErrCode(err) {
	case Validation:
		var ve *model.ValidationError
		errors.As(err, &ve)
		return errs.NewInvalidInputError(ve.Error(), ve.Fields)

	case DuplicateKey:
		field := DuplicateKeyField(err)
		if field == model.FieldEmail {
			return errs.NewDuplicateEmailError()
		}
		name := humanizeText(field)
		if name == "" {
			name = "identifiant"
		}
		return errs.NewBadRequestError(fmt.Sprintf("Valeur déjà utilisée pour le champ %s", name), nil, err.Error(), nil)

	case NoDocuments:
		return errs.NewStudentNotFoundError()
	}

	return errs.NewInternalServerError(err.Error())
}
