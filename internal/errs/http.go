package errs

import (
	"net/http"
)

// Machine codes of the student error taxonomy.
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeDuplicateName   = "DUPLICATE_NAME"
	CodeDuplicateEmail  = "DUPLICATE_EMAIL"
	CodeInvalidID       = "INVALID_ID"
	CodeStudentNotFound = "STUDENT_NOT_FOUND"
	CodeUpdateFailed    = "UPDATE_FAILED"
)

var (
	CodeNotFound        = MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	CodeTooManyRequests = MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests))
	CodeInternal        = MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError))
)

// NewBadRequestError creates a 400 HTTPError. A nil code defaults to "BAD_REQUEST".
func NewBadRequestError(message string, code *string, detail string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Detail:  detail,
		Errors:  errors,
	}
}

// NewNotFoundError creates a 404 HTTPError. A nil code defaults to "NOT_FOUND".
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := CodeNotFound
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return &HTTPError{
		Code:    CodeTooManyRequests,
		Message: "Trop de requêtes, réessayez plus tard",
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalServerError creates a 500 HTTPError.
//
// The detail is kept for logs; the message stays generic.
func NewInternalServerError(detail string) *HTTPError {
	return &HTTPError{
		Code:    CodeInternal,
		Message: "Erreur serveur",
		Status:  http.StatusInternalServerError,
		Detail:  detail,
	}
}

// NewInvalidInputError reports a payload rejected by schema validation.
func NewInvalidInputError(detail string, fields []FieldError) *HTTPError {
	code := CodeInvalidInput
	return NewBadRequestError("Données invalides", &code, detail, fields)
}

// NewDuplicateNameError reports an existing student with the same nom and prenom.
func NewDuplicateNameError() *HTTPError {
	code := CodeDuplicateName
	return NewBadRequestError("Un étudiant avec ce nom et prénom existe déjà", &code, "", nil)
}

// NewDuplicateEmailError reports a unique index violation on email.
func NewDuplicateEmailError() *HTTPError {
	code := CodeDuplicateEmail
	return NewBadRequestError("Cet email est déjà utilisé", &code, "", nil)
}

// NewInvalidIDError reports an identifier that is not a valid ObjectID.
func NewInvalidIDError() *HTTPError {
	code := CodeInvalidID
	return NewBadRequestError("ID invalide", &code, "", nil)
}

// NewStudentNotFoundError reports a missing student.
func NewStudentNotFoundError() *HTTPError {
	code := CodeStudentNotFound
	return NewNotFoundError("Étudiant non trouvé", &code)
}

// NewUpdateError reports an update rejected by validation or a store constraint.
func NewUpdateError(detail string, fields []FieldError) *HTTPError {
	code := CodeUpdateFailed
	return NewBadRequestError("Erreur lors de la mise à jour", &code, detail, fields)
}

// NewRouteNotFoundError is returned for paths no route matches.
func NewRouteNotFoundError() *HTTPError {
	return NewNotFoundError("Route non trouvée", nil)
}
