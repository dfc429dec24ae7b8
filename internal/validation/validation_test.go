package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/etudiants-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Name  string `json:"name" validate:"required,min=2,max=5"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"min=1"`
	Role  string `json:"role" validate:"omitempty,oneof=admin user"`
}

func (p *signupPayload) Validate() error { return Struct(p) }

type rejectingPayload struct {
	Name string `json:"name"`
}

func (p *rejectingPayload) Validate() error { return errs.NewDuplicateNameError() }

type selfBinding struct {
	err error
}

func (p *selfBinding) Bind(echo.Context) error { return p.err }
func (p *selfBinding) Validate() error         { return nil }

func newContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestFieldErrors_UsesJSONNames(t *testing.T) {
	err := Struct(&signupPayload{Name: "abcdefg", Email: "nope", Age: 0, Role: "root"})
	require.Error(t, err)

	got := map[string]string{}
	for _, fe := range FieldErrors(err) {
		got[fe.Field] = fe.Error
	}

	assert.Equal(t, "must not exceed 5 characters", got["name"])
	assert.Equal(t, "must be a valid email address", got["email"])
	assert.Equal(t, "must be at least 1", got["age"])
	assert.Equal(t, "must be one of: admin user", got["role"])
}

func TestFieldErrors_Required(t *testing.T) {
	fields := FieldErrors(Struct(&signupPayload{Age: 3}))

	require.Len(t, fields, 2)
	assert.Equal(t, errs.FieldError{Field: "name", Error: "is required"}, fields[0])
	assert.Equal(t, errs.FieldError{Field: "email", Error: "is required"}, fields[1])
}

func TestFieldErrors_Custom(t *testing.T) {
	err := CustomValidationErrors{{Field: "anneeMin", Message: "must be an integer"}}

	assert.Equal(t, "anneeMin: must be an integer", err.Error())
	assert.Equal(t, []errs.FieldError{{Field: "anneeMin", Error: "must be an integer"}}, FieldErrors(err))
}

func TestFieldErrors_OtherError(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
}

func TestBindAndValidate(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		var p signupPayload
		err := BindAndValidate(newContext(`{"name":"Ana","email":"ana@example.com","age":20}`), &p)

		require.NoError(t, err)
		assert.Equal(t, "Ana", p.Name)
	})

	t.Run("malformed json", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"name":`), &signupPayload{})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, errs.CodeInvalidInput, httpErr.Code)
		assert.NotEmpty(t, httpErr.Detail)
	})

	t.Run("invalid fields", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"name":"Ana","email":"x","age":20}`), &signupPayload{})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, errs.CodeInvalidInput, httpErr.Code)
		assert.Equal(t, []errs.FieldError{{Field: "email", Error: "must be a valid email address"}}, httpErr.Errors)
	})

	t.Run("binder http error passes through", func(t *testing.T) {
		err := BindAndValidate(newContext(`{}`), &selfBinding{err: errs.NewInvalidIDError()})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, errs.CodeInvalidID, httpErr.Code)
	})

	t.Run("binder plain error is invalid input", func(t *testing.T) {
		err := BindAndValidate(newContext(`{}`), &selfBinding{err: errors.New("nope")})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, errs.CodeInvalidInput, httpErr.Code)
		assert.Equal(t, "nope", httpErr.Detail)
	})

	t.Run("http error from Validate passes through", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"name":"Ana"}`), &rejectingPayload{})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, errs.CodeDuplicateName, httpErr.Code)
	})
}
