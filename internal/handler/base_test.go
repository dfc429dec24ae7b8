package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/etudiants-api/internal/errs"
	"github.com/deppfellow/etudiants-api/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_FreshValue(t *testing.T) {
	template := &CreateStudentRequest{Nom: "leaked"}

	req := newRequest(template)

	require.NotNil(t, req)
	assert.NotSame(t, template, req)
	assert.Empty(t, req.Nom)
}

func TestHandle_BindsEachRequestSeparately(t *testing.T) {
	e := echo.New()

	var seen []string
	h := Handle(Handler{}, func(c echo.Context, req *CreateStudentRequest) (*MessageResponse, error) {
		seen = append(seen, req.Nom+"/"+req.Email)
		return &MessageResponse{Success: true, Message: "ok"}, nil
	}, http.StatusCreated, &CreateStudentRequest{})

	for _, body := range []string{
		`{"nom":"Durand","email":"a@example.com"}`,
		`{"nom":"Martin"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		require.NoError(t, h(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	assert.Equal(t, []string{"Durand/a@example.com", "Martin/"}, seen)
}

func TestCreateStudentRequest_Student(t *testing.T) {
	assert.True(t, (&CreateStudentRequest{}).Student().Actif)

	off := false
	assert.False(t, (&CreateStudentRequest{Actif: &off}).Student().Actif)
}

func TestUpdateStudentRequest_BodyCannotSetID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"id":"x","ID":"y","nom":"Durand","role":"admin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("65f000000000000000000001")

	var r UpdateStudentRequest
	require.NoError(t, r.Bind(c))

	assert.Equal(t, "65f000000000000000000001", r.ID)
	nom := "Durand"
	assert.Equal(t, model.StudentPatch{Nom: &nom}, r.StudentPatch)
}

func updateContext(id, body string) echo.Context {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestUpdateStudentRequest_BindErrors(t *testing.T) {
	var r UpdateStudentRequest
	err := r.Bind(updateContext("not-an-id", `{"annee":"deux"}`))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, errs.CodeInvalidID, httpErr.Code)

	r = UpdateStudentRequest{}
	err = r.Bind(updateContext("65f000000000000000000001", `{"annee":"deux"}`))

	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, errs.CodeUpdateFailed, httpErr.Code)
	assert.NotEmpty(t, httpErr.Detail)
}
