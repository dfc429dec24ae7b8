package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/etudiants-api/internal/config"
	"github.com/deppfellow/etudiants-api/internal/errs"
	"github.com/deppfellow/etudiants-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func newGlobal(env string) *GlobalMiddlewares {
	log := zerolog.Nop()
	cfg := &config.Config{Observability: config.DefaultObservabilityConfig()}
	cfg.Observability.Environment = env
	return NewGlobalMiddlewares(&server.Server{Config: cfg, Logger: &log})
}

func runErrorHandler(t *testing.T, g *GlobalMiddlewares, method string, err error) (*httptest.ResponseRecorder, errs.Response) {
	t.Helper()

	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	g.GlobalErrorHandler(err, echo.New().NewContext(req, rec))

	var body errs.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestGlobalErrorHandler(t *testing.T) {
	g := newGlobal("development")

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error", errs.NewDuplicateEmailError(), http.StatusBadRequest, errs.CodeDuplicateEmail},
		{"route not found", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"driver error", mongo.ErrNoDocuments, http.StatusNotFound, errs.CodeStudentNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := runErrorHandler(t, g, http.MethodGet, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestGlobalErrorHandler_HidesDetailInProduction(t *testing.T) {
	_, body := runErrorHandler(t, newGlobal("development"), http.MethodGet, errors.New("boom"))
	assert.Equal(t, "boom", body.Detail)

	_, body = runErrorHandler(t, newGlobal("production"), http.MethodGet, errors.New("boom"))
	assert.Empty(t, body.Detail)
	assert.Equal(t, "Erreur serveur", body.Message)
}

func TestGlobalErrorHandler_Head(t *testing.T) {
	rec, _ := runErrorHandler(t, newGlobal("development"), http.MethodHead, errs.NewInvalidIDError())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, 200, statusFromError(nil, 200))
	assert.Equal(t, 404, statusFromError(errs.NewStudentNotFoundError(), 200))
	assert.Equal(t, 405, statusFromError(echo.ErrMethodNotAllowed, 200))
	assert.Equal(t, 500, statusFromError(errors.New("boom"), 200))
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	run := func(header string) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(RequestIDHeader, header)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))
		return rec.Body.String()
	}

	assert.Equal(t, "abc-123", run("abc-123"))
	assert.Len(t, run(""), 36)

	long := strings.Repeat("x", maxRequestIDLength+1)
	assert.NotEqual(t, long, run(long))
}

func TestGetLogger_WithoutEnhancer(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Equal(t, zerolog.Disabled, GetLogger(c).GetLevel())
}
