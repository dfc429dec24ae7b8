package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/etudiants-api/internal/config"
	"github.com/deppfellow/etudiants-api/internal/handler"
	"github.com/deppfellow/etudiants-api/internal/logger"
	"github.com/deppfellow/etudiants-api/internal/repository"
	"github.com/deppfellow/etudiants-api/internal/server"
	"github.com/deppfellow/etudiants-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{
			Driver:     config.DriverMemory,
			Collection: "etudiants",
		},
		Observability: &config.ObservabilityConfig{
			ServiceName: "etudiants-api",
			Environment: "test",
			Logging:     config.LoggingConfig{Level: "error", Format: "json"},
			HealthChecks: config.HealthChecksConfig{
				Enabled: true,
				Timeout: time.Second,
				Checks:  []string{"database", "redis"},
			},
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()

	log := zerolog.Nop()
	s := &server.Server{
		Config:        cfg,
		Logger:        &log,
		LoggerService: &logger.LoggerService{},
	}

	services, err := service.NewServices(s, repository.NewRepositories(s))
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Detail  string          `json:"error"`
	Page    int64           `json:"page"`
	Limit   int64           `json:"limit"`
	Total   int64           `json:"total"`
	Count   int             `json:"count"`
	Filiere string          `json:"filiere"`
	Filters map[string]any  `json:"filters"`
	Data    json.RawMessage `json:"data"`
}

type studentBody struct {
	ID      string  `json:"_id"`
	Nom     string  `json:"nom"`
	Prenom  string  `json:"prenom"`
	Email   string  `json:"email"`
	Filiere string  `json:"filiere"`
	Annee   int     `json:"annee"`
	Moyenne float64 `json:"moyenne"`
	Actif   bool    `json:"actif"`
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func create(t *testing.T, e *echo.Echo, body string) studentBody {
	t.Helper()

	rec, env := do(t, e, http.MethodPost, "/api/etudiants", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var s studentBody
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestCreateStudent(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec, env := do(t, e, http.MethodPost, "/api/etudiants",
		`{"nom":"Durand","prenom":"Camille","email":"camille@example.com","filiere":"Informatique","annee":2,"moyenne":14.5,"role":"admin"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Étudiant créé avec succès", env.Message)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var s studentBody
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Len(t, s.ID, 24)
	assert.Equal(t, "Durand", s.Nom)
	assert.True(t, s.Actif, "actif defaults to true")
	assert.NotContains(t, string(env.Data), "role")
}

func TestCreateStudent_Errors(t *testing.T) {
	e := newTestRouter(t, testConfig())
	create(t, e, `{"nom":"Durand","prenom":"Camille","email":"camille@example.com"}`)

	cases := []struct {
		name string
		body string
		code string
	}{
		{"duplicate name", `{"nom":"Durand","prenom":"Camille","email":"autre@example.com"}`, "DUPLICATE_NAME"},
		{"duplicate email", `{"nom":"Martin","prenom":"Louis","email":"camille@example.com"}`, "DUPLICATE_EMAIL"},
		{"schema", `{"nom":"Martin","prenom":"Louis","email":"louis@example.com","moyenne":30}`, "INVALID_INPUT"},
		{"malformed json", `{"nom":`, "INVALID_INPUT"},
		{"wrong type", `{"nom":"Martin","prenom":"Louis","email":"louis@example.com","annee":"deux"}`, "INVALID_INPUT"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := do(t, e, http.MethodPost, "/api/etudiants", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestListStudents(t *testing.T) {
	e := newTestRouter(t, testConfig())
	create(t, e, `{"nom":"Moreau","prenom":"A","email":"a@example.com","moyenne":11}`)
	create(t, e, `{"nom":"Bernard","prenom":"B","email":"b@example.com","moyenne":16}`)
	create(t, e, `{"nom":"Petit","prenom":"C","email":"c@example.com","moyenne":13}`)

	rec, env := do(t, e, http.MethodGet, "/api/etudiants?page=1&limit=2&fields=nom", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, env.Success)
	assert.Equal(t, int64(1), env.Page)
	assert.Equal(t, int64(2), env.Limit)
	assert.Equal(t, int64(3), env.Total)
	assert.Equal(t, 2, env.Count)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "Bernard", docs[0]["nom"])
	assert.Equal(t, "Moreau", docs[1]["nom"])
	assert.NotContains(t, docs[0], "email")
	assert.Contains(t, docs[0], "_id")

	_, env = do(t, e, http.MethodGet, "/api/etudiants?page=9", "")
	assert.Equal(t, 0, env.Count)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestListStudents_HugePagination(t *testing.T) {
	e := newTestRouter(t, testConfig())
	create(t, e, `{"nom":"Moreau","prenom":"A","email":"a@example.com"}`)
	create(t, e, `{"nom":"Bernard","prenom":"B","email":"b@example.com"}`)

	for _, target := range []string{
		"/api/etudiants?page=9223372036854775807&limit=10",
		"/api/etudiants?page=2&limit=9223372036854775807",
	} {
		rec, env := do(t, e, http.MethodGet, target, "")

		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, 0, env.Count, target)
		assert.Equal(t, int64(2), env.Total, target)
		assert.JSONEq(t, "[]", string(env.Data), target)
	}
}

func TestUpdateStudent_BadBody(t *testing.T) {
	e := newTestRouter(t, testConfig())
	s := create(t, e, `{"nom":"Durand","prenom":"Camille","email":"camille@example.com"}`)

	rec, env := do(t, e, http.MethodPut, "/api/etudiants/"+s.ID, `{"annee":"deux"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UPDATE_FAILED", env.Code)

	rec, env = do(t, e, http.MethodPut, "/api/etudiants/not-an-id", `{"annee":"deux"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", env.Code)
}

func TestGetUpdateDeleteStudent(t *testing.T) {
	e := newTestRouter(t, testConfig())
	s := create(t, e, `{"nom":"Durand","prenom":"Camille","email":"camille@example.com","annee":1}`)
	path := "/api/etudiants/" + s.ID

	rec, env := do(t, e, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = do(t, e, http.MethodPut, path, `{"annee":3,"_id":"000000000000000000000000","createdAt":"2001-01-01T00:00:00Z","role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Étudiant mis à jour avec succès", env.Message)

	var updated studentBody
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, s.ID, updated.ID)
	assert.Equal(t, 3, updated.Annee)
	assert.Equal(t, "Durand", updated.Nom)

	rec, env = do(t, e, http.MethodPut, path, `{"annee":12}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UPDATE_FAILED", env.Code)

	rec, env = do(t, e, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Étudiant supprimé avec succès", env.Message)

	rec, env = do(t, e, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "STUDENT_NOT_FOUND", env.Code)
	assert.Equal(t, "Étudiant non trouvé", env.Message)
}

func TestInvalidID(t *testing.T) {
	e := newTestRouter(t, testConfig())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec, env := do(t, e, method, "/api/etudiants/not-an-id", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "INVALID_ID", env.Code)
		assert.Equal(t, "ID invalide", env.Message)
	}
}

func TestSearchByFiliere(t *testing.T) {
	e := newTestRouter(t, testConfig())
	create(t, e, `{"nom":"A","prenom":"A","email":"a@example.com","filiere":"informatique"}`)
	create(t, e, `{"nom":"B","prenom":"B","email":"b@example.com","filiere":"INFORMATIQUE"}`)
	create(t, e, `{"nom":"C","prenom":"C","email":"c@example.com","filiere":"Informatique2"}`)

	rec, env := do(t, e, http.MethodGet, "/api/etudiants/filiere/Informatique", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "Informatique", env.Filiere)
	assert.Equal(t, 2, env.Count)

	_, env = do(t, e, http.MethodGet, "/api/etudiants/filiere/Physique", "")
	assert.True(t, env.Success)
	assert.Equal(t, 0, env.Count)
}

func TestAdvancedSearch(t *testing.T) {
	e := newTestRouter(t, testConfig())
	create(t, e, `{"nom":"Zola","prenom":"E","email":"z@example.com","moyenne":15}`)
	create(t, e, `{"nom":"Hugo","prenom":"V","email":"h@example.com","moyenne":14.5}`)
	create(t, e, `{"nom":"Balzac","prenom":"H","email":"b@example.com","moyenne":19,"actif":false}`)
	create(t, e, `{"nom":"Camus","prenom":"A","email":"c@example.com","moyenne":12}`)

	rec, env := do(t, e, http.MethodGet, "/api/etudiants/search/advanced?moyenneMin=14.5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, map[string]any{"moyenneMin": "14.5"}, env.Filters)
	assert.Equal(t, 2, env.Count)

	var students []studentBody
	require.NoError(t, json.Unmarshal(env.Data, &students))
	require.Len(t, students, 2)
	assert.Equal(t, "Hugo", students[0].Nom)
	assert.Equal(t, "Zola", students[1].Nom)

	rec, env = do(t, e, http.MethodGet, "/api/etudiants/search/advanced?anneeMin=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Code)
}

func TestRouteNotFound(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec, env := do(t, e, http.MethodGet, "/api/inconnu", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "Route non trouvée", env.Message)
}

func TestStatus(t *testing.T) {
	e := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string         `json:"status"`
		Store  string         `json:"store"`
		Checks map[string]any `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, config.DriverMemory, body.Store)
	assert.Empty(t, body.Checks)
}

func TestMetrics(t *testing.T) {
	e := newTestRouter(t, testConfig())
	do(t, e, http.MethodGet, "/api/etudiants", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/etudiants",status="200"} 1`)
}

func TestDocs(t *testing.T) {
	e := newTestRouter(t, testConfig())

	for _, path := range []string{"/docs", "/static/openapi.json"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimitPerSecond = 1
	e := newTestRouter(t, cfg)

	var last *httptest.ResponseRecorder
	var env envelope
	for i := 0; i < 5; i++ {
		last, env = do(t, e, http.MethodGet, "/api/etudiants", "")
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Code)

	rec, _ := do(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
