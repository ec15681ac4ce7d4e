package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/service"
)

func newGraphQLHandler(t *testing.T, films ...*model.Film) (*GraphQLHandler, *memFilmRepo) {
	t.Helper()
	repo := newMemFilmRepo(films...)
	svc := service.NewFilmService(repo, nil, zap.NewNop().Sugar())
	h, err := NewGraphQLHandler(svc, zap.NewNop().Sugar())
	require.NoError(t, err)
	return h, repo
}

func performGraphQL(h *GraphQLHandler, query string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e := echo.New()
	e.POST("/graphql", h.Execute)
	e.ServeHTTP(rec, req)
	return rec
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeGraphQL(t *testing.T, rec *httptest.ResponseRecorder) graphqlResponse {
	t.Helper()
	var resp graphqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGraphQLFilmQuery(t *testing.T) {
	h, _ := newGraphQLHandler(t, matrix())

	rec := performGraphQL(h, `{ film(id: "f1") { id titel sprache version dauer } }`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGraphQL(t, rec)
	require.Empty(t, resp.Errors)

	var film struct {
		ID      string `json:"id"`
		Titel   string `json:"titel"`
		Sprache string `json:"sprache"`
		Version int    `json:"version"`
		Dauer   int    `json:"dauer"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["film"], &film))
	assert.Equal(t, "f1", film.ID)
	assert.Equal(t, "Matrix", film.Titel)
	assert.Equal(t, "ENGLISCH", film.Sprache)
	assert.Equal(t, 2, film.Version)
}

func TestGraphQLFilmQueryUnknownID(t *testing.T) {
	h, _ := newGraphQLHandler(t)

	rec := performGraphQL(h, `{ film(id: "missing") { id } }`)

	resp := decodeGraphQL(t, rec)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "null", string(resp.Data["film"]))
}

func TestGraphQLFilmeQuery(t *testing.T) {
	h, _ := newGraphQLHandler(t, matrix())

	rec := performGraphQL(h, `{ filme(titel: "atri") { titel } }`)

	resp := decodeGraphQL(t, rec)
	require.Empty(t, resp.Errors)
	var filme []struct {
		Titel string `json:"titel"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["filme"], &filme))
	require.Len(t, filme, 1)
	assert.Equal(t, "Matrix", filme[0].Titel)
}

func TestGraphQLCreateFilm(t *testing.T) {
	h, repo := newGraphQLHandler(t)

	rec := performGraphQL(h,
		`mutation { createFilm(titel: "Inception", sprache: ENGLISCH, dauer: 148) { id titel } }`)

	resp := decodeGraphQL(t, rec)
	require.Empty(t, resp.Errors)
	assert.Contains(t, repo.films, "new-id")
	assert.Equal(t, "Inception", repo.films["new-id"].Titel)
}

func TestGraphQLCreateFilmInvalid(t *testing.T) {
	h, repo := newGraphQLHandler(t)

	rec := performGraphQL(h, `mutation { createFilm(titel: "", sprache: ENGLISCH) { id } }`)

	resp := decodeGraphQL(t, rec)
	require.NotEmpty(t, resp.Errors)
	assert.Empty(t, repo.films)
}

func TestGraphQLUpdateFilm(t *testing.T) {
	h, repo := newGraphQLHandler(t, matrix())

	rec := performGraphQL(h, fmt.Sprintf(
		`mutation { updateFilm(id: "f1", version: %d, titel: "Matrix Reloaded", sprache: ENGLISCH, dauer: 138) { titel version } }`,
		2))

	resp := decodeGraphQL(t, rec)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "Matrix Reloaded", repo.films["f1"].Titel)
	assert.Equal(t, int32(3), repo.films["f1"].Version)
}

func TestGraphQLUpdateFilmOutdatedVersion(t *testing.T) {
	h, repo := newGraphQLHandler(t, matrix())

	rec := performGraphQL(h,
		`mutation { updateFilm(id: "f1", version: 1, titel: "Matrix Reloaded", sprache: ENGLISCH) { titel } }`)

	resp := decodeGraphQL(t, rec)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "Matrix", repo.films["f1"].Titel)
}

func TestGraphQLDeleteFilm(t *testing.T) {
	h, repo := newGraphQLHandler(t, matrix())

	rec := performGraphQL(h, `mutation { deleteFilm(id: "f1") }`)

	resp := decodeGraphQL(t, rec)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "true", string(resp.Data["deleteFilm"]))
	assert.Empty(t, repo.films)
}
