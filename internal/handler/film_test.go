package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/repository"
	"github.com/djungler/filmkatalog/internal/service"
)

// memFilmRepo backs the handler tests with an in-memory FilmRepository so
// the full handler -> service -> repository path is exercised.
type memFilmRepo struct {
	films map[string]*model.Film
}

func newMemFilmRepo(films ...*model.Film) *memFilmRepo {
	r := &memFilmRepo{films: map[string]*model.Film{}}
	for _, f := range films {
		r.films[f.ID] = f
	}
	return r
}

func (r *memFilmRepo) FindByID(_ context.Context, id string) (*model.Film, error) {
	f, ok := r.films[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *memFilmRepo) Find(_ context.Context, q repository.FilmQuery) ([]model.Film, error) {
	out := []model.Film{}
	for _, f := range r.films {
		if q.Titel != "" && !strings.Contains(strings.ToLower(f.Titel), strings.ToLower(q.Titel)) {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (r *memFilmRepo) FindIDByTitel(_ context.Context, titel string) (string, error) {
	for id, f := range r.films {
		if f.Titel == titel {
			return id, nil
		}
	}
	return "", repository.ErrNotFound
}

func (r *memFilmRepo) Create(_ context.Context, film *model.Film) error {
	film.ID = "new-id"
	film.Version = 0
	film.CreatedAt = time.Now()
	film.UpdatedAt = film.CreatedAt
	r.films[film.ID] = film
	return nil
}

func (r *memFilmRepo) UpdateByID(_ context.Context, id string, film *model.Film) (*model.Film, error) {
	stored, ok := r.films[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	stored.Titel = film.Titel
	stored.Sprache = film.Sprache
	stored.Dauer = film.Dauer
	stored.Version++
	copied := *stored
	return &copied, nil
}

func (r *memFilmRepo) DeleteByID(_ context.Context, id string) (bool, error) {
	_, ok := r.films[id]
	delete(r.films, id)
	return ok, nil
}

func matrix() *model.Film {
	return &model.Film{
		ID:      "f1",
		Titel:   "Matrix",
		Sprache: model.SpracheEnglisch,
		Dauer:   136,
		Version: 2,
	}
}

func newFilmHandler(films ...*model.Film) (*FilmHandler, *memFilmRepo) {
	repo := newMemFilmRepo(films...)
	svc := service.NewFilmService(repo, nil, zap.NewNop().Sugar())
	return NewFilmHandler(svc, zap.NewNop().Sugar()), repo
}

// perform routes the request through a fresh echo instance so path params
// and the handler wiring behave as in production.
func perform(h *FilmHandler, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET(FilmePath, h.Find)
	e.GET(FilmePath+"/:id", h.FindByID)
	e.POST(FilmePath, h.Create)
	e.PUT(FilmePath+"/:id", h.Update)
	e.DELETE(FilmePath+"/:id", h.Delete)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFindByID(t *testing.T) {
	h, _ := newFilmHandler(matrix())

	req := httptest.NewRequest(http.MethodGet, FilmePath+"/f1", nil)
	rec := perform(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"2"`, rec.Header().Get("ETag"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Matrix", body["titel"])
	// Internal fields never reach the body; the id only shows up in _links.
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "version")
	links := body["_links"].(map[string]interface{})
	self := links["self"].(map[string]interface{})
	assert.Contains(t, self["href"], FilmePath+"/f1")
}

func TestFindByIDNotModified(t *testing.T) {
	h, _ := newFilmHandler(matrix())

	req := httptest.NewRequest(http.MethodGet, FilmePath+"/f1", nil)
	req.Header.Set("If-None-Match", `"2"`)
	rec := perform(h, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFindByIDNotFound(t *testing.T) {
	h, _ := newFilmHandler()

	req := httptest.NewRequest(http.MethodGet, FilmePath+"/missing", nil)
	rec := perform(h, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())
}

func TestFindEmptyIs404(t *testing.T) {
	h, _ := newFilmHandler()

	req := httptest.NewRequest(http.MethodGet, FilmePath, nil)
	rec := perform(h, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())
}

func TestFindWithTitelFilter(t *testing.T) {
	h, _ := newFilmHandler(matrix())

	req := httptest.NewRequest(http.MethodGet, FilmePath+"?titel=atri", nil)
	rec := perform(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Matrix", body[0]["titel"])
}

func TestCreate(t *testing.T) {
	h, repo := newFilmHandler()

	payload := `{"titel":"Inception","sprache":"ENGLISCH","dauer":148}`
	req := httptest.NewRequest(http.MethodPost, FilmePath, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := perform(h, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), FilmePath+"/new-id")
	assert.Equal(t, "Inception", repo.films["new-id"].Titel)
}

func TestCreateWrongContentType(t *testing.T) {
	h, _ := newFilmHandler()

	req := httptest.NewRequest(http.MethodPost, FilmePath, strings.NewReader("titel=Inception"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := perform(h, req)

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestCreateInvalidDraft(t *testing.T) {
	h, _ := newFilmHandler()

	req := httptest.NewRequest(http.MethodPost, FilmePath, strings.NewReader(`{"dauer":90}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := perform(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var violations map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &violations))
	assert.Contains(t, violations, "titel")
	assert.Contains(t, violations, "sprache")
}

func TestCreateDuplicateTitel(t *testing.T) {
	h, _ := newFilmHandler(matrix())

	payload := `{"titel":"Matrix","sprache":"ENGLISCH","dauer":136}`
	req := httptest.NewRequest(http.MethodPost, FilmePath, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := perform(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Titel")
	assert.Contains(t, rec.Body.String(), "f1")
}

func updateReq(version string) *http.Request {
	payload := `{"titel":"Matrix Reloaded","sprache":"ENGLISCH","dauer":138}`
	req := httptest.NewRequest(http.MethodPut, FilmePath+"/f1", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if version != "" {
		req.Header.Set("If-Match", version)
	}
	return req
}

func TestUpdate(t *testing.T) {
	h, repo := newFilmHandler(matrix())

	rec := perform(h, updateReq(`"2"`))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, `"3"`, rec.Header().Get("ETag"))
	assert.Equal(t, "Matrix Reloaded", repo.films["f1"].Titel)
	assert.Equal(t, int32(3), repo.films["f1"].Version)
}

func TestUpdateMissingIfMatch(t *testing.T) {
	h, _ := newFilmHandler(matrix())

	rec := perform(h, updateReq(""))

	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Equal(t, "Versionsnummer fehlt", rec.Body.String())
}

func TestUpdateShortIfMatch(t *testing.T) {
	h, _ := newFilmHandler(matrix())

	rec := perform(h, updateReq(`"`))

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ungueltige Versionsnummer")
}

func TestUpdateMalformedVersion(t *testing.T) {
	h, _ := newFilmHandler(matrix())

	rec := perform(h, updateReq(`"abc"`))

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ungueltige Versionsnummer")
}

func TestUpdateOutdatedVersion(t *testing.T) {
	h, _ := newFilmHandler(matrix())

	rec := perform(h, updateReq(`"1"`))

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, rec.Body.String(), "nicht aktuell")
}

func TestUpdateUnknownID(t *testing.T) {
	h, _ := newFilmHandler()

	rec := perform(h, updateReq(`"0"`))

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, rec.Body.String(), "keinen Film")
}

func TestDelete(t *testing.T) {
	h, repo := newFilmHandler(matrix())

	req := httptest.NewRequest(http.MethodDelete, FilmePath+"/f1", nil)
	rec := perform(h, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.films)

	// Idempotent: a second delete of the same id still answers 204.
	rec = perform(h, httptest.NewRequest(http.MethodDelete, FilmePath+"/f1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
