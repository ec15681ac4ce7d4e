// Package handler translates HTTP and GraphQL requests into service calls
// and service results into status codes and bodies.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/repository"
	"github.com/djungler/filmkatalog/internal/service"
)

// FilmePath is the base path of the film REST resource.
const FilmePath = "/api/filme"

// FilmHandler bundles the dependencies of the film REST endpoints.
type FilmHandler struct {
	Svc *service.FilmService
	Log *zap.SugaredLogger
}

func NewFilmHandler(svc *service.FilmService, log *zap.SugaredLogger) *FilmHandler {
	return &FilmHandler{Svc: svc, Log: log}
}

// ----- response envelope -----

type linkRef struct {
	Href string `json:"href"`
}

type filmLinks struct {
	Self   *linkRef `json:"self,omitempty"`
	List   *linkRef `json:"list,omitempty"`
	Add    *linkRef `json:"add,omitempty"`
	Update *linkRef `json:"update,omitempty"`
	Remove *linkRef `json:"remove,omitempty"`
}

// filmResponse is the outbound shape of a film. The internal fields (id,
// version, timestamps) are deliberately absent; the id is only reachable
// through the hrefs in the _links envelope and the version travels in the
// ETag header.
type filmResponse struct {
	Titel           string      `json:"titel"`
	Regisseur       interface{} `json:"regisseur,omitempty"`
	Datum           string      `json:"datum,omitempty"`
	Kategorien      []string    `json:"kategorien,omitempty"`
	Sprache         string      `json:"sprache"`
	Hauptdarsteller interface{} `json:"hauptdarsteller,omitempty"`
	Dauer           int         `json:"dauer"`
	Homepage        string      `json:"homepage,omitempty"`
	Links           *filmLinks  `json:"_links,omitempty"`
}

func toFilmResponse(film *model.Film, links *filmLinks) filmResponse {
	return filmResponse{
		Titel:           film.Titel,
		Regisseur:       film.Regisseur,
		Datum:           film.Datum,
		Kategorien:      film.Kategorien,
		Sprache:         film.Sprache,
		Hauptdarsteller: film.Hauptdarsteller,
		Dauer:           film.Dauer,
		Homepage:        film.Homepage,
		Links:           links,
	}
}

func baseURI(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + FilmePath
}

func etagFor(version int32) string {
	return fmt.Sprintf(`"%d"`, version)
}

// hasJSONContentType reports whether the request declares application/json,
// ignoring any charset parameter.
func hasJSONContentType(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	mediaType := strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
	return strings.EqualFold(mediaType, echo.MIMEApplicationJSON)
}

// ----- handlers -----

// FindByID handles GET /api/filme/:id. It honors If-None-Match against the
// version ETag (304 on match) and attaches the full hypermedia link set.
func (h *FilmHandler) FindByID(c echo.Context) error {
	id := c.Param("id")
	versionHeader := c.Request().Header.Get("If-None-Match")
	h.Log.Debugw("FilmHandler.FindByID", "id", id, "If-None-Match", versionHeader)

	film, err := h.Svc.FindByID(c.Request().Context(), id)
	if errors.Is(err, service.ErrNotExists) {
		return c.String(http.StatusNotFound, "Not Found")
	}
	if err != nil {
		h.Log.Errorw("FilmHandler.FindByID failed", "id", id, "err", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	etag := etagFor(film.Version)
	if versionHeader == etag {
		return c.NoContent(http.StatusNotModified)
	}
	c.Response().Header().Set("ETag", etag)

	base := baseURI(c)
	self := base + "/" + id
	links := &filmLinks{
		Self:   &linkRef{Href: self},
		List:   &linkRef{Href: base},
		Add:    &linkRef{Href: base},
		Update: &linkRef{Href: self},
		Remove: &linkRef{Href: self},
	}
	return c.JSON(http.StatusOK, toFilmResponse(film, links))
}

// Find handles GET /api/filme with the optional titel substring filter and
// category flags. An empty result is answered with 404, matching the
// behavior clients of this API expect.
func (h *FilmHandler) Find(c echo.Context) error {
	query := repository.FilmQuery{
		Titel:          c.QueryParam("titel"),
		SciFi:          c.QueryParam("scifi") == "true",
		Psychothriller: c.QueryParam("psychothriller") == "true",
	}
	h.Log.Debugw("FilmHandler.Find", "titel", query.Titel)

	filme, err := h.Svc.Find(c.Request().Context(), query)
	if err != nil {
		h.Log.Errorw("FilmHandler.Find failed", "err", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	if len(filme) == 0 {
		return c.String(http.StatusNotFound, "Not Found")
	}

	base := baseURI(c)
	out := make([]filmResponse, 0, len(filme))
	for i := range filme {
		links := &filmLinks{Self: &linkRef{Href: base + "/" + filme[i].ID}}
		out = append(out, toFilmResponse(&filme[i], links))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/filme. The route is gated on the admin or
// mitarbeiter role by the router.
func (h *FilmHandler) Create(c echo.Context) error {
	if !hasJSONContentType(c) {
		return c.NoContent(http.StatusNotAcceptable)
	}

	var draft model.Film
	if err := c.Bind(&draft); err != nil {
		return c.String(http.StatusBadRequest, "invalid body")
	}
	// Server-owned fields are never taken from the client.
	draft.ID = ""
	draft.Version = 0
	h.Log.Debugw("FilmHandler.Create", "titel", draft.Titel)

	saved, err := h.Svc.Create(c.Request().Context(), &draft)
	if err != nil {
		return h.writeServiceError(c, err, "", "")
	}

	location := baseURI(c) + "/" + saved.ID
	c.Response().Header().Set(echo.HeaderLocation, location)
	return c.NoContent(http.StatusCreated)
}

// Update handles PUT /api/filme/:id, the conditional-update endpoint. The
// If-Match header must carry the quoted current version: absence is answered
// with 428 Precondition Required, anything shorter than a quoted digit with
// 412, and the remaining failure modes come back from the service.
func (h *FilmHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if !hasJSONContentType(c) {
		return c.NoContent(http.StatusNotAcceptable)
	}

	versionHeader := c.Request().Header.Get("If-Match")
	h.Log.Debugw("FilmHandler.Update", "id", id, "If-Match", versionHeader)
	if versionHeader == "" {
		return c.String(http.StatusPreconditionRequired, "Versionsnummer fehlt")
	}
	if len(versionHeader) < 3 {
		return c.String(http.StatusPreconditionFailed,
			fmt.Sprintf("Ungueltige Versionsnummer: %s", versionHeader))
	}
	version := versionHeader[1 : len(versionHeader)-1]

	var draft model.Film
	if err := c.Bind(&draft); err != nil {
		return c.String(http.StatusBadRequest, "invalid body")
	}

	saved, err := h.Svc.Update(c.Request().Context(), id, version, &draft)
	if err != nil {
		return h.writeServiceError(c, err, id, version)
	}

	c.Response().Header().Set("ETag", etagFor(saved.Version))
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/filme/:id (admin only). Deleting an unknown id
// still answers 204; the operation is idempotent.
func (h *FilmHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	h.Log.Debugw("FilmHandler.Delete", "id", id)

	if _, err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		h.Log.Errorw("FilmHandler.Delete failed", "id", id, "err", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusNoContent)
}

// writeServiceError maps the named service failures onto status codes and
// descriptive bodies. Anything unrecognized is an infrastructure failure and
// becomes a bare 500 with no detail leaked.
func (h *FilmHandler) writeServiceError(c echo.Context, err error, id, version string) error {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, validationErr.Fields)
	}
	var titelErr *service.TitelExistsError
	if errors.As(err, &titelErr) {
		return c.String(http.StatusBadRequest,
			fmt.Sprintf("Der Titel %q existiert bereits bei %s.", titelErr.Titel, titelErr.ID))
	}
	switch {
	case errors.Is(err, service.ErrVersionInvalid):
		return c.String(http.StatusPreconditionFailed,
			fmt.Sprintf("Ungueltige Versionsnummer: %s", version))
	case errors.Is(err, service.ErrVersionOutdated):
		return c.String(http.StatusPreconditionFailed,
			fmt.Sprintf("Die Versionsnummer %q ist nicht aktuell.", version))
	case errors.Is(err, service.ErrNotExists):
		return c.String(http.StatusPreconditionFailed,
			fmt.Sprintf("Es gibt keinen Film mit der ID %q.", id))
	}
	h.Log.Errorw("FilmHandler: unexpected service error", "err", err)
	return c.NoContent(http.StatusInternalServerError)
}
