package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/repository"
	"github.com/djungler/filmkatalog/internal/service"
)

// FilmFileHandler serves the binary attachment endpoints. Uploads are
// all-or-nothing: the request body is accumulated into a bounded in-memory
// buffer and persisted in a single write only once the stream has ended, so
// an aborted upload leaves no artifact behind.
type FilmFileHandler struct {
	Svc      *service.FilmService
	Files    repository.FileRepository
	MaxBytes int
	Log      *zap.SugaredLogger
}

func NewFilmFileHandler(svc *service.FilmService, files repository.FileRepository, maxBytes int, log *zap.SugaredLogger) *FilmFileHandler {
	return &FilmFileHandler{Svc: svc, Files: files, MaxBytes: maxBytes, Log: log}
}

// Upload handles PUT /api/filme/:id/file. The Content-Type of the request is
// stored verbatim and played back on download.
func (h *FilmFileHandler) Upload(c echo.Context) error {
	id := c.Param("id")
	h.Log.Debugw("FilmFileHandler.Upload", "id", id)

	if _, err := h.Svc.FindByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrNotExists) {
			return c.String(http.StatusPreconditionFailed,
				fmt.Sprintf("Es gibt keinen Film mit der ID %q.", id))
		}
		h.Log.Errorw("FilmFileHandler.Upload: lookup failed", "id", id, "err", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	var buf bytes.Buffer
	limit := int64(h.MaxBytes)
	n, err := io.Copy(&buf, io.LimitReader(c.Request().Body, limit+1))
	if err != nil {
		// Aborted stream: nothing has been persisted.
		h.Log.Debugw("FilmFileHandler.Upload: stream aborted", "id", id, "err", err)
		return c.NoContent(http.StatusBadRequest)
	}
	if n > limit {
		return c.NoContent(http.StatusRequestEntityTooLarge)
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	file := &model.FilmFile{FilmID: id, ContentType: contentType, Data: buf.Bytes()}
	if err := h.Files.Save(c.Request().Context(), file); err != nil {
		h.Log.Errorw("FilmFileHandler.Upload: save failed", "id", id, "err", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	h.Log.Debugw("FilmFileHandler.Upload: saved", "id", id, "bytes", n)
	return c.NoContent(http.StatusNoContent)
}

// Download handles GET /api/filme/:id/file, streaming the stored bytes back
// under their original content type.
func (h *FilmFileHandler) Download(c echo.Context) error {
	id := c.Param("id")
	h.Log.Debugw("FilmFileHandler.Download", "id", id)

	if _, err := h.Svc.FindByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrNotExists) {
			return c.String(http.StatusPreconditionFailed,
				fmt.Sprintf("Es gibt keinen Film mit der ID %q.", id))
		}
		h.Log.Errorw("FilmFileHandler.Download: lookup failed", "id", id, "err", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	file, err := h.Files.FindByFilmID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.String(http.StatusNotFound,
			fmt.Sprintf("Es gibt kein File zum Film %q.", id))
	}
	if err != nil {
		h.Log.Errorw("FilmFileHandler.Download failed", "id", id, "err", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
