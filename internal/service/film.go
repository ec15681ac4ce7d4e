package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/queue"
	"github.com/djungler/filmkatalog/internal/repository"
)

// EventPublisher announces a successfully created film. Implementations must
// be safe to call fire-and-forget; a publish failure is logged by the service
// and never surfaced to the caller.
type EventPublisher interface {
	PublishFilmCreated(ctx context.Context, event queue.FilmCreatedEvent) error
}

// FilmService composes the validator, the version guard and the repository
// into the catalog operations. It owns the conditional-update protocol:
//
//	parse version -> validate fields -> check title -> check currency -> write
//
// Each step exits with one of the named errors from errors.go; there are no
// retries, every failure is final for the request.
type FilmService struct {
	filme  repository.FilmRepository
	events EventPublisher
	log    *zap.SugaredLogger
}

// NewFilmService wires the service. events may be nil when no broker is
// configured; creation then skips the notification.
func NewFilmService(filme repository.FilmRepository, events EventPublisher, log *zap.SugaredLogger) *FilmService {
	return &FilmService{filme: filme, events: events, log: log}
}

// FindByID returns the stored film or ErrNotExists.
func (s *FilmService) FindByID(ctx context.Context, id string) (*model.Film, error) {
	s.log.Debugw("FilmService.FindByID", "id", id)
	film, err := s.filme.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotExists
	}
	if err != nil {
		return nil, fmt.Errorf("find film %s: %w", id, err)
	}
	return film, nil
}

// Find returns all films matching the query, sorted by title ascending.
func (s *FilmService) Find(ctx context.Context, query repository.FilmQuery) ([]model.Film, error) {
	s.log.Debugw("FilmService.Find", "titel", query.Titel)
	filme, err := s.filme.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find films: %w", err)
	}
	return filme, nil
}

// Create validates the draft, guards title uniqueness and inserts the film.
// On success the repository has assigned id, version 0 and the timestamps,
// and a film.created event is published fire-and-forget.
//
// The uniqueness guard is check-then-act: two concurrent creates with the
// same title can both pass the check before either write lands. That window
// is a known property of the design, not closed here.
func (s *FilmService) Create(ctx context.Context, draft *model.Film) (*model.Film, error) {
	s.log.Debugw("FilmService.Create", "titel", draft.Titel)

	if fields := model.ValidateFilm(draft); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.checkTitelExists(ctx, draft.Titel, ""); err != nil {
		return nil, err
	}

	if err := s.filme.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("create film: %w", err)
	}
	s.log.Debugw("FilmService.Create: saved", "id", draft.ID)

	s.notifyCreated(ctx, draft)
	return draft, nil
}

// Update is the conditional-update orchestrator. versionStr is the unquoted
// If-Match value. The draft's id and version fields are ignored; identity
// comes from the id parameter and the version from the token.
func (s *FilmService) Update(ctx context.Context, id, versionStr string, draft *model.Film) (*model.Film, error) {
	s.log.Debugw("FilmService.Update", "id", id, "version", versionStr)

	version, err := parseVersion(versionStr)
	if err != nil {
		return nil, err
	}
	if fields := model.ValidateFilm(draft); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	// A title owned by the record being updated is not a conflict.
	if err := s.checkTitelExists(ctx, draft.Titel, id); err != nil {
		return nil, err
	}
	if err := s.checkCurrency(ctx, id, version); err != nil {
		return nil, err
	}

	saved, err := s.filme.UpdateByID(ctx, id, draft)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotExists
	}
	if err != nil {
		return nil, fmt.Errorf("update film %s: %w", id, err)
	}
	s.log.Debugw("FilmService.Update: saved", "id", saved.ID, "version", saved.Version)
	return saved, nil
}

// Delete removes the film. The boolean reports whether a record was removed;
// deleting an unknown id is not an error.
func (s *FilmService) Delete(ctx context.Context, id string) (bool, error) {
	s.log.Debugw("FilmService.Delete", "id", id)
	deleted, err := s.filme.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete film %s: %w", id, err)
	}
	return deleted, nil
}

// parseVersion turns the unquoted token into an integer version, or
// ErrVersionInvalid when the token is empty or not an integer.
func parseVersion(raw string) (int32, error) {
	if raw == "" {
		return 0, ErrVersionInvalid
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, ErrVersionInvalid
	}
	return int32(n), nil
}

// checkCurrency re-reads the stored record and rejects the update when the
// supplied version is strictly lower than the stored one. Equal-or-greater
// supplied versions pass.
func (s *FilmService) checkCurrency(ctx context.Context, id string, supplied int32) error {
	stored, err := s.filme.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotExists
	}
	if err != nil {
		return fmt.Errorf("check currency of %s: %w", id, err)
	}
	if supplied < stored.Version {
		s.log.Debugw("FilmService.checkCurrency: outdated",
			"id", id, "supplied", supplied, "stored", stored.Version)
		return ErrVersionOutdated
	}
	return nil
}

// checkTitelExists returns a TitelExistsError when a record other than
// selfID already owns the title.
func (s *FilmService) checkTitelExists(ctx context.Context, titel, selfID string) error {
	ownerID, err := s.filme.FindIDByTitel(ctx, titel)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check titel %q: %w", titel, err)
	}
	if ownerID == selfID {
		return nil
	}
	return &TitelExistsError{Titel: titel, ID: ownerID}
}

// notifyCreated publishes the film.created event. Failures are logged only;
// the create has already succeeded and must not be reported as failed.
func (s *FilmService) notifyCreated(ctx context.Context, film *model.Film) {
	if s.events == nil {
		return
	}
	event := queue.FilmCreatedEvent{
		FilmID:    film.ID,
		Titel:     film.Titel,
		CreatedAt: film.CreatedAt.Format(time.RFC3339),
	}
	if err := s.events.PublishFilmCreated(ctx, event); err != nil {
		s.log.Errorw("FilmService.Create: publish film.created failed", "err", err)
	}
}
