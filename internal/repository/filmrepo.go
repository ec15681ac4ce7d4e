// Package repository declares the storage interfaces consumed by the service
// layer plus the sentinel errors shared by their implementations. The MongoDB
// implementations live in the mongodb subpackage; the user directory is an
// in-memory store defined here.
package repository

import (
	"context"
	"errors"

	"github.com/djungler/filmkatalog/internal/model"
)

// ErrNotFound is returned when a lookup by id (or title) matches nothing.
var ErrNotFound = errors.New("not found")

// FilmQuery carries the supported list filters. Titel is a case-insensitive
// substring match on the title; it is only applied when shorter than 10
// characters, longer inputs are dropped entirely (unbounded patterns feed a
// regex, hence the cap). The category flags additively build a membership
// filter on the kategorien array.
type FilmQuery struct {
	Titel          string
	SciFi          bool
	Psychothriller bool
}

// Kategorien returns the category filter list built from the boolean flags.
func (q FilmQuery) Kategorien() []string {
	var kategorien []string
	if q.SciFi {
		kategorien = append(kategorien, "SCI-FI")
	}
	if q.Psychothriller {
		kategorien = append(kategorien, "PSYCHOTHRILLER")
	}
	return kategorien
}

// FilmRepository is the document-store contract for catalog records.
//
// Create assigns id (UUID), version 0 and both timestamps before the insert.
// UpdateByID reassigns the client-writable fields, refreshes updatedAt and
// increments the version counter by exactly one in the same write; it returns
// the record as stored after the update. FindIDByTitel is the check half of
// the check-then-act title uniqueness guard.
type FilmRepository interface {
	FindByID(ctx context.Context, id string) (*model.Film, error)
	Find(ctx context.Context, query FilmQuery) ([]model.Film, error)
	FindIDByTitel(ctx context.Context, titel string) (string, error)
	Create(ctx context.Context, film *model.Film) error
	UpdateByID(ctx context.Context, id string, film *model.Film) (*model.Film, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// FileRepository stores one binary attachment per film, all-or-nothing.
type FileRepository interface {
	Save(ctx context.Context, file *model.FilmFile) error
	FindByFilmID(ctx context.Context, filmID string) (*model.FilmFile, error)
}
