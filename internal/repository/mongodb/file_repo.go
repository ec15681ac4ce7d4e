package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/repository"
)

// FileRepo stores film attachments in the `film_files` collection, keyed by
// the film id. A re-upload replaces the previous attachment.
type FileRepo struct {
	coll *mongo.Collection
}

func NewFileRepo(db *mongo.Database) *FileRepo {
	return &FileRepo{coll: db.Collection("film_files")}
}

var _ repository.FileRepository = (*FileRepo)(nil)

// Save upserts the attachment for file.FilmID in a single write, so readers
// never observe a partially written file.
func (r *FileRepo) Save(ctx context.Context, file *model.FilmFile) error {
	file.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": file.FilmID}, file, opts)
	return err
}

// FindByFilmID returns the attachment for a film, or repository.ErrNotFound.
func (r *FileRepo) FindByFilmID(ctx context.Context, filmID string) (*model.FilmFile, error) {
	var file model.FilmFile
	err := r.coll.FindOne(ctx, bson.M{"_id": filmID}).Decode(&file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}
