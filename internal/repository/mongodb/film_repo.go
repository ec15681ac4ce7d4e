// Package mongodb implements the repository interfaces on top of the MongoDB
// Go driver. Results are decoded straight into the model structs; absence is
// reported as repository.ErrNotFound, never as a nil record with nil error.
package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/djungler/filmkatalog/internal/model"
	"github.com/djungler/filmkatalog/internal/repository"
)

// maxTitelFilterLen caps the title substring that may become a regex filter.
// Longer inputs are dropped, not truncated.
const maxTitelFilterLen = 10

// FilmRepo provides CRUD on the `filme` collection.
type FilmRepo struct {
	coll *mongo.Collection
}

func NewFilmRepo(db *mongo.Database) *FilmRepo {
	return &FilmRepo{coll: db.Collection("filme")}
}

var _ repository.FilmRepository = (*FilmRepo)(nil)

// FindByID looks up a single film by its UUID.
func (r *FilmRepo) FindByID(ctx context.Context, id string) (*model.Film, error) {
	var film model.Film
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&film)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &film, nil
}

// buildFilter translates a FilmQuery into a Mongo filter document.
func buildFilter(q repository.FilmQuery) bson.M {
	filter := bson.M{}
	if q.Titel != "" && len(q.Titel) < maxTitelFilterLen {
		// Substring match, case-insensitive. The pattern is the raw client
		// input; the length cap above is what keeps it bounded.
		filter["titel"] = primitive.Regex{Pattern: q.Titel, Options: "i"}
	}
	if kategorien := q.Kategorien(); len(kategorien) > 0 {
		filter["kategorien"] = bson.M{"$in": kategorien}
	}
	return filter
}

// Find returns all films matching the query, sorted by title ascending.
// An empty result is a valid outcome and comes back as an empty slice.
func (r *FilmRepo) Find(ctx context.Context, q repository.FilmQuery) ([]model.Film, error) {
	opts := options.Find().SetSort(bson.D{{Key: "titel", Value: 1}})
	cur, err := r.coll.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	filme := []model.Film{}
	if err := cur.All(ctx, &filme); err != nil {
		return nil, err
	}
	return filme, nil
}

// FindIDByTitel returns the id of the film owning the exact title, or
// repository.ErrNotFound when the title is free.
func (r *FilmRepo) FindIDByTitel(ctx context.Context, titel string) (string, error) {
	var doc struct {
		ID string `bson:"_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.coll.FindOne(ctx, bson.M{"titel": titel}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// Create inserts a new film. The server-owned fields are assigned here:
// a fresh UUID, version 0 and both timestamps.
func (r *FilmRepo) Create(ctx context.Context, film *model.Film) error {
	if film.ID == "" {
		film.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	film.Version = 0
	film.CreatedAt = now
	film.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, film)
	return err
}

// UpdateByID reassigns the client-writable fields of an existing film and
// increments the version counter by one in the same write, so there is no
// window for a concurrent update to observe the new fields with the old
// version. Returns the post-update record.
func (r *FilmRepo) UpdateByID(ctx context.Context, id string, film *model.Film) (*model.Film, error) {
	update := bson.M{
		"$set": bson.M{
			"titel":           film.Titel,
			"regisseur":       film.Regisseur,
			"datum":           film.Datum,
			"kategorien":      film.Kategorien,
			"sprache":         film.Sprache,
			"hauptdarsteller": film.Hauptdarsteller,
			"dauer":           film.Dauer,
			"homepage":        film.Homepage,
			"updatedAt":       time.Now().UTC(),
		},
		"$inc": bson.M{"__v": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var saved model.Film
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&saved)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteByID removes a film. The boolean reports whether a record existed.
func (r *FilmRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
