package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/model"
)

type namePair struct {
	Nachname string `bson:"nachname" json:"nachname"`
	Vorname  string `bson:"vorname" json:"vorname"`
}

// seedFilme is the canonical dev data set. The fixed ids make the records
// addressable from integration tests and curl sessions.
func seedFilme(now time.Time) []interface{} {
	filme := []model.Film{
		{
			ID:              "00000000-0000-0000-0000-000000000001",
			Titel:           "Django Unchained",
			Regisseur:       namePair{Nachname: "Tarantino", Vorname: "Quentin"},
			Kategorien:      []string{"action", "romance"},
			Sprache:         model.SpracheDeutsch,
			Datum:           "2013-01-17",
			Hauptdarsteller: namePair{Nachname: "Foxx", Vorname: "Jamie"},
			Dauer:           165,
		},
		{
			ID:    "00000000-0000-0000-0000-000000000002",
			Titel: "Matrix",
			Regisseur: []namePair{
				{Nachname: "Wachowski", Vorname: "Lilly"},
				{Nachname: "Wachowski", Vorname: "Lana"},
			},
			Kategorien:      []string{"action", "sci-fi", "fantasy"},
			Sprache:         model.SpracheDeutsch,
			Datum:           "1999-06-17",
			Hauptdarsteller: namePair{Nachname: "Reeves", Vorname: "Keanu"},
			Dauer:           150,
		},
		{
			ID:              "00000000-0000-0000-0000-000000000003",
			Titel:           "Inception",
			Regisseur:       namePair{Nachname: "Nolan", Vorname: "Christopher"},
			Kategorien:      []string{"thriller", "sci-fi"},
			Sprache:         model.SpracheEnglisch,
			Datum:           "2010-07-29",
			Hauptdarsteller: namePair{Nachname: "DiCaprio", Vorname: "Leonardo"},
			Dauer:           148,
		},
		{
			ID:              "00000000-0000-0000-0000-000000000004",
			Titel:           "Star Trek: First Contact",
			Regisseur:       namePair{Nachname: "Frakes", Vorname: "Jonathan"},
			Kategorien:      []string{"sci-fi", "action"},
			Sprache:         model.SpracheEnglisch,
			Datum:           "1996-11-21",
			Hauptdarsteller: namePair{Nachname: "Stewart", Vorname: "Patrick"},
			Dauer:           111,
		},
		{
			ID:              "00000000-0000-0000-0000-000000000005",
			Titel:           "The Devil Wears Prada",
			Regisseur:       namePair{Nachname: "Frankel", Vorname: "David"},
			Kategorien:      []string{"drama", "comedy"},
			Sprache:         model.SpracheEnglisch,
			Datum:           "2006-10-12",
			Hauptdarsteller: namePair{Nachname: "Streep", Vorname: "Meryl"},
			Dauer:           110,
		},
	}

	docs := make([]interface{}, 0, len(filme))
	for i := range filme {
		filme[i].Version = 0
		filme[i].CreatedAt = now
		filme[i].UpdatedAt = now
		docs = append(docs, filme[i])
	}
	return docs
}

// Seed inserts the dev film records when the collection is empty. It is a
// no-op on a populated database, so it is safe to run on every startup.
func Seed(ctx context.Context, db *mongo.Database, log *zap.SugaredLogger) error {
	coll := db.Collection("filme")
	n, err := coll.CountDocuments(ctx, map[string]interface{}{})
	if err != nil {
		return err
	}
	if n > 0 {
		log.Debugw("seed skipped, collection not empty", "count", n)
		return nil
	}

	docs := seedFilme(time.Now().UTC())
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return err
	}
	log.Infow("seeded film collection", "count", len(docs))
	return nil
}
