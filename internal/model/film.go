// Package model defines the catalog entities stored in MongoDB and the
// field-level validation applied to them before any write.
package model

import "time"

// Sprache enumerates the languages a film can be catalogued under.
// The values are stored verbatim in the database and exposed over the API.
const (
	SpracheDeutsch      = "DEUTSCH"
	SpracheEnglisch     = "ENGLISCH"
	SpracheFranzoesisch = "FRANZOESISCH"
)

// Sprachen lists every valid language code.
var Sprachen = []string{SpracheDeutsch, SpracheEnglisch, SpracheFranzoesisch}

// Film is a single catalog record in the `filme` collection.
//
// ID is a UUID assigned once at creation and never changed. Version is the
// optimistic-concurrency counter: it starts at 0 and the repository bumps it
// by exactly one inside each successful update write. Neither field is
// client-writable; handlers zero them out of inbound drafts and strip them
// from outbound bodies (the id is only visible through the `_links` envelope).
//
// Regisseur and Hauptdarsteller are deliberately unstructured: clients send
// one or more name pairs in whatever shape they like and the data is stored
// as-is, without validation.
type Film struct {
	ID              string      `json:"id,omitempty" bson:"_id,omitempty"`
	Titel           string      `json:"titel" bson:"titel"`
	Regisseur       interface{} `json:"regisseur,omitempty" bson:"regisseur,omitempty"`
	Datum           string      `json:"datum,omitempty" bson:"datum,omitempty"`
	Kategorien      []string    `json:"kategorien,omitempty" bson:"kategorien,omitempty"`
	Sprache         string      `json:"sprache" bson:"sprache"`
	Hauptdarsteller interface{} `json:"hauptdarsteller,omitempty" bson:"hauptdarsteller,omitempty"`
	Dauer           int         `json:"dauer" bson:"dauer"` // minutes, accepted unchecked
	Homepage        string      `json:"homepage,omitempty" bson:"homepage,omitempty"`
	Version         int32       `json:"-" bson:"__v"`
	CreatedAt       time.Time   `json:"-" bson:"createdAt,omitempty"`
	UpdatedAt       time.Time   `json:"-" bson:"updatedAt,omitempty"`
}

// FilmFile is a binary attachment for a film, stored whole in the
// `film_files` collection. There is at most one attachment per film;
// uploading again replaces the previous one.
type FilmFile struct {
	FilmID      string    `bson:"_id"`
	ContentType string    `bson:"contentType"`
	Data        []byte    `bson:"data"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}
