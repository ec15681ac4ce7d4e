// Package queue defines the message payloads exchanged over the broker and
// the publisher/consumer pair for the film.created notification flow.
package queue

// FilmCreatedEvent is published whenever a film is successfully created.
// The mail consumer turns it into a notification without querying the
// primary database.
type FilmCreatedEvent struct {
	FilmID    string `json:"film_id"`
	Titel     string `json:"titel"`
	CreatedAt string `json:"created_at"`
}
