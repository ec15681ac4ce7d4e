package model

import (
	"fmt"
	"net/url"
	"regexp"
	"time"
)

// titelRX requires the title to begin with a letter, digit or underscore.
var titelRX = regexp.MustCompile(`^\w`)

// datumLayouts are the accepted ISO-8601 shapes for the Datum field.
var datumLayouts = []string{"2006-01-02", time.RFC3339}

// ValidateFilm checks the field-level constraints on a film draft and returns
// a map from field name to a human-readable message, or nil when the draft is
// valid. All applicable checks run; multiple violations are reported in one
// map. The function has no side effects and never touches the database, so
// uniqueness of the title is NOT checked here — that is the repository's job.
//
// Only titel, sprache, datum and homepage carry rules. Dauer is part of the
// schema but intentionally left unchecked. A missing id is not an error.
func ValidateFilm(film *Film) map[string]string {
	err := map[string]string{}

	if film.Titel == "" {
		err["titel"] = "Ein Film muss einen Titel haben."
	} else if !titelRX.MatchString(film.Titel) {
		err["titel"] = "Ein Filmtitel muss mit einem Buchstaben, einer Ziffer oder _ beginnen."
	}

	if film.Sprache == "" {
		err["sprache"] = "Die Sprache eines Films muss gesetzt sein."
	} else if !spracheValid(film.Sprache) {
		err["sprache"] = "Die Sprache eines Films muss DEUTSCH, ENGLISCH oder FRANZOESISCH sein."
	}

	if film.Datum != "" && !isISO8601(film.Datum) {
		err["datum"] = fmt.Sprintf("'%s' ist kein gueltiges Datum (yyyy-MM-dd).", film.Datum)
	}

	if film.Homepage != "" && !isURL(film.Homepage) {
		err["homepage"] = fmt.Sprintf("'%s' ist keine gueltige URL.", film.Homepage)
	}

	if len(err) == 0 {
		return nil
	}
	return err
}

func spracheValid(s string) bool {
	for _, v := range Sprachen {
		if s == v {
			return true
		}
	}
	return false
}

func isISO8601(s string) bool {
	for _, layout := range datumLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
