// Package service implements the catalog use cases on top of the repository
// interfaces. Every failure mode of an operation is a named error value or
// type in this file; callers branch with errors.Is / errors.As instead of
// inspecting strings or status codes.
package service

import "fmt"

// ErrVersionInvalid reports a version token that is absent or not parseable
// as an integer. It is raised before any store access.
var ErrVersionInvalid = fmt.Errorf("version token invalid")

// ErrVersionOutdated reports a supplied version strictly lower than the
// stored one. A supplied version equal to or greater than the stored version
// passes the currency check.
var ErrVersionOutdated = fmt.Errorf("version outdated")

// ErrNotExists reports that no film with the given id is stored.
var ErrNotExists = fmt.Errorf("film does not exist")

// ValidationError carries the merged field-violation map produced by
// model.ValidateFilm. It is a value describing user input, not an
// infrastructure failure.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("film invalid: %d violation(s)", len(e.Fields))
}

// TitelExistsError reports that another record already owns the title.
// ID names the conflicting record.
type TitelExistsError struct {
	Titel string
	ID    string
}

func (e *TitelExistsError) Error() string {
	return fmt.Sprintf("titel %q already exists at %s", e.Titel, e.ID)
}
