package repository

import "github.com/djungler/filmkatalog/internal/model"

// UserStore is a read-only in-memory user directory. It is built once at
// startup and injected into the login handler instead of living as package
// state, so tests can construct their own directories.
type UserStore struct {
	users []model.User
}

// NewUserStore copies the given users into a fresh store.
func NewUserStore(users []model.User) *UserStore {
	return &UserStore{users: append([]model.User(nil), users...)}
}

// FindByUsername returns the user with the given username, or false when the
// username is unknown.
func (s *UserStore) FindByUsername(username string) (model.User, bool) {
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return model.User{}, false
}
