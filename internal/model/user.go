package model

// Role names carried in the JWT "roles" claim. Mutating routes are gated on
// them: creating and updating films needs admin or mitarbeiter, deleting
// needs admin.
const (
	RoleAdmin            = "admin"
	RoleMitarbeiter      = "mitarbeiter"
	RoleAbteilungsleiter = "abteilungsleiter"
	RoleKunde            = "kunde"
)

// User is an entry in the in-memory user directory used for login. Passwords
// are stored bcrypt-hashed only.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Roles        []string
}

// DefaultUsers returns the built-in dev user directory. Every account shares
// the same bcrypt hash, which comes from the USER_PASSWORD_ENCODED env var so
// no password material lives in the source.
func DefaultUsers(passwordHash string) []User {
	return []User{
		{
			ID:           "10000000-0000-0000-0000-000000000001",
			Username:     "admin",
			PasswordHash: passwordHash,
			Email:        "admin@acme.com",
			Roles:        []string{RoleAdmin, RoleMitarbeiter, RoleAbteilungsleiter, RoleKunde},
		},
		{
			ID:           "10000000-0000-0000-0000-000000000002",
			Username:     "tobias.hnyk",
			PasswordHash: passwordHash,
			Email:        "tobias.hnyk@acme.com",
			Roles:        []string{RoleAdmin, RoleMitarbeiter, RoleKunde},
		},
		{
			ID:           "10000000-0000-0000-0000-000000000003",
			Username:     "lisa.maus",
			PasswordHash: passwordHash,
			Email:        "lisa.maus@acme.com",
			Roles:        []string{RoleMitarbeiter, RoleKunde},
		},
		{
			ID:           "10000000-0000-0000-0000-000000000004",
			Username:     "felix.krauss",
			PasswordHash: passwordHash,
			Email:        "felix.krauss@acme.com",
			Roles:        []string{RoleMitarbeiter, RoleKunde},
		},
		{
			ID:           "10000000-0000-0000-0000-000000000005",
			Username:     "michael.schmidt",
			PasswordHash: passwordHash,
			Email:        "michael.schmidt@acme.com",
			Roles:        []string{RoleKunde},
		},
		{
			// Account without roles: can log in, passes no role gate.
			ID:           "10000000-0000-0000-0000-000000000006",
			Username:     "lukas.mueller",
			PasswordHash: passwordHash,
			Email:        "lukas.mueller@acme.com",
		},
	}
}
