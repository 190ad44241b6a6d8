// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// User is the single account record in the system. Session state is carried
// entirely by RefreshToken: empty means no active session, otherwise it holds
// the last refresh token issued at login. At most one live refresh token per
// user at a time.
type User struct {
	ID           int64  // Monotonically assigned identifier, immutable once set.
	Name         string // The user's display name.
	Email        string // Login identifier, unique across the store (case-sensitive).
	PasswordHash string // bcrypt hash of the user's password.
	RefreshToken string // Current refresh token, or empty when logged out.
}

// PublicUser is the outward-facing projection of User. Password hashes and
// refresh tokens never leave the service through listing or lookup endpoints.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the sanitized projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
