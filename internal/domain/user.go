package domain

// Role is the authorization role carried in the access token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string { return string(r) }

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User is the read-only projection of an account used for display names.
// Accounts are managed by the external identity component.
type User struct {
	ID          int64
	Username    string
	DisplayName string
	Role        Role
}

// Name returns the display name, falling back to the username.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
