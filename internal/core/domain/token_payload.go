package domain

type UserRole string

const (
	Admin  UserRole = "admin"
	Editor UserRole = "editor"
	Viewer UserRole = "viewer"
)

func (r UserRole) Valid() bool {
	return r == Admin || r == Editor || r == Viewer
}

type TokenPayload struct {
	Subject string
	Role    UserRole
}

// CanWrite reports whether the role may save bikes.
func (p *TokenPayload) CanWrite() bool {
	return p.Role == Admin || p.Role == Editor
}
