package entity

// Identity is the authenticated caller for the duration of one request.
// It is built from verified token claims and never persisted or mutated.
// An anonymous caller has no Identity at all; the middleware rejects the
// request before any policy check runs.
type Identity struct {
	ID    uint     `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanManage is the owner-or-admin policy: the caller may act on the
// target resource when it owns it or when it is an admin. Pure, no I/O.
func (i Identity) CanManage(ownerID uint) bool {
	return i.ID == ownerID || i.IsAdmin()
}
