package auth

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleCustomer  Role = "customer"
)

// Caller identifies the authenticated requester. Handlers build it from the
// verified token and pass it into services explicitly; services never reach
// into ambient request state.
type Caller struct {
	CustomerID string
	Role       Role
}

func (c Caller) CanManageEvents() bool {
	return c.Role == RoleAdmin || c.Role == RoleOrganizer
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
