package appointment

import "github.com/google/uuid"

const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
	RoleBarber = "barber"
	RoleUser   = "user"
)

// Actor is the authenticated caller behind a mutation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// CustomerCan reports whether a customer may move their own appointment to
// the requested status. Customers can only cancel.
func CustomerCan(to Status) bool {
	return to == StatusCancelled
}
