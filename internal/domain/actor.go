package domain

// Actor is the authenticated caller as seen by the engine. Authentication
// itself happens upstream; the engine only consumes the capability checks.
type Actor struct {
	UserID string
	Role   string
}

// CanOverrideClosedDay reports whether the actor may mutate orders of a
// closed day.
func (a Actor) CanOverrideClosedDay() bool { return a.Role == "admin" }

// CanReopenDay reports whether the actor may reopen a closed day.
func (a Actor) CanReopenDay() bool { return a.Role == "admin" }

// CanManageBilling reports whether the actor may change the invoice
// numbering settings.
func (a Actor) CanManageBilling() bool { return a.Role == "admin" }
