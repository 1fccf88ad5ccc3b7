package domain

import (
	"errors"

	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
)

// Status is the closed set of fulfillment states. Orders move forward one
// step at a time; Rejected is a side exit from any non-terminal state.
type Status string

const (
	StatusPendingConfirmation Status = "PENDING_CONFIRMATION"
	StatusAccepted            Status = "ACCEPTED"
	StatusInProduction        Status = "IN_PRODUCTION"
	StatusProductionComplete  Status = "PRODUCTION_COMPLETE"
	StatusReadyToShip         Status = "READY_TO_SHIP"
	StatusCompleted           Status = "COMPLETED"
	StatusRejected            Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendingConfirmation, StatusAccepted, StatusInProduction,
		StatusProductionComplete, StatusReadyToShip, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Terminal states accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

var (
	ErrTransitionDenied  = errors.New("transition_denied")
	ErrPaymentIncomplete = errors.New("payment_incomplete")
)

type transition struct {
	from Status
	to   Status
}

type transitionRule struct {
	roles               []authdomain.Role
	requiresFullPayment bool
}

// transitionTable is the single source of truth for forward transitions.
// Rejection is handled separately because it is reachable from every
// non-terminal state.
var transitionTable = map[transition]transitionRule{
	{StatusPendingConfirmation, StatusAccepted}: {
		roles: []authdomain.Role{authdomain.RoleAdmin, authdomain.RoleCashier},
	},
	{StatusAccepted, StatusInProduction}: {
		roles: []authdomain.Role{authdomain.RoleAdmin, authdomain.RoleCashier},
	},
	{StatusInProduction, StatusProductionComplete}: {
		roles: []authdomain.Role{authdomain.RoleAdmin, authdomain.RoleStaff},
	},
	{StatusProductionComplete, StatusReadyToShip}: {
		roles: []authdomain.Role{authdomain.RoleAdmin, authdomain.RoleCashier},
		// Re-checked at transition time inside the same transaction that
		// writes the status; applies to every role, admin included.
		requiresFullPayment: true,
	},
	{StatusReadyToShip, StatusCompleted}: {
		roles: []authdomain.Role{authdomain.RoleAdmin, authdomain.RoleCashier},
	},
}

var rejectionRoles = []authdomain.Role{authdomain.RoleAdmin, authdomain.RoleCashier}

// CanTransition reports whether role may move an order from one status to
// another, and whether the move is gated on payment completeness. Any pair
// or role outside the table yields ErrTransitionDenied.
func CanTransition(from, to Status, role authdomain.Role) (requiresFullPayment bool, err error) {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false, ErrTransitionDenied
	}

	if to == StatusRejected {
		if !roleAllowed(rejectionRoles, role) {
			return false, ErrTransitionDenied
		}
		return false, nil
	}

	rule, ok := transitionTable[transition{from: from, to: to}]
	if !ok {
		return false, ErrTransitionDenied
	}
	if !roleAllowed(rule.roles, role) {
		return false, ErrTransitionDenied
	}
	return rule.requiresFullPayment, nil
}

func roleAllowed(allowed []authdomain.Role, role authdomain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
