package domain

import (
	"testing"

	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_ForwardPath(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		role    authdomain.Role
		allowed bool
		gated   bool
	}{
		{"cashier accepts pending order", StatusPendingConfirmation, StatusAccepted, authdomain.RoleCashier, true, false},
		{"admin accepts pending order", StatusPendingConfirmation, StatusAccepted, authdomain.RoleAdmin, true, false},
		{"staff cannot accept", StatusPendingConfirmation, StatusAccepted, authdomain.RoleStaff, false, false},
		{"customer cannot accept", StatusPendingConfirmation, StatusAccepted, authdomain.RoleCustomer, false, false},
		{"cashier starts production", StatusAccepted, StatusInProduction, authdomain.RoleCashier, true, false},
		{"staff cannot start production", StatusAccepted, StatusInProduction, authdomain.RoleStaff, false, false},
		{"staff finishes production", StatusInProduction, StatusProductionComplete, authdomain.RoleStaff, true, false},
		{"cashier cannot finish production", StatusInProduction, StatusProductionComplete, authdomain.RoleCashier, false, false},
		{"ready to ship is payment gated for cashier", StatusProductionComplete, StatusReadyToShip, authdomain.RoleCashier, true, true},
		{"ready to ship is payment gated for admin too", StatusProductionComplete, StatusReadyToShip, authdomain.RoleAdmin, true, true},
		{"staff cannot mark ready to ship", StatusProductionComplete, StatusReadyToShip, authdomain.RoleStaff, false, false},
		{"cashier completes order", StatusReadyToShip, StatusCompleted, authdomain.RoleCashier, true, false},
		{"owner has no transition rights", StatusReadyToShip, StatusCompleted, authdomain.RoleOwner, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gated, err := CanTransition(tt.from, tt.to, tt.role)
			if !tt.allowed {
				assert.ErrorIs(t, err, ErrTransitionDenied)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.gated, gated)
		})
	}
}

func TestCanTransition_NoSkippingSteps(t *testing.T) {
	// Scenario: a cashier tries to jump an accepted order straight to
	// production complete.
	_, err := CanTransition(StatusAccepted, StatusProductionComplete, authdomain.RoleCashier)
	assert.ErrorIs(t, err, ErrTransitionDenied)

	// No role may skip, admin included.
	_, err = CanTransition(StatusAccepted, StatusProductionComplete, authdomain.RoleAdmin)
	assert.ErrorIs(t, err, ErrTransitionDenied)

	_, err = CanTransition(StatusPendingConfirmation, StatusInProduction, authdomain.RoleAdmin)
	assert.ErrorIs(t, err, ErrTransitionDenied)
}

func TestCanTransition_NoBackwardMoves(t *testing.T) {
	backward := []struct{ from, to Status }{
		{StatusAccepted, StatusPendingConfirmation},
		{StatusInProduction, StatusAccepted},
		{StatusProductionComplete, StatusInProduction},
		{StatusReadyToShip, StatusProductionComplete},
	}
	for _, pair := range backward {
		_, err := CanTransition(pair.from, pair.to, authdomain.RoleAdmin)
		assert.ErrorIs(t, err, ErrTransitionDenied, "%s -> %s", pair.from, pair.to)
	}
}

func TestCanTransition_Rejection(t *testing.T) {
	nonTerminal := []Status{
		StatusPendingConfirmation,
		StatusAccepted,
		StatusInProduction,
		StatusProductionComplete,
		StatusReadyToShip,
	}

	for _, from := range nonTerminal {
		gated, err := CanTransition(from, StatusRejected, authdomain.RoleCashier)
		require.NoError(t, err, "cashier rejects from %s", from)
		assert.False(t, gated)

		_, err = CanTransition(from, StatusRejected, authdomain.RoleStaff)
		assert.ErrorIs(t, err, ErrTransitionDenied, "staff rejects from %s", from)
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	targets := []Status{
		StatusPendingConfirmation,
		StatusAccepted,
		StatusInProduction,
		StatusProductionComplete,
		StatusReadyToShip,
		StatusCompleted,
		StatusRejected,
	}

	for _, terminal := range []Status{StatusCompleted, StatusRejected} {
		for _, to := range targets {
			_, err := CanTransition(terminal, to, authdomain.RoleAdmin)
			assert.ErrorIs(t, err, ErrTransitionDenied, "%s -> %s", terminal, to)
		}
	}
}

func TestCanTransition_InvalidStatuses(t *testing.T) {
	_, err := CanTransition("SHIPPED", StatusCompleted, authdomain.RoleAdmin)
	assert.ErrorIs(t, err, ErrTransitionDenied)

	_, err = CanTransition(StatusAccepted, "SHIPPED", authdomain.RoleAdmin)
	assert.ErrorIs(t, err, ErrTransitionDenied)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusPendingConfirmation.Terminal())
	assert.False(t, StatusReadyToShip.Terminal())
}
