package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Module error codes
var (
	ErrUnauthorized          = errorsmod.Register(ModuleName, 1, "unauthorized")
	ErrInvalidWindow         = errorsmod.Register(ModuleName, 2, "Incorrect endblock number")
	ErrPoolNotAmendable      = errorsmod.Register(ModuleName, 3, "pool is not amendable")
	ErrClaimsLocked          = errorsmod.Register(ModuleName, 4, "Claiming reward is not available yet")
	ErrInsufficientPrincipal = errorsmod.Register(ModuleName, 5, "Withdrawal amount is greater than available")
	ErrNoWithdrawalRequest   = errorsmod.Register(ModuleName, 6, "Request withdrawal first")
	ErrTimelockNotElapsed    = errorsmod.Register(ModuleName, 7, "Withdrawal is not active yet")
	ErrRequestExpired        = errorsmod.Register(ModuleName, 8, "Withdrawal is expired")
	ErrInvestorLockActive    = errorsmod.Register(ModuleName, 9, "LP tokens are not yet unlocked for private investors")
	ErrContractPaused        = errorsmod.Register(ModuleName, 10, "Pausable: paused")
	ErrNotPaused             = errorsmod.Register(ModuleName, 11, "Pausable: not paused")
	ErrCollaboratorFailure   = errorsmod.Register(ModuleName, 12, "token transfer failed")

	// Lookup and validation errors
	ErrPoolNotFound   = errorsmod.Register(ModuleName, 20, "pool not found")
	ErrInvalidAmount  = errorsmod.Register(ModuleName, 21, "invalid amount")
	ErrInvalidAddress = errorsmod.Register(ModuleName, 22, "invalid address")
	ErrInvalidParams  = errorsmod.Register(ModuleName, 23, "invalid params")
	ErrAlreadyPaused  = errorsmod.Register(ModuleName, 24, "Pausable: paused")
	ErrRewardOverflow = errorsmod.Register(ModuleName, 25, "reward computation overflow")
	ErrInvalidGenesis = errorsmod.Register(ModuleName, 26, "invalid genesis state")
)

// Role failure reasons
const (
	ReasonNotManager = "Caller is not the Manager"
	ReasonNotAdmin   = "Caller is not the Admin"
)

// ErrNotManager wraps ErrUnauthorized with the manager reason
func ErrNotManager() error {
	return errorsmod.Wrap(ErrUnauthorized, ReasonNotManager)
}

// ErrNotAdmin wraps ErrUnauthorized with the admin reason
func ErrNotAdmin() error {
	return errorsmod.Wrap(ErrUnauthorized, ReasonNotAdmin)
}

// CollaboratorError carries a token collaborator failure. Its message is the
// collaborator's reason, unmodified.
type CollaboratorError struct {
	Op  string
	Err error
}

// NewCollaboratorError wraps err; nil in, nil out
func NewCollaboratorError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return err
	}
	return &CollaboratorError{Op: op, Err: err}
}

func (e *CollaboratorError) Error() string {
	return e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Is matches ErrCollaboratorFailure so callers can classify without
// losing the reason string.
func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaboratorFailure
}
