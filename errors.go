package seaswap

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaifufi/seaport-swap-sdk-go/chain"
)

var (
	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrSubmissionInFlight is returned when a session is asked to submit
	// while its previous submission has not finished
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrRecordNotFound is returned by the record store for an unknown id
	ErrRecordNotFound = errors.New("order record not found")

	// ErrNoActions is returned when the exchange hands back no use case
	ErrNoActions = errors.New("exchange returned no actions")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

func (e *InvalidParamError) Is(target error) bool {
	return target == ErrInvalidParam
}

// NoAccountError is returned when a submission is attempted without a
// connected account
type NoAccountError struct{}

func (e *NoAccountError) Error() string {
	return "no account connected"
}

// UserRejectedActionError is returned when the account holder declines or
// dismisses one of the pending actions
type UserRejectedActionError struct {
	Phase Phase
	Err   error
}

func (e *UserRejectedActionError) Error() string {
	return fmt.Sprintf("user rejected action while %s: %v", e.Phase, e.Err)
}

func (e *UserRejectedActionError) Unwrap() error {
	return e.Err
}

// NetworkOrProtocolError is returned when the exchange protocol or its
// transport fails independently of the user
type NetworkOrProtocolError struct {
	Phase Phase
	Err   error
}

func (e *NetworkOrProtocolError) Error() string {
	return fmt.Sprintf("exchange failed while %s: %v", e.Phase, e.Err)
}

func (e *NetworkOrProtocolError) Unwrap() error {
	return e.Err
}

// PersistenceError is returned by the record store client. The orchestrator
// only logs it.
type PersistenceError struct {
	RecordID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist order record %s: %v", e.RecordID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// classifyActionError maps an error raised while creating or fulfilling an
// order to the user facing taxonomy. A cancelled wallet wait counts as a
// rejection.
func classifyActionError(phase Phase, err error) error {
	if errors.Is(err, chain.ErrUserRejected) || errors.Is(err, context.Canceled) {
		return &UserRejectedActionError{Phase: phase, Err: err}
	}
	return &NetworkOrProtocolError{Phase: phase, Err: err}
}
