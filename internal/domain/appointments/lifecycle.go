package appointments

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidTransition indica una transición ilegal desde el status actual.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyFinalized indica un intento de transición desde un estado terminal.
	ErrAlreadyFinalized = errors.New("appointment already finalized")
	// ErrMissingCancellationReason indica un cancel sin motivo.
	ErrMissingCancellationReason = errors.New("cancellation reason required")
)

// CanConfirm valida pending -> confirmed.
func CanConfirm(current Status) error {
	if current.IsTerminal() {
		return ErrAlreadyFinalized
	}
	if current != StatusPending {
		return ErrInvalidTransition
	}
	return nil
}

// CanComplete valida confirmed -> completed.
func CanComplete(current Status) error {
	if current.IsTerminal() {
		return ErrAlreadyFinalized
	}
	if current != StatusConfirmed {
		return ErrInvalidTransition
	}
	return nil
}

// CanCancel valida pending/confirmed -> cancelled.
// El motivo es obligatorio sea cual sea el status actual.
func CanCancel(current Status, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrMissingCancellationReason
	}
	if current.IsTerminal() {
		return ErrAlreadyFinalized
	}
	return nil
}
