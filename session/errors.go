package session

import (
	"errors"
	"fmt"
)

// ErrSessionNotReady is returned by Send when no fully loaded session is
// active. No network call is made in that case.
var ErrSessionNotReady = errors.New("session is not ready")

// RegistryFetchError reports a failed registry refresh. The previous
// snapshot is retained.
type RegistryFetchError struct {
	Err error
}

func (e *RegistryFetchError) Error() string {
	return fmt.Sprintf("failed to refresh session list: %v", e.Err)
}

func (e *RegistryFetchError) Unwrap() error {
	return e.Err
}

// SwitchError reports a failed or superseded switch. After a failed switch
// the machine is back in a well-defined state, never half-switched.
type SwitchError struct {
	Target     string
	Superseded bool
	Err        error
}

func (e *SwitchError) Error() string {
	if e.Superseded {
		return fmt.Sprintf("switch to session %s superseded by a newer request", e.Target)
	}
	return fmt.Sprintf("failed to switch to session %s: %v", e.Target, e.Err)
}

func (e *SwitchError) Unwrap() error {
	return e.Err
}

// DispatchError reports a failed message send. The buffer is left unchanged.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to send message: %v", e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// IdentityMismatchError reports a response whose echoed session id disagrees
// with the request. The exchange is dropped rather than risk attaching it to
// the wrong conversation.
type IdentityMismatchError struct {
	Requested string
	Received  string
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("response session id %q does not match requested %q", e.Received, e.Requested)
}
