// SPDX-License-Identifier: Apache-2.0

package nvmf

import (
	"errors"
	"fmt"
)

// ErrAlreadyDestroying is returned by DestroyUnsafe when a destruction is
// already in flight for the subsystem.
var ErrAlreadyDestroying = errors.New("subsystem: destruction already in progress")

// ErrAlreadyExists is returned by Create when a subsystem with the derived
// NQN is already registered.
var ErrAlreadyExists = errors.New("subsystem: NQN already exists")

// ErrAlreadyShared is returned by TryFromBdev when the backing device is
// already claimed by another consumer.
var ErrAlreadyShared = errors.New("subsystem: bdev already shared")

// CreateTargetError covers subsystem-allocation failures that occur
// before a Subsystem object exists, so there is nothing to destroy on the
// way out.
type CreateTargetError struct {
	Msg string
}

func (e *CreateTargetError) Error() string {
	return fmt.Sprintf("create target: %s", e.Msg)
}

// SubsystemError wraps a nonzero errno returned by any foreign call made
// on an existing subsystem.
type SubsystemError struct {
	Errno int32
	NQN   string
	Msg   string
}

func (e *SubsystemError) Error() string {
	return fmt.Sprintf("subsystem %s: %s (errno %d)", e.NQN, e.Msg, e.Errno)
}

// SubsystemBusyError is returned when a state transition is still EBUSY
// after the State-Change Engine's retry budget is exhausted.
type SubsystemBusyError struct {
	NQN string
	Op  string
}

func (e *SubsystemBusyError) Error() string {
	return fmt.Sprintf("subsystem %s: %s still busy after retries", e.NQN, e.Op)
}

// InitiationFailedError is returned when the driving function for a state
// transition returns a nonzero, non-EBUSY return code: the transition was
// never even queued, so there is no completion to await.
type InitiationFailedError struct {
	Errno int32
	Op    string
}

func (e *InitiationFailedError) Error() string {
	return fmt.Sprintf("%s: failed to initiate (errno %d)", e.Op, e.Errno)
}

// OpFailedError is returned when a state transition was queued but its
// completion callback reported a nonzero status.
type OpFailedError struct {
	Errno int32
	Op    string
}

func (e *OpFailedError) Error() string {
	return fmt.Sprintf("%s: failed (errno %d)", e.Op, e.Errno)
}

// NamespaceError is returned when AddNamespace's foreign call reports an
// NSID below 1.
type NamespaceError struct {
	Bdev string
	Msg  string
}

func (e *NamespaceError) Error() string {
	return fmt.Sprintf("namespace %s: %s", e.Bdev, e.Msg)
}

// HostCstrNulError is returned when a host NQN contains an interior NUL
// byte and therefore cannot be passed to the foreign target as a C string.
type HostCstrNulError struct {
	Host string
}

func (e *HostCstrNulError) Error() string {
	return fmt.Sprintf("host NQN %q contains an interior NUL", e.Host)
}

// TransportError is returned when listener addition fails.
type TransportError struct {
	Errno int32
	Msg   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s (errno %d)", e.Msg, e.Errno)
}

// ListenerError is returned when a named listener cannot be found, e.g.
// by GetAnaState.
type ListenerError struct {
	NQN  string
	Trid string
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("subsystem %s: no listener for %s", e.NQN, e.Trid)
}
