// SPDX-License-Identifier: Apache-2.0

package nvmf

import (
	"log"
	"sync"
)

// CplStatus is the mutable slice of a raw NVMe completion a completion
// interceptor rewrites in place. CRD, SCT and SC mirror the NVMe
// completion queue entry's status field.
type CplStatus struct {
	// CRD is the command retry delay field: 0 means "no retry delay
	// advertised".
	CRD uint8
	// SCT is the status code type (e.g. SCTGeneric).
	SCT uint8
	// SC is the status code within that type.
	SC uint8
	// VendorNoSpace marks a vendor/implementation-specific
	// out-of-space status that a replica's interceptor must normalize
	// to a generic CAPACITY_EXCEEDED. A real target would derive this
	// from SCT/SC; the core only needs the predicate.
	VendorNoSpace bool
}

// NVMe generic status code type and the two status codes the completion
// interceptors reason about.
const (
	SCTGeneric            uint8 = 0x0
	SCReservationConflict uint8 = 0x83
	SCCapacityExceeded    uint8 = 0x81
)

// CplErrorCallback is the per-controller completion-error callback slot.
// It must be constant-time and allocation-free: it runs on the I/O
// completion path.
type CplErrorCallback func(*CplStatus)

// Controller is a transient per-connection object. Its lifetime is
// bounded by the host connection it represents.
type Controller struct {
	mu          sync.Mutex
	HostNQN     string
	ForeignHandle Handle
	cplCallback CplErrorCallback
}

// NewController wraps a foreign per-connection handle for a given host.
func NewController(hostNQN string, foreignHandle Handle) *Controller {
	return &Controller{HostNQN: hostNQN, ForeignHandle: foreignHandle}
}

// SetCplErrorCallback installs (or, with a nil cb, clears) the
// completion-error callback slot. This is the single per-controller slot
// both completion interceptor variants are installed through.
func (c *Controller) SetCplErrorCallback(cb CplErrorCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cplCallback = cb
}

// CplErrorCallback returns the currently installed callback, or nil.
func (c *Controller) CplErrorCallback() CplErrorCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cplCallback
}

// Dispatch invokes the installed callback on status, if one is set. It is
// what the I/O completion path calls for every completion that carries an
// error.
func (c *Controller) Dispatch(status *CplStatus) {
	cb := c.CplErrorCallback()
	if cb != nil {
		cb(status)
	}
}

// LockableController is a controller reachable through the process-wide
// controller registry, with a brief lock held by the reset path.
type LockableController interface {
	// Lock must be released by the caller via Unlock once Reset has been
	// invoked or skipped.
	Lock()
	Unlock()
	// Reset asks the foreign controller to reset; cb is invoked exactly
	// once with the outcome. force skips graceful teardown when true.
	Reset(cb func(success bool, ctx any), ctx any, force bool) error
}

// ControllerRegistry is the process-wide registry of NVMe-oF controllers
// keyed by device name.
type ControllerRegistry interface {
	LookupByName(devName string) (LockableController, bool)
}

// ResetController looks devName up in registry, briefly locks it, and
// asks it to reset, reporting success/failure to done exactly once.
func ResetController(registry ControllerRegistry, devName string, done func(success bool)) {
	ctrlr, ok := registry.LookupByName(devName)
	if !ok {
		log.Printf("reset %s: not a valid NVMe controller", devName)
		done(false)
		return
	}

	ctrlr.Lock()
	defer ctrlr.Unlock()

	err := ctrlr.Reset(func(success bool, _ any) {
		if success {
			log.Printf("reset %s: controller successfully reset", devName)
		} else {
			log.Printf("reset %s: controller failed to reset", devName)
		}
		done(success)
	}, nil, false)
	if err != nil {
		log.Printf("reset %s: failed to initiate reset: %v", devName, err)
		done(false)
	}
}
