// SPDX-License-Identifier: Apache-2.0

// Package nvmf implements the control-plane core for exported NVMe-oF
// subsystems: subsystem lifecycle, host access control, listener
// management, state transitions driven by a foreign target library, and
// the event/completion interception paths that depend on whether a
// subsystem's backing device is a nexus or a replica.
//
// The package never talks to a real NVMe-oF target itself. It is driven
// by, and drives, the Target interface in target.go; a real process wires
// a concrete implementation of that interface to an SPDK-style library,
// and tests wire a fake.
package nvmf
