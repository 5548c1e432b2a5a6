// SPDX-License-Identifier: Apache-2.0

package nvmf

import "fmt"

// TransportKind enumerates the fabric transports a TransportID can name.
type TransportKind int

const (
	TransportTCP TransportKind = iota
	TransportRDMA
)

func (k TransportKind) String() string {
	switch k {
	case TransportTCP:
		return "TCP"
	case TransportRDMA:
		return "RDMA"
	default:
		return "unknown"
	}
}

// TransportID identifies a transport endpoint: kind, address, port and
// service ID. Equality is structural.
type TransportID struct {
	Kind      TransportKind
	Address   string
	Port      uint16
	ServiceID string
}

// NewReplicaPortTransportID builds the one TransportID this package binds
// subsystems to today: a TCP listener on the configured replica port,
// bound to the given address. A subsystem is bound to at most one
// replica port.
func NewReplicaPortTransportID(address string, port uint16) TransportID {
	return TransportID{
		Kind:      TransportTCP,
		Address:   address,
		Port:      port,
		ServiceID: fmt.Sprintf("%d", port),
	}
}

// String renders a TransportID the way the foreign target's trid string
// form does: "<kind> <address>:<port>".
func (t TransportID) String() string {
	return fmt.Sprintf("%s %s:%d", t.Kind, t.Address, t.Port)
}

// URI formats the TransportID with a subsystem NQN appended, the shape
// Subsystem.URIEndpoints returns.
func (t TransportID) URI(nqn string) string {
	return fmt.Sprintf("%s/%s", t, nqn)
}
