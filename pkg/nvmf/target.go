// SPDX-License-Identifier: Apache-2.0

package nvmf

// Handle is an opaque reference to a subsystem inside the foreign NVMe-oF
// target library. The core never dereferences it; it only ever hands it
// back to Target.
type Handle interface{}

// SubType is the NVMe subsystem subtype.
type SubType int

const (
	// SubTypeNVMe is a regular NVMe subsystem.
	SubTypeNVMe SubType = iota
	// SubTypeDiscovery is the well-known discovery subsystem.
	SubTypeDiscovery
)

func (t SubType) String() string {
	switch t {
	case SubTypeNVMe:
		return "NVMe"
	case SubTypeDiscovery:
		return "Discovery"
	default:
		return "Unknown"
	}
}

// ANAState mirrors SPDK's spdk_nvme_ana_state values.
type ANAState uint32

const (
	ANAOptimized    ANAState = 0x1
	ANANonOptimized ANAState = 0x2
	ANAInaccessible ANAState = 0x3
)

// EBUSY is the return code Start/Stop/Pause/Resume use to signal "the
// subsystem is mid-transition already, try again". It matches the Linux
// errno value so a real SPDK-backed Target can return the errno it gets
// back from the C API unchanged.
const EBUSY int32 = 16

// StatusDoneFunc is the one-shot completion callback passed to every
// asynchronous Target operation. It must be invoked exactly once.
type StatusDoneFunc func(status int32)

// EventKind classifies a raw subsystem event delivered by the foreign
// target library.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventHostConnect
	EventHostDisconnect
	EventHostKeepAliveTimeout
)

// SubsystemEvent is the translated form of a raw event + payload the
// foreign target library hands to the subsystem's registered event
// callback.
type SubsystemEvent struct {
	Kind EventKind
	Ctrl *Controller
}

// EventCallback is registered once per subsystem at creation time and
// invoked by the foreign target for every host-connect, host-disconnect
// and KATO event on any controller under that subsystem.
type EventCallback func(SubsystemEvent)

// Target is the foreign NVMe-oF target library the control core is
// driven by and drives. Connection acceptance, queue-pair handling, PDU
// parsing and DMA all live on the other side of this interface. A
// production process wires a real SPDK-backed implementation; tests wire
// a fake.
type Target interface {
	// CreateSubsystem allocates a new subsystem of the given subtype
	// with room for maxNamespaces namespaces. It returns a handle or an
	// error if allocation failed (e.g. the NQN is already known to the
	// foreign target).
	CreateSubsystem(nqn string, subtype SubType, maxNamespaces int) (Handle, error)

	// DestroySubsystem releases the foreign subsystem object. It is a
	// synchronous, fire-and-forget call in SPDK terms (destroy itself
	// does not await a completion in the source this was modeled on).
	DestroySubsystem(h Handle) error

	// SetSerialNumber and SetModelNumber install the fixed identity
	// strings computed by Create.
	SetSerialNumber(h Handle, serial string) error
	SetModelNumber(h Handle, model string) error

	// SetEventCallback registers the single per-subsystem event handler.
	SetEventCallback(h Handle, cb EventCallback)

	// AddNamespace attaches bdev as a namespace, forwarding ptplPath
	// (may be empty) for persist-through-power-loss. It returns the
	// assigned NSID, or an NSID < 1 to signal failure.
	AddNamespace(h Handle, bdev BdevInfo, ptplPath string) (nsid int32, err error)
	// RemoveNamespace detaches the namespace with the given NSID.
	RemoveNamespace(h Handle, nsid int32) error

	SetAllowAnyHost(h Handle, enable bool) error
	AddHost(h Handle, hostNQN string) error
	RemoveHost(h Handle, hostNQN string) error
	// AllowedHosts returns the current allow-list in iteration order.
	AllowedHosts(h Handle) []string
	// DisconnectHost asynchronously tears down connections from hostNQN,
	// invoking done exactly once with the resulting status.
	DisconnectHost(h Handle, hostNQN string, done StatusDoneFunc)

	SetANAReporting(h Handle, enable bool) error
	// FindListener reports the ANA state of the listener bound to trid,
	// or ok=false if no such listener exists.
	FindListener(h Handle, trid TransportID) (state ANAState, ok bool)
	SetANAState(h Handle, trid TransportID, state ANAState, done StatusDoneFunc)

	SetCntlidRange(h Handle, min, max uint16) error

	// AddListener asynchronously binds trid to the subsystem.
	AddListener(h Handle, trid TransportID, done StatusDoneFunc)
	// Listeners enumerates all bound listeners, or nil if none are bound.
	Listeners(h Handle) []TransportID

	// Start, Stop, Pause and Resume drive state transitions. Each
	// returns a synchronous return code rc interpreted by the
	// state-change engine:
	//   0     -> done will be invoked exactly once with the completion status.
	//   EBUSY -> the transition was not initiated; retry.
	//   other -> the transition was not initiated and will not complete.
	Start(h Handle, done StatusDoneFunc) int32
	Stop(h Handle, done StatusDoneFunc) int32
	Pause(h Handle, done StatusDoneFunc) int32
	Resume(h Handle, done StatusDoneFunc) int32

	// NQN returns the subsystem's canonical NQN.
	NQN(h Handle) string
	// Bdev returns the bdev bound as namespace 1, if any.
	Bdev(h Handle) (BdevInfo, bool)
}
