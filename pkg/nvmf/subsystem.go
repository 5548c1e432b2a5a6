// SPDX-License-Identifier: Apache-2.0

package nvmf

import (
	"log"
)

// State is one of a subsystem's lifecycle states.
type State int

const (
	StateInactive State = iota
	StateActive
	StatePaused
	StateDestroying
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "Inactive"
	case StateActive:
		return "Active"
	case StatePaused:
		return "Paused"
	case StateDestroying:
		return "Destroying"
	default:
		return "Unknown"
	}
}

// Subsystem is a handle to a live NVMe-oF subsystem. All mutation
// happens through its methods; direct field mutation from outside the
// package is not possible and transitions are only legal via the methods
// that drive the state-change engine.
type Subsystem struct {
	cp      *ControlPlane
	handle  Handle
	nqn     string
	subtype SubType
	serial  string
	model   string
	state   State

	allowAnyHost bool
	anaReporting bool

	hasNamespace bool
	bdev         BdevInfo

	cntlidMin, cntlidMax uint16
}

// ControlPlane aggregates everything the subsystem lifecycle needs from
// its environment: the foreign target, the process-wide registry, the
// bdev and controller registries, configuration, and the observability
// sink. It is a reactor-local owner: a single instance should be held by
// the one goroutine that drives the control plane.
type ControlPlane struct {
	Target      Target
	Registry    *Registry
	Bdevs       BdevRegistry
	Controllers ControllerRegistry
	Config      Config
	Events      *EventBus

	// ToNexus and ToReplica adapt a classified bdev into the narrow
	// Nexus/Replica capability interfaces this package consumes. A real
	// process resolves these against its nexus/lvol subsystems; nil
	// adapters are treated as "never resolves".
	ToNexus   func(BdevInfo) (Nexus, bool)
	ToReplica func(BdevInfo) (Replica, bool)
}

// NewControlPlane wires a Target and the supporting registries into a
// ready-to-use control plane.
func NewControlPlane(target Target, bdevs BdevRegistry, controllers ControllerRegistry, cfg Config) *ControlPlane {
	return &ControlPlane{
		Target:      target,
		Registry:    NewRegistry(),
		Bdevs:       bdevs,
		Controllers: controllers,
		Config:      cfg,
		Events:      NewEventBus(),
	}
}

// NQN, Subtype, Serial, Model, State, AllowAnyHost and AnaReporting expose
// the Subsystem's identity and current lifecycle state.
func (s *Subsystem) NQN() string          { return s.nqn }
func (s *Subsystem) Subtype() SubType     { return s.subtype }
func (s *Subsystem) Serial() string       { return s.serial }
func (s *Subsystem) Model() string        { return s.model }
func (s *Subsystem) State() State         { return s.state }
func (s *Subsystem) AllowAnyHost() bool   { return s.allowAnyHost }
func (s *Subsystem) AnaReporting() bool   { return s.anaReporting }

// Create allocates a new NVMe-type subsystem named from uuid, sets its
// serial and model, and registers the event dispatcher callback. If a
// subsystem with the derived NQN already exists, it fails
// with ErrAlreadyExists. If serial/model installation fails, the
// partially constructed subsystem is destroyed before returning.
func (cp *ControlPlane) Create(uuid string) (*Subsystem, error) {
	nqn := MakeNQN(uuid)
	if _, exists := cp.Registry.LookupByNQN(nqn); exists {
		return nil, ErrAlreadyExists
	}

	handle, err := cp.Target.CreateSubsystem(nqn, SubTypeNVMe, 1)
	if err != nil {
		return nil, &CreateTargetError{Msg: err.Error()}
	}

	s := &Subsystem{
		cp:      cp,
		handle:  handle,
		nqn:     nqn,
		subtype: SubTypeNVMe,
		model:   ModelNumber,
		state:   StateInactive,
	}

	serial := uuid
	if bdev, ok := cp.Bdevs.Lookup(uuid); ok {
		serial = bdev.UUID
	}
	s.serial = MakeSerial([]byte(serial))

	if err := cp.Target.SetSerialNumber(handle, s.serial); err != nil {
		s.destroyUnsafe()
		return nil, &SubsystemError{Errno: -1, NQN: nqn, Msg: "failed to set serial: " + err.Error()}
	}
	if err := cp.Target.SetModelNumber(handle, s.model); err != nil {
		s.destroyUnsafe()
		return nil, &SubsystemError{Errno: -1, NQN: nqn, Msg: "failed to set model number: " + err.Error()}
	}

	cp.Target.SetEventCallback(handle, func(ev SubsystemEvent) {
		cp.dispatchEvent(s, ev)
	})

	cp.Registry.register(s)
	return s, nil
}

// TryFromBdev creates a subsystem for bdev: create, disable ANA
// reporting, forbid any-host, add the namespace. If bdev is
// already claimed by another consumer it fails with ErrAlreadyShared
// without creating anything. If namespace addition fails, the subsystem
// is destroyed before returning.
func (cp *ControlPlane) TryFromBdev(bdev BdevInfo, ptplPath string) (*Subsystem, error) {
	if bdev.Claimed {
		return nil, ErrAlreadyShared
	}

	s, err := cp.Create(bdev.UUID)
	if err != nil {
		return nil, err
	}
	if err := s.SetAnaReporting(false); err != nil {
		s.destroyUnsafe()
		return nil, err
	}
	s.AllowAny(false)
	if err := s.AddNamespace(bdev, ptplPath); err != nil {
		s.destroyUnsafe()
		return nil, err
	}
	return s, nil
}

// AddNamespace attaches bdev as namespace 1. The NGUID is always the
// bdev's UUID bytes. ptplPath, if non-empty, is forwarded for
// persist-through-power-loss.
func (s *Subsystem) AddNamespace(bdev BdevInfo, ptplPath string) error {
	nsid, err := s.cp.Target.AddNamespace(s.handle, bdev, ptplPath)
	if err != nil {
		return &NamespaceError{Bdev: bdev.Name, Msg: err.Error()}
	}
	if nsid < 1 {
		return &NamespaceError{Bdev: bdev.Name, Msg: "failed to add namespace ID"}
	}
	s.hasNamespace = true
	s.bdev = bdev
	return nil
}

// Bdev returns the bdev bound as namespace 1, if any.
func (s *Subsystem) Bdev() (BdevInfo, bool) {
	if !s.hasNamespace {
		return BdevInfo{}, false
	}
	return s.bdev, true
}

// SetCntlidRange sets the inclusive controller-ID range.
func (s *Subsystem) SetCntlidRange(min, max uint16) error {
	if err := s.cp.Target.SetCntlidRange(s.handle, min, max); err != nil {
		return &SubsystemError{NQN: s.nqn, Msg: "failed to set cntlid range: " + err.Error()}
	}
	s.cntlidMin, s.cntlidMax = min, max
	return nil
}

// CntlidRange returns the currently configured controller-ID range.
func (s *Subsystem) CntlidRange() (min, max uint16) {
	return s.cntlidMin, s.cntlidMax
}

// SetAnaReporting is gated on the NEXUS_NVMF_ANA_ENABLE environment
// variable: if it isn't exactly "1", this is a successful no-op
// regardless of enable.
func (s *Subsystem) SetAnaReporting(enable bool) error {
	if !anaReportingEnabled() {
		return nil
	}
	if err := s.cp.Target.SetANAReporting(s.handle, enable); err != nil {
		return &SubsystemError{NQN: s.nqn, Msg: "failed to set ANA reporting: " + err.Error()}
	}
	s.anaReporting = enable
	return nil
}

// AllowAny toggles whether any host may connect regardless of the ACL.
func (s *Subsystem) AllowAny(enable bool) {
	_ = s.cp.Target.SetAllowAnyHost(s.handle, enable)
	s.allowAnyHost = enable
}

// Start adds the replica-port listener and transitions the subsystem to
// Active. On any failure, the subsystem is unconditionally destroyed
// before the error is returned.
func (s *Subsystem) Start() (string, error) {
	if err := s.addListener(); err != nil {
		log.Printf("start: subsystem %s: failed to add listener: %v; destroying it", s.nqn, err)
		s.destroyUnsafe()
		return "", err
	}

	f := func(done StatusDoneFunc) int32 { return s.cp.Target.Start(s.handle, done) }
	if err := changeState("start", s.nqn, f); err != nil {
		log.Printf("start: subsystem %s failed: %v; destroying it", s.nqn, err)
		s.destroyUnsafe()
		return "", err
	}
	s.state = StateActive
	return s.nqn, nil
}

// Stop transitions Active -> Inactive.
func (s *Subsystem) Stop() error {
	f := func(done StatusDoneFunc) int32 { return s.cp.Target.Stop(s.handle, done) }
	if err := changeState("stop", s.nqn, f); err != nil {
		return err
	}
	s.state = StateInactive
	return nil
}

// Pause transitions Active -> Paused.
func (s *Subsystem) Pause() error {
	f := func(done StatusDoneFunc) int32 { return s.cp.Target.Pause(s.handle, done) }
	if err := changeState("pause", s.nqn, f); err != nil {
		return err
	}
	s.state = StatePaused
	return nil
}

// Resume transitions Paused -> Active.
func (s *Subsystem) Resume() error {
	f := func(done StatusDoneFunc) int32 { return s.cp.Target.Resume(s.handle, done) }
	if err := changeState("resume", s.nqn, f); err != nil {
		return err
	}
	s.state = StateActive
	return nil
}

// ShutdownUnsafe removes namespace 1 (logging but not failing on error)
// and destroys the subsystem. The subsystem must be Inactive or Paused.
func (s *Subsystem) ShutdownUnsafe() error {
	if s.hasNamespace {
		if err := s.cp.Target.RemoveNamespace(s.handle, 1); err != nil {
			log.Printf("shutdown: subsystem %s: failed to remove namespace 1: %v", s.nqn, err)
		}
	}
	return s.destroyUnsafe()
}

// DestroyUnsafe destroys the subsystem. It is idempotent: a second call
// returns ErrAlreadyDestroying.
func (s *Subsystem) DestroyUnsafe() error {
	return s.destroyUnsafe()
}

func (s *Subsystem) destroyUnsafe() error {
	if s.state == StateDestroying {
		log.Printf("destroy: subsystem %s: destruction already in progress", s.nqn)
		return ErrAlreadyDestroying
	}
	s.state = StateDestroying
	err := s.cp.Target.DestroySubsystem(s.handle)
	s.cp.Registry.unregister(s)
	return err
}

// StopAll iterates every registered subsystem and stops it; errors are
// logged, not propagated.
func (cp *ControlPlane) StopAll() {
	for _, s := range cp.Registry.All() {
		if err := s.Stop(); err != nil {
			log.Printf("stop_all: failed to stop subsystem %s: %v", s.NQN(), err)
		}
	}
}
