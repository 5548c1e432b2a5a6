// SPDX-License-Identifier: Apache-2.0

package nvmf

import (
	"errors"
	"sync"
)

// fakeSubsystem is the state a fakeTarget keeps per created subsystem.
type fakeSubsystem struct {
	nqn           string
	subtype       SubType
	maxNamespaces int
	serial        string
	model         string
	allowAnyHost  bool
	anaReporting  bool
	hosts         []string
	listeners     []TransportID
	anaStates     map[TransportID]ANAState
	namespaces    map[int32]BdevInfo
	nextNSID      int32
	cntlidMin     uint16
	cntlidMax     uint16
	cb            EventCallback
	bdev          BdevInfo
	hasBdev       bool
	destroyed     bool

	// busyCountdown, when > 0, makes the next N Start/Stop/Pause/Resume
	// calls return EBUSY before succeeding.
	busyCountdown int
	// failRC, when non-zero, makes the next Start/Stop/Pause/Resume call
	// return this rc unconditionally (and does not count against
	// busyCountdown).
	failRC int32
}

// fakeTarget is a deterministic, in-memory stand-in for a real SPDK-backed
// Target, used by this package's own tests and suitable as a model for a
// demonstrator binary's Target.
type fakeTarget struct {
	mu   sync.Mutex
	subs map[Handle]*fakeSubsystem
	next int
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{subs: make(map[Handle]*fakeSubsystem)}
}

func (f *fakeTarget) get(h Handle) *fakeSubsystem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[h]
}

// setBusyCountdown arranges for the next n state-change calls against h to
// return EBUSY before the following call succeeds.
func (f *fakeTarget) setBusyCountdown(h Handle, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[h].busyCountdown = n
}

// setFailRC arranges for the next state-change call against h to return rc
// unconditionally.
func (f *fakeTarget) setFailRC(h Handle, rc int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[h].failRC = rc
}

func (f *fakeTarget) CreateSubsystem(nqn string, subtype SubType, maxNamespaces int) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.nqn == nqn && !s.destroyed {
			return nil, errors.New("nqn already exists")
		}
	}
	f.next++
	h := f.next
	f.subs[h] = &fakeSubsystem{
		nqn:           nqn,
		subtype:       subtype,
		maxNamespaces: maxNamespaces,
		namespaces:    make(map[int32]BdevInfo),
		anaStates:     make(map[TransportID]ANAState),
		nextNSID:      1,
	}
	return h, nil
}

func (f *fakeTarget) DestroySubsystem(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.subs[h]
	if s == nil {
		return errors.New("unknown handle")
	}
	s.destroyed = true
	return nil
}

func (f *fakeTarget) SetSerialNumber(h Handle, serial string) error {
	f.get(h).serial = serial
	return nil
}

func (f *fakeTarget) SetModelNumber(h Handle, model string) error {
	f.get(h).model = model
	return nil
}

func (f *fakeTarget) SetEventCallback(h Handle, cb EventCallback) {
	f.get(h).cb = cb
}

func (f *fakeTarget) AddNamespace(h Handle, bdev BdevInfo, _ string) (int32, error) {
	s := f.get(h)
	nsid := s.nextNSID
	s.nextNSID++
	s.namespaces[nsid] = bdev
	s.bdev = bdev
	s.hasBdev = true
	return nsid, nil
}

func (f *fakeTarget) RemoveNamespace(h Handle, nsid int32) error {
	s := f.get(h)
	if _, ok := s.namespaces[nsid]; !ok {
		return errors.New("no such namespace")
	}
	delete(s.namespaces, nsid)
	return nil
}

func (f *fakeTarget) SetAllowAnyHost(h Handle, enable bool) error {
	f.get(h).allowAnyHost = enable
	return nil
}

func (f *fakeTarget) AddHost(h Handle, hostNQN string) error {
	s := f.get(h)
	for _, existing := range s.hosts {
		if existing == hostNQN {
			return nil
		}
	}
	s.hosts = append(s.hosts, hostNQN)
	return nil
}

func (f *fakeTarget) RemoveHost(h Handle, hostNQN string) error {
	s := f.get(h)
	for i, existing := range s.hosts {
		if existing == hostNQN {
			s.hosts = append(s.hosts[:i], s.hosts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeTarget) AllowedHosts(h Handle) []string {
	s := f.get(h)
	out := make([]string, len(s.hosts))
	copy(out, s.hosts)
	return out
}

func (f *fakeTarget) DisconnectHost(h Handle, _ string, done StatusDoneFunc) {
	_ = h
	done(0)
}

func (f *fakeTarget) SetANAReporting(h Handle, enable bool) error {
	f.get(h).anaReporting = enable
	return nil
}

func (f *fakeTarget) FindListener(h Handle, trid TransportID) (ANAState, bool) {
	s := f.get(h)
	state, ok := s.anaStates[trid]
	return state, ok
}

func (f *fakeTarget) SetANAState(h Handle, trid TransportID, state ANAState, done StatusDoneFunc) {
	s := f.get(h)
	s.anaStates[trid] = state
	done(0)
}

func (f *fakeTarget) SetCntlidRange(h Handle, min, max uint16) error {
	s := f.get(h)
	s.cntlidMin, s.cntlidMax = min, max
	return nil
}

func (f *fakeTarget) AddListener(h Handle, trid TransportID, done StatusDoneFunc) {
	s := f.get(h)
	s.listeners = append(s.listeners, trid)
	done(0)
}

func (f *fakeTarget) Listeners(h Handle) []TransportID {
	s := f.get(h)
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]TransportID, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func (f *fakeTarget) transition(h Handle, done StatusDoneFunc) int32 {
	f.mu.Lock()
	s := f.subs[h]
	if s.failRC != 0 {
		rc := s.failRC
		s.failRC = 0
		f.mu.Unlock()
		return rc
	}
	if s.busyCountdown > 0 {
		s.busyCountdown--
		f.mu.Unlock()
		return EBUSY
	}
	f.mu.Unlock()
	done(0)
	return 0
}

func (f *fakeTarget) Start(h Handle, done StatusDoneFunc) int32  { return f.transition(h, done) }
func (f *fakeTarget) Stop(h Handle, done StatusDoneFunc) int32   { return f.transition(h, done) }
func (f *fakeTarget) Pause(h Handle, done StatusDoneFunc) int32  { return f.transition(h, done) }
func (f *fakeTarget) Resume(h Handle, done StatusDoneFunc) int32 { return f.transition(h, done) }

func (f *fakeTarget) NQN(h Handle) string {
	return f.get(h).nqn
}

func (f *fakeTarget) Bdev(h Handle) (BdevInfo, bool) {
	s := f.get(h)
	return s.bdev, s.hasBdev
}

// deliver feeds ev to the subsystem's registered event callback, the way a
// real target would report a host connect/disconnect/KATO.
func (f *fakeTarget) deliver(h Handle, ev SubsystemEvent) {
	cb := f.get(h).cb
	if cb != nil {
		cb(ev)
	}
}

var _ Target = (*fakeTarget)(nil)

// fakeBdevRegistry is a static, in-memory BdevRegistry for tests.
type fakeBdevRegistry struct {
	devices []BdevInfo
}

func (r *fakeBdevRegistry) Devices() []BdevInfo { return r.devices }

func (r *fakeBdevRegistry) Lookup(name string) (BdevInfo, bool) {
	for _, d := range r.devices {
		if d.Name == name || d.UUID == name {
			return d, true
		}
	}
	return BdevInfo{}, false
}

var _ BdevRegistry = (*fakeBdevRegistry)(nil)

// fakeController is a minimal LockableController for reset-path tests.
type fakeController struct {
	mu        sync.Mutex
	resetErr  error
	resetOK   bool
	resetCall int
}

func (c *fakeController) Lock()   { c.mu.Lock() }
func (c *fakeController) Unlock() { c.mu.Unlock() }

func (c *fakeController) Reset(cb func(success bool, ctx any), ctx any, _ bool) error {
	c.resetCall++
	if c.resetErr != nil {
		return c.resetErr
	}
	cb(c.resetOK, ctx)
	return nil
}

var _ LockableController = (*fakeController)(nil)

// fakeControllerRegistry is a map-backed ControllerRegistry for tests.
type fakeControllerRegistry struct {
	byName map[string]*fakeController
}

func (r *fakeControllerRegistry) LookupByName(devName string) (LockableController, bool) {
	c, ok := r.byName[devName]
	return c, ok
}

var _ ControllerRegistry = (*fakeControllerRegistry)(nil)

// fakeNexus and fakeReplica are minimal Nexus/Replica implementations for
// dispatcher tests.
type fakeNexus struct {
	name        string
	initiators  []string
	katoCount   int
}

func (n *fakeNexus) Name() string { return n.name }
func (n *fakeNexus) AddInitiator(hostNQN string) {
	n.initiators = append(n.initiators, hostNQN)
}
func (n *fakeNexus) RemoveInitiator(hostNQN string) {
	for i, h := range n.initiators {
		if h == hostNQN {
			n.initiators = append(n.initiators[:i], n.initiators[i+1:]...)
			return
		}
	}
}
func (n *fakeNexus) InitiatorKeepAliveTimeout(string) { n.katoCount++ }
func (n *fakeNexus) HostTargetMeta(base EventMeta) EventMeta {
	base.TargetMeta = map[string]string{"nexus": n.name}
	return base
}

var _ Nexus = (*fakeNexus)(nil)

type fakeReplica struct {
	name string
}

func (r *fakeReplica) Name() string { return r.name }
func (r *fakeReplica) HostTargetMeta(base EventMeta) EventMeta {
	base.TargetMeta = map[string]string{"replica": r.name}
	return base
}

var _ Replica = (*fakeReplica)(nil)
