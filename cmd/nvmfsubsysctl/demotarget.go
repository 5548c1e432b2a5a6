// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"sync"

	"github.com/openebs/nvmf-subsys-core/pkg/nvmf"
)

// demoTarget is a minimal in-memory nvmf.Target, standing in for a real
// SPDK-backed implementation so this binary can exercise the control core
// without a running SPDK process.
type demoTarget struct {
	mu   sync.Mutex
	subs map[nvmf.Handle]*demoSubsystem
	next int
}

type demoSubsystem struct {
	nqn       string
	hosts     []string
	listeners []nvmf.TransportID
	anaStates map[nvmf.TransportID]nvmf.ANAState
	bdev      nvmf.BdevInfo
	hasBdev   bool
}

func newDemoTarget() *demoTarget {
	return &demoTarget{subs: make(map[nvmf.Handle]*demoSubsystem)}
}

func (d *demoTarget) CreateSubsystem(nqn string, _ nvmf.SubType, _ int) (nvmf.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	h := d.next
	d.subs[h] = &demoSubsystem{nqn: nqn, anaStates: make(map[nvmf.TransportID]nvmf.ANAState)}
	return h, nil
}

func (d *demoTarget) DestroySubsystem(h nvmf.Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subs, h)
	return nil
}

func (d *demoTarget) SetSerialNumber(nvmf.Handle, string) error { return nil }
func (d *demoTarget) SetModelNumber(nvmf.Handle, string) error  { return nil }
func (d *demoTarget) SetEventCallback(nvmf.Handle, nvmf.EventCallback) {}

func (d *demoTarget) AddNamespace(h nvmf.Handle, bdev nvmf.BdevInfo, _ string) (int32, error) {
	s := d.subs[h]
	s.bdev = bdev
	s.hasBdev = true
	return 1, nil
}

func (d *demoTarget) RemoveNamespace(nvmf.Handle, int32) error { return nil }

func (d *demoTarget) SetAllowAnyHost(nvmf.Handle, bool) error { return nil }

func (d *demoTarget) AddHost(h nvmf.Handle, hostNQN string) error {
	s := d.subs[h]
	s.hosts = append(s.hosts, hostNQN)
	return nil
}

func (d *demoTarget) RemoveHost(h nvmf.Handle, hostNQN string) error {
	s := d.subs[h]
	for i, existing := range s.hosts {
		if existing == hostNQN {
			s.hosts = append(s.hosts[:i], s.hosts[i+1:]...)
			return nil
		}
	}
	return errors.New("host not allowed")
}

func (d *demoTarget) AllowedHosts(h nvmf.Handle) []string {
	return append([]string(nil), d.subs[h].hosts...)
}

func (d *demoTarget) DisconnectHost(_ nvmf.Handle, _ string, done nvmf.StatusDoneFunc) {
	done(0)
}

func (d *demoTarget) SetANAReporting(nvmf.Handle, bool) error { return nil }

func (d *demoTarget) FindListener(h nvmf.Handle, trid nvmf.TransportID) (nvmf.ANAState, bool) {
	state, ok := d.subs[h].anaStates[trid]
	return state, ok
}

func (d *demoTarget) SetANAState(h nvmf.Handle, trid nvmf.TransportID, state nvmf.ANAState, done nvmf.StatusDoneFunc) {
	d.subs[h].anaStates[trid] = state
	done(0)
}

func (d *demoTarget) SetCntlidRange(nvmf.Handle, uint16, uint16) error { return nil }

func (d *demoTarget) AddListener(h nvmf.Handle, trid nvmf.TransportID, done nvmf.StatusDoneFunc) {
	s := d.subs[h]
	s.listeners = append(s.listeners, trid)
	done(0)
}

func (d *demoTarget) Listeners(h nvmf.Handle) []nvmf.TransportID {
	return append([]nvmf.TransportID(nil), d.subs[h].listeners...)
}

func (d *demoTarget) Start(h nvmf.Handle, done nvmf.StatusDoneFunc) int32  { done(0); return 0 }
func (d *demoTarget) Stop(h nvmf.Handle, done nvmf.StatusDoneFunc) int32   { done(0); return 0 }
func (d *demoTarget) Pause(h nvmf.Handle, done nvmf.StatusDoneFunc) int32  { done(0); return 0 }
func (d *demoTarget) Resume(h nvmf.Handle, done nvmf.StatusDoneFunc) int32 { done(0); return 0 }

func (d *demoTarget) NQN(h nvmf.Handle) string { return d.subs[h].nqn }

func (d *demoTarget) Bdev(h nvmf.Handle) (nvmf.BdevInfo, bool) {
	s := d.subs[h]
	return s.bdev, s.hasBdev
}

var _ nvmf.Target = (*demoTarget)(nil)

// demoBdevRegistry is a static single-device nvmf.BdevRegistry built from
// the --uuid flag.
type demoBdevRegistry struct {
	device nvmf.BdevInfo
}

func (r *demoBdevRegistry) Devices() []nvmf.BdevInfo { return []nvmf.BdevInfo{r.device} }

func (r *demoBdevRegistry) Lookup(name string) (nvmf.BdevInfo, bool) {
	if name == r.device.Name || name == r.device.UUID {
		return r.device, true
	}
	return nvmf.BdevInfo{}, false
}

var _ nvmf.BdevRegistry = (*demoBdevRegistry)(nil)
