// SPDX-License-Identifier: Apache-2.0

package nvmf

import "testing"

func newNexusControlPlane(t *testing.T, nexusBdevName string) (*ControlPlane, *fakeTarget, *fakeNexus) {
	t.Helper()
	target := newFakeTarget()
	nexus := &fakeNexus{name: nexusBdevName}
	cp := &ControlPlane{
		Target:      target,
		Registry:    NewRegistry(),
		Bdevs:       &fakeBdevRegistry{devices: []BdevInfo{{Name: nexusBdevName, Module: NexusModuleName}}},
		Controllers: &fakeControllerRegistry{byName: map[string]*fakeController{}},
		Config:      Config{ReplicaAddress: "0.0.0.0", ReplicaPort: 4420},
		Events:      NewEventBus(),
		ToNexus: func(b BdevInfo) (Nexus, bool) {
			if b.Name == nexusBdevName {
				return nexus, true
			}
			return nil, false
		},
		ToReplica: func(BdevInfo) (Replica, bool) { return nil, false },
	}
	return cp, target, nexus
}

func TestDispatchEventHostConnectAddsInitiatorOnNexus(t *testing.T) {
	cp, target, nexus := newNexusControlPlane(t, "n1")
	s, err := cp.Create("n1")
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}

	ctrl := NewController("host.nqn.a", nil)
	target.deliver(s.handle, SubsystemEvent{Kind: EventHostConnect, Ctrl: ctrl})

	if len(nexus.initiators) != 1 || nexus.initiators[0] != "host.nqn.a" {
		t.Fatalf("nexus.initiators = %v, want [host.nqn.a]", nexus.initiators)
	}
	if ctrl.CplErrorCallback() == nil {
		t.Fatalf("controller has no completion-error callback installed after connect")
	}
}

func TestDispatchEventHostDisconnectRemovesInitiatorAndClearsCallback(t *testing.T) {
	cp, target, nexus := newNexusControlPlane(t, "n1")
	s, err := cp.Create("n1")
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}

	ctrl := NewController("host.nqn.a", nil)
	target.deliver(s.handle, SubsystemEvent{Kind: EventHostConnect, Ctrl: ctrl})
	target.deliver(s.handle, SubsystemEvent{Kind: EventHostDisconnect, Ctrl: ctrl})

	if len(nexus.initiators) != 0 {
		t.Fatalf("nexus.initiators = %v, want empty after disconnect", nexus.initiators)
	}
	if ctrl.CplErrorCallback() != nil {
		t.Fatalf("controller still has a completion-error callback after disconnect")
	}
}

func TestDispatchEventHostKatoOnNexusNotifiesInitiator(t *testing.T) {
	cp, target, nexus := newNexusControlPlane(t, "n1")
	s, err := cp.Create("n1")
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}

	ctrl := NewController("host.nqn.a", nil)
	target.deliver(s.handle, SubsystemEvent{Kind: EventHostKeepAliveTimeout, Ctrl: ctrl})

	if nexus.katoCount != 1 {
		t.Fatalf("nexus.katoCount = %d, want 1", nexus.katoCount)
	}
}

func TestDispatchEventHostKatoOnReplicaIsLogOnly(t *testing.T) {
	target := newFakeTarget()
	replica := &fakeReplica{name: "l1"}
	cp := &ControlPlane{
		Target:      target,
		Registry:    NewRegistry(),
		Bdevs:       &fakeBdevRegistry{devices: []BdevInfo{{Name: "l1", Module: ReplicaModuleName}}},
		Controllers: &fakeControllerRegistry{byName: map[string]*fakeController{}},
		Config:      Config{ReplicaAddress: "0.0.0.0", ReplicaPort: 4420},
		Events:      NewEventBus(),
		ToNexus:     func(BdevInfo) (Nexus, bool) { return nil, false },
		ToReplica: func(b BdevInfo) (Replica, bool) {
			if b.Name == "l1" {
				return replica, true
			}
			return nil, false
		},
	}
	s, err := cp.Create("l1")
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}

	ctrl := NewController("host.nqn.a", nil)
	// Must not panic despite Replica having no KATO hook.
	target.deliver(s.handle, SubsystemEvent{Kind: EventHostKeepAliveTimeout, Ctrl: ctrl})
}
