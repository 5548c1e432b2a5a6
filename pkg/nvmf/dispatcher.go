// SPDX-License-Identifier: Apache-2.0

package nvmf

import "log"

// dispatchEvent is the single subsystem-level event handler registered
// with the foreign target at Create time. It classifies the NQN target,
// emits an observability event, and performs the kind-specific side
// effect.
func (cp *ControlPlane) dispatchEvent(s *Subsystem, ev SubsystemEvent) {
	tgt := cp.classify(s.nqn)
	if tgt.Kind == NqnTargetNone {
		log.Printf("nvmf event on %s: target for event NQN not found", s.nqn)
	}

	meta := EventMeta{SubsystemNQN: s.nqn}
	if ev.Ctrl != nil {
		meta.HostNQN = ev.Ctrl.HostNQN
	}
	switch tgt.Kind {
	case NqnTargetNexus:
		meta = tgt.Nexus.HostTargetMeta(meta)
	case NqnTargetReplica:
		meta = tgt.Replica.HostTargetMeta(meta)
	}

	switch ev.Kind {
	case EventHostConnect:
		cp.Events.Publish(ActionNvmeConnect, meta)
		cp.hostConnect(s, ev.Ctrl, tgt)
	case EventHostDisconnect:
		cp.Events.Publish(ActionNvmeDisconnect, meta)
		cp.hostDisconnect(s, ev.Ctrl, tgt)
	case EventHostKeepAliveTimeout:
		cp.Events.Publish(ActionNvmeKeepAliveTimeout, meta)
		cp.hostKato(s, ev.Ctrl, tgt)
	case EventUnknown:
		// ignored
	}
}

// classify resolves an NQN to its NqnTarget using the control plane's
// bdev registry and Nexus/Replica adapters.
func (cp *ControlPlane) classify(nqn string) NqnTarget {
	toNexus := cp.ToNexus
	if toNexus == nil {
		toNexus = func(BdevInfo) (Nexus, bool) { return nil, false }
	}
	toReplica := cp.ToReplica
	if toReplica == nil {
		toReplica = func(BdevInfo) (Replica, bool) { return nil, false }
	}
	return LookupNqnTarget(nqn, cp.Bdevs, toNexus, toReplica)
}

func (cp *ControlPlane) hostConnect(s *Subsystem, ctrl *Controller, tgt NqnTarget) {
	switch tgt.Kind {
	case NqnTargetNexus:
		log.Printf("host %s connected to subsystem %s on nexus %s", ctrl.HostNQN, s.nqn, tgt.Nexus.Name())
		tgt.Nexus.AddInitiator(ctrl.HostNQN)
		ctrl.SetCplErrorCallback(NexusCplErrorCallback)
	case NqnTargetReplica:
		log.Printf("host %s connected to subsystem %s on replica %s", ctrl.HostNQN, s.nqn, tgt.Replica.Name())
		ctrl.SetCplErrorCallback(ReplicaCplErrorCallback)
	case NqnTargetNone:
		log.Printf("warning: host %s connect on subsystem %s: no nexus/replica target", ctrl.HostNQN, s.nqn)
	}
}

func (cp *ControlPlane) hostDisconnect(s *Subsystem, ctrl *Controller, tgt NqnTarget) {
	switch tgt.Kind {
	case NqnTargetNexus:
		log.Printf("host %s disconnected from subsystem %s on nexus %s", ctrl.HostNQN, s.nqn, tgt.Nexus.Name())
		tgt.Nexus.RemoveInitiator(ctrl.HostNQN)
		ctrl.SetCplErrorCallback(nil)
	case NqnTargetReplica:
		log.Printf("host %s disconnected from subsystem %s on replica %s", ctrl.HostNQN, s.nqn, tgt.Replica.Name())
		ctrl.SetCplErrorCallback(nil)
	case NqnTargetNone:
		log.Printf("warning: host %s disconnect on subsystem %s: no nexus/replica target", ctrl.HostNQN, s.nqn)
	}
}

func (cp *ControlPlane) hostKato(s *Subsystem, ctrl *Controller, tgt NqnTarget) {
	switch tgt.Kind {
	case NqnTargetNexus:
		log.Printf("warning: host %s keep-alive timeout on subsystem %s on nexus %s", ctrl.HostNQN, s.nqn, tgt.Nexus.Name())
		tgt.Nexus.InitiatorKeepAliveTimeout(ctrl.HostNQN)
	case NqnTargetReplica:
		// Log-only: a replica has no initiator hook to notify.
		log.Printf("warning: host %s keep-alive timeout on subsystem %s on replica %s", ctrl.HostNQN, s.nqn, tgt.Replica.Name())
	case NqnTargetNone:
		log.Printf("warning: host %s keep-alive timeout on subsystem %s: no nexus/replica target", ctrl.HostNQN, s.nqn)
	}
}
