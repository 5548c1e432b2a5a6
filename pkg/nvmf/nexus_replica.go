// SPDX-License-Identifier: Apache-2.0

package nvmf

// EventMeta is the metadata attached to an observability event: the
// subsystem's own identity plus, if the NQN classified to a concrete
// target, that target's metadata.
type EventMeta struct {
	SubsystemNQN string
	HostNQN      string
	TargetMeta   map[string]string
}

// Nexus is the capability surface the control core needs from a nexus
// bdev: identity plus initiator/KATO hooks. The nexus subsystem itself
// (replica placement, rebuild policy, ...) lives elsewhere.
type Nexus interface {
	// Name is the bdev name this Nexus is registered under.
	Name() string
	AddInitiator(hostNQN string)
	RemoveInitiator(hostNQN string)
	InitiatorKeepAliveTimeout(hostNQN string)
	// HostTargetMeta enriches base with nexus-specific metadata for
	// observability events.
	HostTargetMeta(base EventMeta) EventMeta
}

// Replica is the capability surface needed from a thin/thick-provisioned
// logical volume bdev. Unlike Nexus, a replica has no initiator
// add/remove hook; a keep-alive timeout against a replica is logged only.
type Replica interface {
	Name() string
	HostTargetMeta(base EventMeta) EventMeta
}

// NqnTargetKind discriminates the tagged NqnTarget variant.
type NqnTargetKind int

const (
	// NqnTargetNone means the NQN did not resolve to any known bdev.
	NqnTargetNone NqnTargetKind = iota
	NqnTargetNexus
	NqnTargetReplica
)

// NqnTarget is the tagged classifier computed on demand for an NQN: it is
// never persisted on the Subsystem, only derived when an event needs to
// be routed. A tagged struct reads better here than a Nexus/Replica
// interface hierarchy, since None is a legitimate, common outcome.
type NqnTarget struct {
	Kind    NqnTargetKind
	Nexus   Nexus
	Replica Replica
}

// LookupNqnTarget classifies nqn by parsing its "<prefix>:<name>" suffix
// and probing the bdev registry: a bdev owned by the nexus module with a
// matching name resolves to Nexus, one owned by the lvol module resolves
// to Replica (via toReplica), anything else resolves to None.
func LookupNqnTarget(nqn string, bdevs BdevRegistry, toNexus func(BdevInfo) (Nexus, bool), toReplica func(BdevInfo) (Replica, bool)) NqnTarget {
	name, ok := ParseNQNUUID(nqn)
	if !ok {
		return NqnTarget{Kind: NqnTargetNone}
	}

	for _, b := range bdevs.Devices() {
		if b.Name != name {
			continue
		}
		switch b.Module {
		case NexusModuleName:
			if n, ok := toNexus(b); ok {
				return NqnTarget{Kind: NqnTargetNexus, Nexus: n}
			}
		case ReplicaModuleName:
			if r, ok := toReplica(b); ok {
				return NqnTarget{Kind: NqnTargetReplica, Replica: r}
			}
		}
	}
	return NqnTarget{Kind: NqnTargetNone}
}
