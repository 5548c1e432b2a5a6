// SPDX-License-Identifier: Apache-2.0

package nvmf

// replicaTransportID returns the single TransportID this package binds a
// subsystem to: a TCP listener on the configured replica port. Future
// extension points exist for additional ports but are not exercised.
func (s *Subsystem) replicaTransportID() TransportID {
	return NewReplicaPortTransportID(s.cp.Config.ReplicaAddress, s.cp.Config.ReplicaPort)
}

// addListener asynchronously binds the replica-port listener to the
// subsystem.
func (s *Subsystem) addListener() error {
	trid := s.replicaTransportID()
	done := make(chan int32, 1)
	s.cp.Target.AddListener(s.handle, trid, func(status int32) { done <- status })
	status := <-done
	if status != 0 {
		return &TransportError{Errno: status, Msg: "failed to add listener"}
	}
	return nil
}

// Listeners enumerates all bound listeners, or nil if none are bound.
func (s *Subsystem) Listeners() []TransportID {
	return s.cp.Target.Listeners(s.handle)
}

// URIEndpoints formats each bound listener with the subsystem's NQN as
// "<transport-uri>/<nqn>".
func (s *Subsystem) URIEndpoints() []string {
	listeners := s.Listeners()
	if listeners == nil {
		return nil
	}
	out := make([]string, len(listeners))
	for i, trid := range listeners {
		out[i] = trid.URI(s.nqn)
	}
	return out
}

// GetAnaState returns the ANA state of the replica-port listener.
func (s *Subsystem) GetAnaState() (ANAState, error) {
	state, ok := s.cp.Target.FindListener(s.handle, s.replicaTransportID())
	if !ok {
		return 0, &ListenerError{NQN: s.nqn, Trid: s.replicaTransportID().String()}
	}
	return state, nil
}

// SetAnaState sets the ANA state of the replica-port listener. The
// subsystem must be Paused or Inactive.
func (s *Subsystem) SetAnaState(state ANAState) error {
	if s.state != StatePaused && s.state != StateInactive {
		return &SubsystemError{NQN: s.nqn, Msg: "set_ana_state requires Paused or Inactive state"}
	}
	done := make(chan int32, 1)
	s.cp.Target.SetANAState(s.handle, s.replicaTransportID(), state, func(status int32) { done <- status })
	status := <-done
	if status != 0 {
		return &SubsystemError{Errno: status, NQN: s.nqn, Msg: "failed to set_ana_state of the subsystem"}
	}
	return nil
}
