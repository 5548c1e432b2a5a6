// SPDX-License-Identifier: Apache-2.0

package nvmf

import "strings"

// AllowedHosts returns the current allow-list. The list is owned by the
// foreign target; the core only materializes it as needed.
func (s *Subsystem) AllowedHosts() []string {
	return s.cp.Target.AllowedHosts(s.handle)
}

// AllowHost allows a single host to connect. Host NQN strings containing
// an interior NUL fail with HostCstrNulError.
func (s *Subsystem) AllowHost(nqn string) error {
	if strings.ContainsRune(nqn, 0) {
		return &HostCstrNulError{Host: nqn}
	}
	if err := s.cp.Target.AddHost(s.handle, nqn); err != nil {
		return &SubsystemError{NQN: s.nqn, Msg: "failed to add allowed host " + nqn + ": " + err.Error()}
	}
	return nil
}

// AllowHosts allows every host in nqns, in order, stopping at the first
// error.
func (s *Subsystem) AllowHosts(nqns []string) error {
	for _, nqn := range nqns {
		if err := s.AllowHost(nqn); err != nil {
			return err
		}
	}
	return nil
}

// DisallowHost removes a single host from the allow-list.
func (s *Subsystem) DisallowHost(nqn string) error {
	if strings.ContainsRune(nqn, 0) {
		return &HostCstrNulError{Host: nqn}
	}
	if err := s.cp.Target.RemoveHost(s.handle, nqn); err != nil {
		return &SubsystemError{NQN: s.nqn, Msg: "failed to remove allowed host " + nqn + ": " + err.Error()}
	}
	return nil
}

// DisallowHosts removes every host in nqns, in order, stopping at the
// first error.
func (s *Subsystem) DisallowHosts(nqns []string) error {
	for _, nqn := range nqns {
		if err := s.DisallowHost(nqn); err != nil {
			return err
		}
	}
	return nil
}

// DisconnectHost asks the target to tear down existing connections from
// host, completing when the target acknowledges.
func (s *Subsystem) DisconnectHost(host string) error {
	done := make(chan int32, 1)
	s.cp.Target.DisconnectHost(s.handle, host, func(status int32) { done <- status })
	status := <-done
	if status != 0 {
		return &SubsystemError{Errno: status, NQN: s.nqn, Msg: "failed to disconnect host " + host}
	}
	return nil
}

// SetAllowedHosts reconciles the allow-list to exactly hosts: every host
// in hosts is allowed (idempotently), and any host present in the prior
// ACL but absent from hosts is disallowed then asynchronously
// disconnected. An empty hosts is a deliberate no-op, treated here as a
// safety interlock against accidentally stripping every host off an
// active subsystem.
func (s *Subsystem) SetAllowedHosts(hosts []string) error {
	if len(hosts) == 0 {
		return nil
	}

	if err := s.AllowHosts(hosts); err != nil {
		return err
	}

	wanted := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		wanted[h] = true
	}

	// Snapshot every host NQN before mutating the list: removal frees
	// the underlying foreign entry, so iterating and removing from the
	// live list at the same time would read a freed entry.
	current := s.AllowedHosts()
	toRemove := make([]string, 0, len(current))
	for _, h := range current {
		if !wanted[h] {
			toRemove = append(toRemove, h)
		}
	}

	for _, h := range toRemove {
		if err := s.DisallowHost(h); err != nil {
			return err
		}
		if err := s.DisconnectHost(h); err != nil {
			return err
		}
	}
	return nil
}
