// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/openebs/nvmf-subsys-core/pkg/nvmf"
)

// session bundles a fresh in-memory control plane and the one demo
// subsystem every subcommand operates on.
type session struct {
	cp *nvmf.ControlPlane
	s  *nvmf.Subsystem
}

func newSession(bdevUUID, replicaAddr string, replicaPort uint16) (*session, error) {
	if bdevUUID == "" {
		bdevUUID = uuid.NewString()
	}
	bdev := nvmf.BdevInfo{Name: "demo0", UUID: bdevUUID, Module: nvmf.NexusModuleName}

	cp := nvmf.NewControlPlane(
		newDemoTarget(),
		&demoBdevRegistry{device: bdev},
		nil,
		nvmf.Config{ReplicaAddress: replicaAddr, ReplicaPort: replicaPort},
	)

	s, err := cp.TryFromBdev(bdev, "")
	if err != nil {
		return nil, fmt.Errorf("create demo subsystem: %w", err)
	}
	return &session{cp: cp, s: s}, nil
}

func printState(s *nvmf.Subsystem) {
	fmt.Printf("nqn:    %s\n", s.NQN())
	fmt.Printf("serial: %s\n", s.Serial())
	fmt.Printf("model:  %s\n", s.Model())
	fmt.Printf("state:  %s\n", s.State())
}

func newCreateCmd(uuidFlag, addr *string, port *uint16) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a demo subsystem and print its identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(*uuidFlag, *addr, *port)
			if err != nil {
				return err
			}
			printState(sess.s)
			return nil
		},
	}
}

func newStartCmd(uuidFlag, addr *string, port *uint16) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Create a demo subsystem and start it",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(*uuidFlag, *addr, *port)
			if err != nil {
				return err
			}
			if _, err := sess.s.Start(); err != nil {
				return err
			}
			printState(sess.s)
			return nil
		},
	}
}

func newStopCmd(uuidFlag, addr *string, port *uint16) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Create, start, then stop a demo subsystem",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(*uuidFlag, *addr, *port)
			if err != nil {
				return err
			}
			if _, err := sess.s.Start(); err != nil {
				return err
			}
			if err := sess.s.Stop(); err != nil {
				return err
			}
			printState(sess.s)
			return nil
		},
	}
}

func newPauseCmd(uuidFlag, addr *string, port *uint16) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Create, start, then pause a demo subsystem",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(*uuidFlag, *addr, *port)
			if err != nil {
				return err
			}
			if _, err := sess.s.Start(); err != nil {
				return err
			}
			if err := sess.s.Pause(); err != nil {
				return err
			}
			printState(sess.s)
			return nil
		},
	}
}

func newResumeCmd(uuidFlag, addr *string, port *uint16) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Create, start, pause, then resume a demo subsystem",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(*uuidFlag, *addr, *port)
			if err != nil {
				return err
			}
			if _, err := sess.s.Start(); err != nil {
				return err
			}
			if err := sess.s.Pause(); err != nil {
				return err
			}
			if err := sess.s.Resume(); err != nil {
				return err
			}
			printState(sess.s)
			return nil
		},
	}
}

func newListCmd(uuidFlag, addr *string, port *uint16) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Create and start a demo subsystem, then list its endpoints and allowed hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(*uuidFlag, *addr, *port)
			if err != nil {
				return err
			}
			if _, err := sess.s.Start(); err != nil {
				return err
			}
			printState(sess.s)
			for _, uri := range sess.s.URIEndpoints() {
				fmt.Printf("endpoint: %s\n", uri)
			}
			hosts := sess.s.AllowedHosts()
			if len(hosts) == 0 {
				fmt.Println("allowed hosts: (none)")
			}
			for _, h := range hosts {
				fmt.Printf("allowed host: %s\n", h)
			}
			return nil
		},
	}
}

func newDestroyCmd(uuidFlag, addr *string, port *uint16) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy",
		Short: "Create a demo subsystem, then destroy it",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(*uuidFlag, *addr, *port)
			if err != nil {
				return err
			}
			if err := sess.s.DestroyUnsafe(); err != nil {
				return err
			}
			log.Printf("destroyed subsystem %s", sess.s.NQN())
			return nil
		},
	}
}
