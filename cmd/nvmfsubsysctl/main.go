// SPDX-License-Identifier: Apache-2.0

// Command nvmfsubsysctl is a small demonstrator that drives the nvmf
// control core end to end against an in-memory fake target and fake bdev
// registry, with no real SPDK process behind it. It is not a management
// API: every invocation starts a fresh in-process control plane, creates
// one demo subsystem, and replays whatever lifecycle steps are needed to
// reach the requested subcommand, printing the outcome.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		uuid         string
		replicaAddr  string
		replicaPort  uint16
	)

	root := &cobra.Command{
		Use:   "nvmfsubsysctl",
		Short: "Exercise the NVMe-oF subsystem control core against an in-memory fake target",
		Long: `nvmfsubsysctl drives pkg/nvmf's ControlPlane against a fake Target and a
fake bdev registry, both held in this process's memory only. There is no
daemon behind it: every run creates one demo subsystem, replays the
lifecycle steps needed to reach the requested subcommand, and prints the
resulting state.`,
	}

	root.PersistentFlags().StringVar(&uuid, "uuid", "", "backing bdev UUID (random if empty)")
	root.PersistentFlags().StringVar(&replicaAddr, "replica-addr", "0.0.0.0", "address the replica-port listener binds to")
	root.PersistentFlags().Uint16Var(&replicaPort, "replica-port", 4420, "TCP port for the replica listener")

	root.AddCommand(newCreateCmd(&uuid, &replicaAddr, &replicaPort))
	root.AddCommand(newStartCmd(&uuid, &replicaAddr, &replicaPort))
	root.AddCommand(newStopCmd(&uuid, &replicaAddr, &replicaPort))
	root.AddCommand(newPauseCmd(&uuid, &replicaAddr, &replicaPort))
	root.AddCommand(newResumeCmd(&uuid, &replicaAddr, &replicaPort))
	root.AddCommand(newListCmd(&uuid, &replicaAddr, &replicaPort))
	root.AddCommand(newDestroyCmd(&uuid, &replicaAddr, &replicaPort))

	return root
}
