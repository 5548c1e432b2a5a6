// SPDX-License-Identifier: Apache-2.0

package nvmf

// BdevInfo is the small slice of a backing block device's identity the
// control core needs: enough to name a namespace and to classify an NQN
// target without depending on the full block-device abstraction, which
// lives elsewhere.
type BdevInfo struct {
	// Name is the bdev's short name, e.g. "n1" or "l1".
	Name string
	// UUID is the bdev's UUID string; its raw bytes become the
	// namespace's NGUID.
	UUID string
	// Module is the owning bdev module, e.g. "nexus" or "lvol".
	Module string
	// Claimed reports whether another consumer already owns this bdev.
	Claimed bool
}

// UUIDBytes returns the 16 raw bytes backing the bdev's UUID, for use as
// an NVMe namespace NGUID. It returns a zero-value array if UUID does not
// parse.
func (b BdevInfo) UUIDBytes() [16]byte {
	var out [16]byte
	u, err := parseUUID(b.UUID)
	if err != nil {
		return out
	}
	return u
}

// BdevRegistry is the block-device abstraction's identity surface: the
// ability to enumerate devices and read each one's driver/module name,
// name, UUID and claim status. The control core only consumes this much
// of it; the rest of the block-device stack lives elsewhere.
type BdevRegistry interface {
	// Devices returns every known bdev, in a stable order.
	Devices() []BdevInfo
	// Lookup returns the bdev with the given name, if any.
	Lookup(name string) (BdevInfo, bool)
}

// NexusModuleName and ReplicaModuleName are the bdev module names
// NqnTarget.Lookup uses to classify a device.
const (
	NexusModuleName   = "nexus"
	ReplicaModuleName = "lvol"
)
