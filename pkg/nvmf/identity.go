// SPDX-License-Identifier: Apache-2.0

package nvmf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// NQNPrefix is the fixed NQN prefix shared with peers. Every
	// subsystem's NQN is "<NQNPrefix>:<uuid>".
	NQNPrefix = "nqn.2019-05.io.openebs"

	// ModelNumber is the fixed vendor model string reported by every
	// subsystem created through this package.
	ModelNumber = "OpenEBS NVMe controller"

	// maxSerialLen is the longest serial number NVMe allows us to
	// advertise.
	maxSerialLen = 20
)

// MakeNQN derives a canonical NQN from a backing-device UUID.
func MakeNQN(uuid string) string {
	return fmt.Sprintf("%s:%s", NQNPrefix, uuid)
}

// ParseNQNUUID extracts the UUID suffix from an NQN produced by MakeNQN.
// It returns false if nqn does not carry the expected prefix.
func ParseNQNUUID(nqn string) (string, bool) {
	prefix := NQNPrefix + ":"
	if !strings.HasPrefix(nqn, prefix) {
		return "", false
	}
	return strings.TrimPrefix(nqn, prefix), true
}

// MakeSerial computes a stable, truncated hex digest suitable for use as
// an NVMe serial number: SHA-256 of the input, hex-encoded, and cut down
// to maxSerialLen characters.
func MakeSerial(data []byte) string {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	if len(digest) > maxSerialLen {
		digest = digest[:maxSerialLen]
	}
	return digest
}
