// SPDX-License-Identifier: Apache-2.0

package nvmf

import "github.com/google/uuid"

// parseUUID parses a canonical UUID string into its raw 16 bytes, the
// representation SPDK wants for a namespace NGUID.
func parseUUID(s string) ([16]byte, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return [16]byte{}, err
	}
	return [16]byte(u), nil
}
