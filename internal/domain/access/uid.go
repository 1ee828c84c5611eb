package access

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// UIDLength is the fixed identifier length, in bytes, reported by the
// proximity-card reader for the supported card family.
const UIDLength = 4

// UID is a fixed-length proximity-card identifier.
// Equality is exact byte-wise comparison.
type UID [UIDLength]byte

// errBadUIDLength is returned when parsed input does not decode to exactly UIDLength bytes.
var errBadUIDLength = errors.New("uid must be exactly 4 bytes")

// String renders the identifier as upper-case hex, two digits per byte,
// space separated ("9C 7A 0F 2B"). This is the diagnostic log format.
func (u UID) String() string {
	parts := make([]string, len(u))
	for i, b := range u {
		parts[i] = fmt.Sprintf("%02X", b)
	}

	return strings.Join(parts, " ")
}

// ParseUID decodes a hex identifier, accepting optional spaces between
// bytes ("9c7a0f2b" and "9C 7A 0F 2B" are equivalent).
func ParseUID(s string) (UID, error) {
	var uid UID

	cleaned := strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return uid, fmt.Errorf("decode uid: %w", err)
	}

	if len(raw) != UIDLength {
		return uid, errBadUIDLength
	}

	copy(uid[:], raw)

	return uid, nil
}
