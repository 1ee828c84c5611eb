package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestUIDString verifies the hex log format: two digits per byte, space separated.
func TestUIDString(t *testing.T) {
	t.Parallel()

	uid := UID{0x9C, 0x7A, 0x0F, 0x2B}
	require.Equal(t, "9C 7A 0F 2B", uid.String())

	require.Equal(t, "00 00 00 00", UID{}.String())
}

// TestParseUID verifies parsing with and without separators plus rejection of malformed input.
func TestParseUID(t *testing.T) {
	t.Parallel()

	want := UID{0x9C, 0x7A, 0x0F, 0x2B}

	for _, input := range []string{"9c7a0f2b", "9C 7A 0F 2B", " 9c 7a 0f 2b "} {
		got, err := ParseUID(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "9c7a0f", "9c7a0f2b01", "not hex!"} {
		_, err := ParseUID(input)
		require.Error(t, err, input)
	}
}

// TestEventClone verifies that Clone deep-copies the UID pointer and handles nil safely.
func TestEventClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*Event)(nil).Clone())

	uid := UID{0x04, 0x5E, 0x83, 0xA1}
	e := &Event{Kind: EventCardAccepted, UID: &uid}

	cloned := e.Clone()

	require.Equal(t, e, cloned)
	require.NotSame(t, e, cloned)
	require.NotSame(t, e.UID, cloned.UID)
}
