package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roomguard/roomguard/internal/domain/access"
)

// TestRegistryMatchMarksScanned verifies exact matching and the scan side effect.
func TestRegistryMatchMarksScanned(t *testing.T) {
	t.Parallel()

	r := NewRegistry(AllowList)

	matched := r.Match(AllowList[1])
	require.Equal(t, []int{1}, matched)
	require.True(t, r.Scanned(1))
	require.False(t, r.Scanned(0))
	require.False(t, r.Scanned(2))
}

// TestRegistryUnknownCardIsInert verifies that a non-matching scan changes nothing.
func TestRegistryUnknownCardIsInert(t *testing.T) {
	t.Parallel()

	r := NewRegistry(AllowList)

	require.Empty(t, r.Match(access.UID{0xDE, 0xAD, 0xBE, 0xEF}))
	require.False(t, r.AllScanned())

	for i := range AllowList {
		require.False(t, r.Scanned(i))
	}
}

// TestRegistryAllScanned verifies completion requires all distinct
// credentials; repeats of one credential do not count.
func TestRegistryAllScanned(t *testing.T) {
	t.Parallel()

	r := NewRegistry(AllowList)

	r.Match(AllowList[0])
	r.Match(AllowList[0])
	r.Match(AllowList[0])
	require.False(t, r.AllScanned())

	r.Match(AllowList[2])
	require.False(t, r.AllScanned())

	r.Match(AllowList[1])
	require.True(t, r.AllScanned())
}

// TestRegistryReset verifies that Reset clears every scan flag.
func TestRegistryReset(t *testing.T) {
	t.Parallel()

	r := NewRegistry(AllowList)

	for _, uid := range AllowList {
		r.Match(uid)
	}

	require.True(t, r.AllScanned())

	r.Reset()
	require.False(t, r.AllScanned())

	for i := range AllowList {
		require.False(t, r.Scanned(i))
	}
}
