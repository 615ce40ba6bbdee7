package measureutil

import "github.com/deepdrill/drill/internal/measure"

// SnapshotAndReset returns the global measurement map and clears it.
func SnapshotAndReset() map[string]uint64 {
	return measure.Global.SnapshotAndReset()
}
