package rankselect

import "golang.org/x/sys/cpu"

// Capabilities reports the hardware popcount support detected on this
// host. It is informational only: math/bits.OnesCount64 already lowers to
// a native POPCNT instruction when the Go compiler's target supports it,
// so rank() does not need to branch on this itself. It is exposed so a
// caller tuning Config.Priority can make an informed choice, the same way
// the reference regex engine's simd package surfaces hasAVX2 for its own
// dispatch decisions.
type Capabilities struct {
	HasPOPCNT bool
}

// DetectCapabilities probes the current host's CPU features.
func DetectCapabilities() Capabilities {
	return Capabilities{HasPOPCNT: cpu.X86.HasPOPCNT}
}
