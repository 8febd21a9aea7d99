package rob

import (
	"fmt"
	"strings"
)

// Policy selects how total ROB capacity is divided across hardware
// threads.
type Policy int

const (
	// Dynamic lets every thread consume the full ROB capacity.
	Dynamic Policy = iota
	// Partitioned divides capacity evenly across the active threads.
	Partitioned
	// Threshold fixes each thread's share to a configured entry count,
	// except when only one thread is active.
	Threshold
)

func (p Policy) String() string {
	switch p {
	case Dynamic:
		return "dynamic"
	case Partitioned:
		return "partitioned"
	case Threshold:
		return "threshold"
	default:
		return "unknown"
	}
}

// ErrInvalidPolicy is wrapped into the error returned by New when
// Config.Policy names an option outside {"dynamic","partitioned","threshold"}.
var ErrInvalidPolicy = fmt.Errorf("invalid ROB sharing policy, options are: {Dynamic, Partitioned, Threshold}")

// ParsePolicy parses the smtROBPolicy configuration string.
// Comparison is case-insensitive.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "dynamic":
		return Dynamic, nil
	case "partitioned":
		return Partitioned, nil
	case "threshold":
		return Threshold, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidPolicy)
	}
}

// Config collects the construction-time parameters of a ROB.
type Config struct {
	// NumEntries is the total entry capacity shared across all threads.
	NumEntries int
	// SquashWidth bounds how many entries a single DoSquash call flags.
	SquashWidth int
	// NumThreads is the static upper bound on hardware thread contexts.
	NumThreads int
	// Policy selects the capacity-sharing policy.
	Policy Policy
	// Threshold is the per-thread cap used only when Policy == Threshold.
	Threshold int
}

// CPUModes are the CPU-wide speculation-safety mode flags consumed by the
// visibility and taint analyzers. The ROB only reads these; it never
// stores or mutates them.
type CPUModes struct {
	// STT enables the taint analyzer (ComputeTaint asserts this is true).
	STT bool
	// ProtectionEnabled gates isUnsquashable derivation beyond the unsafe
	// baseline (both STT and InvisibleSpec policies set this).
	ProtectionEnabled bool
	// IsInvisibleSpec marks the InvisiSpec variant of protection. Neither
	// analyzer reads it: isUnsquashable depends only on ProtectionEnabled
	// and IsFuturistic.
	IsInvisibleSpec bool
	// IsFuturistic selects "all older instructions completed" as the
	// safety condition, instead of "only branches resolved".
	IsFuturistic bool
	// ImpChannel enables implicit-flow tracking in the taint analyzer.
	ImpChannel bool
}

// Stats are the monotonically-increasing ROB activity counters.
type Stats struct {
	RobReads  uint64
	RobWrites uint64
}
