package config

import (
	"fmt"
	"runtime"
)

// GC names the garbage collector flag block to pass to the JVM, per
// crates/config/src/launch.rs's GC enum.
type GC string

const (
	GCSerial      GC = "Serial"
	GCParallel    GC = "Parallel"
	GCParallelOld GC = "ParallelOld"
	GCG1          GC = "G1"
	GCZ           GC = "Z"
)

// DefaultGC is G1, matching the Rust original's impl Default for GC.
const DefaultGC = GCG1

// JVMFlags returns the -XX: flag block spec.md §4.8.1/§9 expects for
// gc, falling back to G1's flags for an unrecognised value. G1 and
// Parallel expand to the full multi-flag blocks the original source's
// arguments.rs builds (G1's experimental-options tuning block, and
// Parallel's physical-core thread count), not just the enabling flag.
func (gc GC) JVMFlags() []string {
	switch gc {
	case GCSerial:
		return []string{"-XX:+UseSerialGC"}
	case GCParallel:
		return []string{
			"-XX:+UseParallelGC",
			fmt.Sprintf("-XX:ParallelGCThreads=%d", physicalCoreCount()),
		}
	case GCParallelOld:
		return []string{"-XX:+UseParallelOldGC"}
	case GCZ:
		return []string{"-XX:+UseZGC"}
	default:
		return []string{
			"-XX:+UseG1GC",
			"-XX:+UnlockExperimentalVMOptions",
			"-XX:G1NewSizePercent=20",
			"-XX:G1ReservePercent=20",
			"-XX:MaxGCPauseMillis=50",
			"-XX:G1HeapRegionSize=16M",
		}
	}
}

// physicalCoreCount approximates the original source's num_cpus::get_physical:
// none of the example repos wire a physical-topology library (gopsutil,
// klauspost/cpuid), so this falls back to runtime.NumCPU(), the
// standard Go proxy for core count (logical rather than physical on
// hyperthreaded hardware).
func physicalCoreCount() int {
	return runtime.NumCPU()
}

func (gc GC) String() string { return string(gc) }

// UnmarshalText validates the decoded value against the known set,
// defaulting an empty string to G1 the way toml.Unmarshal leaves a
// missing field zero-valued before Load applies its own default pass.
func (gc *GC) UnmarshalText(text []byte) error {
	switch GC(text) {
	case GCSerial, GCParallel, GCParallelOld, GCG1, GCZ:
		*gc = GC(text)
	case "":
		*gc = DefaultGC
	default:
		return fmt.Errorf("config: unknown gc value %q", string(text))
	}
	return nil
}

func (gc GC) MarshalText() ([]byte, error) { return []byte(gc), nil }
