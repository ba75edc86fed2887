// Package metrics defines the measured resource footprint of one operation
// and the process snapshots it is derived from.
package metrics

// Metric names, used as keys in scoring policies.
const (
	CPUTimeMs      = "cpuTimeMs"
	CPUPercentage  = "cpuPercentage"
	MemoryRSS      = "memoryRSS"
	MemoryHeapUsed = "memoryHeapUsed"
	MemoryExternal = "memoryExternal"
	SentBytes      = "sentBytes"
	ReceivedBytes  = "receivedBytes"
	WallTimeMs     = "wallTimeMs"
	FileReadBytes  = "fileReadBytes"
	FileWriteBytes = "fileWriteBytes"
)

// Record is the resource footprint of a single invocation. It is produced
// once by the capture runner and never mutated afterward. Memory fields are
// deltas between the end and start snapshots and may be negative when the
// operation freed memory.
type Record struct {
	CPUTimeMs      float64 `json:"cpuTimeMs"`
	CPUPercentage  float64 `json:"cpuPercentage"`
	MemoryRSS      float64 `json:"memoryRSS"`
	MemoryHeapUsed float64 `json:"memoryHeapUsed"`
	MemoryExternal float64 `json:"memoryExternal"`
	SentBytes      float64 `json:"sentBytes"`
	ReceivedBytes  float64 `json:"receivedBytes"`
	WallTimeMs     float64 `json:"wallTimeMs"`
	FileReadBytes  float64 `json:"fileReadBytes"`
	FileWriteBytes float64 `json:"fileWriteBytes"`
}

// Value returns the named metric, or zero for names the record does not
// carry. Scoring policies key on metric names, so unknown names must
// contribute nothing rather than fail.
func (r Record) Value(name string) float64 {
	switch name {
	case CPUTimeMs:
		return r.CPUTimeMs
	case CPUPercentage:
		return r.CPUPercentage
	case MemoryRSS:
		return r.MemoryRSS
	case MemoryHeapUsed:
		return r.MemoryHeapUsed
	case MemoryExternal:
		return r.MemoryExternal
	case SentBytes:
		return r.SentBytes
	case ReceivedBytes:
		return r.ReceivedBytes
	case WallTimeMs:
		return r.WallTimeMs
	case FileReadBytes:
		return r.FileReadBytes
	case FileWriteBytes:
		return r.FileWriteBytes
	default:
		return 0
	}
}
