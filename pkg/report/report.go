// Package report renders a metrics record into human-readable summary
// fields.
package report

import (
	"fmt"

	"github.com/Dlordkendex/gas2nel/pkg/metrics"
)

// Report is the human-readable projection of a metrics record. Memory fields
// are fixed at MB and transfer fields at KB; values are not auto-scaled.
type Report struct {
	CPUTimeMs          float64 `json:"cpuTimeMs"`
	WallTimeMs         float64 `json:"wallTimeMs"`
	PeakMemoryRSS      string  `json:"peakMemoryRSS"`
	MemoryHeapUsed     string  `json:"memoryHeapUsed"`
	MemoryExternal     string  `json:"memoryExternal"`
	NetworkTransferred string  `json:"networkTransferred"`
	FileIO             string  `json:"fileIO"`
}

// From derives the report for a record. It is a pure projection, regenerated
// on demand and never cached.
func From(rec metrics.Record) Report {
	return Report{
		CPUTimeMs:          rec.CPUTimeMs,
		WallTimeMs:         rec.WallTimeMs,
		PeakMemoryRSS:      megabytes(rec.MemoryRSS),
		MemoryHeapUsed:     megabytes(rec.MemoryHeapUsed),
		MemoryExternal:     megabytes(rec.MemoryExternal),
		NetworkTransferred: kilobytes(rec.SentBytes + rec.ReceivedBytes),
		FileIO:             kilobytes(rec.FileReadBytes + rec.FileWriteBytes),
	}
}

func megabytes(v float64) string {
	return fmt.Sprintf("%.2f MB", v/1048576)
}

func kilobytes(v float64) string {
	return fmt.Sprintf("%.2f KB", v/1024)
}
