package moss

import (
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

var nCPU = runtime.NumCPU()

// PrintStats writes short-labeled performance tuning diagnostics, the way a
// verbose run reports on the machine it's analyzing content on.
func PrintStats(w io.Writer) {
	fmt.Fprintf(w, "Thrd %d\n", nCPU)
	if cpuid.CPU.ThreadsPerCore > 0 {
		fmt.Fprintf(w, "Core %d\n", nCPU/cpuid.CPU.ThreadsPerCore)
	}
	if cpuid.CPU.LogicalCores > 0 {
		fmt.Fprintf(w, "Sock %d\n", nCPU/cpuid.CPU.LogicalCores)
	}
	fmt.Fprintf(w, "Mmry %d\n", memory.TotalMemory()/(1024*1024*1024))
	fmt.Fprintf(w, "\n")
}

// PrintMemory writes current Go runtime memory usage in MiB.
func PrintMemory(w io.Writer) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	bToMb := func(b uint64) uint64 { return b / 1024 / 1024 }

	fmt.Fprintf(w, "Alloc = %v MiB", bToMb(m.Alloc))
	fmt.Fprintf(w, "\tTotalAlloc = %v MiB", bToMb(m.TotalAlloc))
	fmt.Fprintf(w, "\tSys = %v MiB", bToMb(m.Sys))
	fmt.Fprintf(w, "\tNumGC = %v\n", m.NumGC)
}
