package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

var processStart = time.Now()

// SysHealth is a point-in-time view of the process and its database file.
type SysHealth struct {
	Uptime       string `json:"uptime"`
	AllocMB      uint64 `json:"alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	Goroutines   int    `json:"goroutines"`
	DatabaseSize string `json:"database_size"`
}

// GetSysHealth collects runtime memory stats and the size of the SQLite file
// at dbPath. A missing file reports "0 B".
func GetSysHealth(dbPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var size int64
	if info, err := os.Stat(dbPath); err == nil {
		size = info.Size()
	}

	return SysHealth{
		Uptime:       time.Since(processStart).Round(time.Second).String(),
		AllocMB:      m.Alloc >> 20,
		SysMB:        m.Sys >> 20,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DatabaseSize: HumanBytes(size),
	}
}

// HumanBytes formats n using binary units.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
