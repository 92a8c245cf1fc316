package observability

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// SystemStats carries self-process health served alongside the run counters.
type SystemStats struct {
	PID        int     `json:"pid"`
	CPUPercent float64 `json:"cpu_percent"`
	RSSBytes   uint64  `json:"rss_bytes"`
	Status     string  `json:"status"`
}

// SelfStats samples CPU, RSS and OS status of the current process.
func SelfStats() (SystemStats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return SystemStats{}, err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return SystemStats{}, err
	}
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return SystemStats{}, err
	}
	status, err := p.Status()
	if err != nil {
		return SystemStats{}, err
	}
	return SystemStats{
		PID:        os.Getpid(),
		CPUPercent: cpu,
		RSSBytes:   memInfo.RSS,
		Status:     status,
	}, nil
}
