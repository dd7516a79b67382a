package supervisor

import (
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/drake/scriptkit/timer"
)

// monitorLimits polls the child's wall-clock age and RSS at the configured
// interval and kill-trees it on exceedance (§5 Timeouts). Using gopsutil
// rather than hand-rolled /proc parsing keeps memory polling portable
// across the platforms the host targets. Scheduling goes through
// timer.Service's repeating-timer lifecycle (the same ID-owning cancel path
// the teacher built for script-driven wake-ups) instead of a bare
// time.Ticker, so CancelAll on shutdown tears down health polling the same
// way any other timer in the host gets torn down.
func (s *Session) monitorLimits() {
	interval := s.cfg.Limits.HealthCheck
	if interval <= 0 {
		interval = 2 * time.Second
	}
	start := time.Now()

	events := make(chan timer.Event, 1)
	svc := timer.NewService(events)
	defer svc.CancelAll()
	svc.Every(interval)

	for {
		select {
		case <-s.exitCh:
			return
		case <-events:
			if s.cfg.Limits.WallClock > 0 && time.Since(start) > s.cfg.Limits.WallClock {
				_ = s.Stop()
				return
			}
			if s.cfg.Limits.MemoryMB > 0 && s.exceedsMemory(s.cfg.Limits.MemoryMB) {
				_ = s.Stop()
				return
			}
		}
	}
}

// exceedsMemory sums RSS across the child and its descendants, since
// kill-tree semantics mean the whole tree's footprint is what matters.
func (s *Session) exceedsMemory(limitMB int) bool {
	pid := int32(s.Pid())
	if pid <= 0 {
		return false
	}
	proc, err := process.NewProcess(pid)
	if err != nil {
		return false
	}
	total, err := totalRSS(proc)
	if err != nil {
		return false
	}
	return total > uint64(limitMB)*1024*1024
}

func totalRSS(p *process.Process) (uint64, error) {
	mi, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	total := mi.RSS
	children, err := p.Children()
	if err != nil {
		// no children, or platform doesn't support listing them: that's
		// fine, report what we have for the parent alone.
		return total, nil
	}
	for _, c := range children {
		childRSS, err := totalRSS(c)
		if err == nil {
			total += childRSS
		}
	}
	return total, nil
}
