package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/sureshpilli97/ChatCresr-Server/contract"
)

var _ contract.Worker = (*HeartbeatWorker)(nil)

// Presence is the part of the registry the heartbeat reports on.
type Presence interface {
	Count() int
}

// HeartbeatWorker periodically logs the process health along with the number
// of connected users and the pending commands.
type HeartbeatWorker struct {
	log        *slog.Logger
	presence   Presence
	queueDepth func() int
	interval   time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, presence Presence, queueDepth func() int, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, presence: presence, queueDepth: queueDepth, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.beat(p)
		}
	}
}

func (w *HeartbeatWorker) beat(p *process.Process) {
	online := w.presence.Count()
	queued := 0
	if w.queueDepth != nil {
		queued = w.queueDepth()
	}
	rss, cpu, err := selfStats(p)
	if err != nil {
		w.log.Error("Failed to collect self stats", "error", err, "online_users", online)
		return
	}
	w.log.Info("Heartbeat",
		"rss_bytes", rss,
		"cpu_percent", cpu,
		"online_users", online,
		"queued_commands", queued)
}

// selfStats retrieves memory and CPU usage of the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
