// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/drake/scriptkit/ipc"
	"github.com/drake/scriptkit/supervisor"
)

// Enabled returns true if debug mode is active (SCRIPTKIT_DEBUG=1).
func Enabled() bool {
	return os.Getenv("SCRIPTKIT_DEBUG") == "1"
}

// Monitor periodically logs dispatcher/supervisor statistics when debug
// mode is enabled.
type Monitor struct {
	dispatcher *ipc.Dispatcher
	session    *supervisor.Session
	interval   time.Duration
	ctx        context.Context
	logger     *log.Logger
}

// NewMonitor creates a new monitor for the given dispatcher/session pair.
// If debug mode is not enabled, returns nil.
func NewMonitor(ctx context.Context, d *ipc.Dispatcher, s *supervisor.Session) *Monitor {
	if !Enabled() {
		return nil
	}

	return &Monitor{
		dispatcher: d,
		session:    s,
		interval:   5 * time.Second,
		ctx:        ctx,
		logger:     log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Start begins the monitoring loop in a goroutine.
func (m *Monitor) Start() {
	if m == nil {
		return
	}
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Println("[DEBUG] Monitor started")

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Println("[DEBUG] Monitor stopped")
			return
		case <-ticker.C:
			m.logStats()
		}
	}
}

func (m *Monitor) logStats() {
	stats := m.dispatcher.Stats()
	in, out := m.session.BytesIO()

	m.logger.Printf("[DEBUG] pid=%d goroutines=%d | ipc: read=%d written=%d parseErr=%d unknownType=%d unknownReply=%d rateDropped=%d inboundQ=%d/%d | proc: in=%d out=%d",
		m.session.Pid(),
		runtime.NumGoroutine(),
		stats.MessagesRead, stats.MessagesWritten,
		stats.ParseErrors, stats.UnknownTypes, stats.UnknownReplies, stats.RateDropped,
		len(m.dispatcher.Inbound), cap(m.dispatcher.Inbound),
		in, out,
	)
}
