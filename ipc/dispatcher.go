package ipc

import (
	"bufio"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/drake/scriptkit/protocol"
)

// coalescible message kinds are the ones a soft rate ceiling is allowed to
// drop under load (§4.4): preview/panel HTML updates and status-ish setters.
var coalescibleTypes = map[string]bool{
	"setPreview": true,
	"setPanel":   true,
	"setPrompt":  true,
}

// Waiter is how a caller (guest-side analog, or host-side test harness)
// awaits a reply keyed by request id.
type Waiter struct {
	ch chan protocol.Validator
}

// Inbound is a message the Dispatcher routed to the prompt engine because
// it was not a reply to a pending request.
type Inbound struct {
	Tag     string
	Message protocol.Validator
}

// Stats are the dispatcher's atomic counters, surfaced through debug.Monitor.
type Stats struct {
	MessagesRead    uint64
	MessagesWritten uint64
	ParseErrors     uint64
	UnknownTypes    uint64
	UnknownReplies  uint64
	RateDropped     uint64
}

// Dispatcher owns the reader task and the write path for one child session
// (§4.4): RunReader correlates replies by id against a pending table and
// routes everything else onto a bounded channel for the prompt engine.
// Writes are not queued: Write and WriteRaw encode and flush on the
// caller's goroutine under a mutex; there is no writer goroutine and no
// unbounded outgoing queue.
type Dispatcher struct {
	reader *FrameReader
	w      *bufio.Writer

	mu      sync.Mutex
	pending map[string]Waiter

	Inbound chan Inbound // bounded; backpressure is intentional (§5)

	limiter *rate.Limiter

	stats Stats

	writeMu sync.Mutex
	dead    atomic.Bool

	logger *log.Logger
}

// NewDispatcher wires a Dispatcher to a child's stdout (stdout) and stdin
// (stdin). inboundCap sizes the backpressure channel.
func NewDispatcher(stdout io.Reader, stdin io.Writer, inboundCap int, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		reader:  NewFrameReader(stdout),
		w:       bufio.NewWriter(stdin),
		pending: make(map[string]Waiter),
		Inbound: make(chan Inbound, inboundCap),
		limiter: rate.NewLimiter(rate.Limit(100), 100), // default 100/s (§4.4)
		logger:  logger,
	}
}

// Await registers a pending request id and returns a channel that receives
// exactly one reply (or is closed without a value if the session dies
// first, per §5 Cancellation: killing the child resolves no pending ops).
func (d *Dispatcher) Await(id string) <-chan protocol.Validator {
	ch := make(chan protocol.Validator, 1)
	d.mu.Lock()
	d.pending[id] = Waiter{ch: ch}
	d.mu.Unlock()
	return ch
}

// Cancel removes a pending waiter without delivering a reply (used when the
// prompt engine supersedes/resolves locally, e.g. on escape handled
// host-side before any child reply arrives).
func (d *Dispatcher) Cancel(id string) {
	d.mu.Lock()
	delete(d.pending, id)
	d.mu.Unlock()
}

// isReply reports whether a decoded message is reply-shaped (§4.4): these
// are delivered to a pending waiter when their id is known, never routed to
// the prompt engine as a fresh request.
func isReply(tag string) bool {
	switch tag {
	case "submit", "escape", "execResult", "storeReadResult", "menuBarResult",
		"clipboardReadResult", "screenshotResult", "eyeDropperResult",
		"resized", "moved", "closed", "input":
		return true
	default:
		return false
	}
}

func replyID(msg protocol.Validator) string {
	switch v := msg.(type) {
	case *protocol.Submit:
		return v.ID
	case *protocol.Escape:
		return v.ID
	case *protocol.ExecResult:
		return v.ID
	case *protocol.StoreReadResult:
		return v.ID
	case *protocol.MenuBarResult:
		return v.ID
	case *protocol.ClipboardReadResult:
		return v.ID
	case *protocol.ScreenshotResult:
		return v.ID
	case *protocol.EyeDropperResult:
		return v.ID
	case *protocol.Resized:
		return v.ID
	case *protocol.Moved:
		return v.ID
	case *protocol.Closed:
		return v.ID
	case *protocol.InputEvent:
		return v.ID
	default:
		return ""
	}
}

// RunReader drains the framed stream until EOF, routing each record either
// to a pending waiter or onto Inbound. It returns when the stream ends or
// the context-like stop channel fires; callers run it in its own goroutine.
func (d *Dispatcher) RunReader(stop <-chan struct{}) {
	defer close(d.Inbound)
	defer d.failPending()
	for {
		select {
		case <-stop:
			return
		default:
		}
		rec, ok := d.Next()
		if !ok {
			return
		}
		d.handle(rec)
	}
}

// Next exposes one framing step for callers that want manual control
// (tests, or a select-driven loop instead of RunReader's blocking one).
func (d *Dispatcher) Next() (Record, bool) {
	return d.reader.Next()
}

func (d *Dispatcher) handle(rec Record) {
	switch rec.Kind {
	case KindParseError:
		atomic.AddUint64(&d.stats.ParseErrors, 1)
		d.logger.Printf("ipc: parse error: %v", rec.Err)
		return
	case KindUnknownType:
		atomic.AddUint64(&d.stats.UnknownTypes, 1)
		d.logger.Printf("ipc: unknown type %q", rec.Tag)
		return
	case KindEndOfStream:
		return
	}

	atomic.AddUint64(&d.stats.MessagesRead, 1)

	if isReply(rec.Tag) {
		id := replyID(rec.Message)
		d.mu.Lock()
		w, found := d.pending[id]
		if found {
			delete(d.pending, id)
		}
		d.mu.Unlock()
		if !found {
			atomic.AddUint64(&d.stats.UnknownReplies, 1)
			d.logger.Printf("ipc: reply for unknown id %q dropped", id)
			return
		}
		w.ch <- rec.Message
		return
	}

	if coalescibleTypes[rec.Tag] && !d.limiter.Allow() {
		atomic.AddUint64(&d.stats.RateDropped, 1)
		return
	}

	d.Inbound <- Inbound{Tag: rec.Tag, Message: rec.Message}
}

func (d *Dispatcher) failPending() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, w := range d.pending {
		close(w.ch)
		delete(d.pending, id)
	}
}

// Write serializes msg under wireType with a trailing newline and flushes
// immediately (§4.4 Writer: one flush per message). Safe for concurrent
// callers.
func (d *Dispatcher) Write(wireType string, msg interface{}) error {
	if d.dead.Load() {
		return io.ErrClosedPipe
	}
	line, err := protocol.Encode(wireType, msg)
	if err != nil {
		return err
	}
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	if _, err := d.w.Write(line); err != nil {
		d.dead.Store(true)
		return err
	}
	if err := d.w.WriteByte('\n'); err != nil {
		d.dead.Store(true)
		return err
	}
	if err := d.w.Flush(); err != nil {
		d.dead.Store(true)
		return err
	}
	atomic.AddUint64(&d.stats.MessagesWritten, 1)
	return nil
}

// WriteRaw writes a pre-encoded line (already carrying its `type` tag) plus
// a trailing newline, flushing immediately. Used by promptengine for submit
// replies it builds directly via protocol.EncodeSubmit.
func (d *Dispatcher) WriteRaw(line []byte) error {
	if d.dead.Load() {
		return io.ErrClosedPipe
	}
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	if _, err := d.w.Write(line); err != nil {
		d.dead.Store(true)
		return err
	}
	if err := d.w.WriteByte('\n'); err != nil {
		d.dead.Store(true)
		return err
	}
	if err := d.w.Flush(); err != nil {
		d.dead.Store(true)
		return err
	}
	atomic.AddUint64(&d.stats.MessagesWritten, 1)
	return nil
}

// Dead reports whether a write failure has already marked this session's
// stdin pipe broken.
func (d *Dispatcher) Dead() bool { return d.dead.Load() }

// Stats returns a snapshot of the dispatcher's atomic counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		MessagesRead:    atomic.LoadUint64(&d.stats.MessagesRead),
		MessagesWritten: atomic.LoadUint64(&d.stats.MessagesWritten),
		ParseErrors:     atomic.LoadUint64(&d.stats.ParseErrors),
		UnknownTypes:    atomic.LoadUint64(&d.stats.UnknownTypes),
		UnknownReplies:  atomic.LoadUint64(&d.stats.UnknownReplies),
		RateDropped:     atomic.LoadUint64(&d.stats.RateDropped),
	}
}
