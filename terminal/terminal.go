// Package terminal implements the PTY-backed terminal prompt (C8): it
// spawns a child under a pseudo-terminal, feeds its output through a
// headless VT emulator, and exposes resize/write/snapshot operations to
// the prompt engine.
package terminal

import (
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unicode"

	"github.com/creack/pty"
	headlessterm "github.com/danielgatis/go-headlessterm"

	"github.com/drake/scriptkit/supervisor"
)

// closeGrace is how long Close waits after SIGTERM before escalating to
// SIGKILL, mirroring supervisor.StopGrace for the PTY process group.
const closeGrace = 3 * time.Second

// ScrollbackBudgetBytes bounds retained scrollback to the last 1 MiB
// (Open Question (c)).
const ScrollbackBudgetBytes = 1 << 20

// maxTitleLen clips OSC 0/1/2 window-title updates (§4.8).
const maxTitleLen = 256

// Session owns one PTY-attached child process and its VT state.
type Session struct {
	ID string

	cmd  *exec.Cmd
	ptmx *os.File
	term *headlessterm.Terminal

	titleMu sync.Mutex
	title   string

	closed atomic.Bool
	done   chan struct{}
	exitCh chan error

	onOutput func(data []byte)
	onExit   func(err error)
}

// approxBytesPerLine estimates a scrollback line's footprint so a
// line-count cap can stand in for the 1 MiB byte budget from Open
// Question (c); the built-in scrollback storage accounts lines, not bytes.
const approxBytesPerLine = 200

var scrollbackLineCap = ScrollbackBudgetBytes / approxBytesPerLine

// discardClipboard implements headlessterm.ClipboardProvider by accepting
// OSC 52 sequences and discarding the payload — no clipboard integration
// is offered through the terminal surface (§4.8: accept, do not act).
type discardClipboard struct{}

func (discardClipboard) SetClipboard(selection string, data string) {}
func (discardClipboard) GetClipboard(selection string) string       { return "" }

// titleCollector implements headlessterm.TitleProvider, sanitizing and
// clipping titles before storing them.
type titleCollector struct {
	s *Session
}

func (t titleCollector) SetTitle(kind int, title string) {
	t.s.titleMu.Lock()
	defer t.s.titleMu.Unlock()
	t.s.title = sanitizeTitle(title)
}

func sanitizeTitle(s string) string {
	var out []rune
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		out = append(out, r)
		if len(out) >= maxTitleLen {
			break
		}
	}
	return string(out)
}

// Options configures a new terminal Session.
type Options struct {
	Command []string
	Dir     string
	Env     []string
	Rows    int
	Cols    int

	OnOutput func(data []byte)
	OnExit   func(err error)
}

// Start spawns cmd under a PTY and starts two goroutines: readLoop, which
// feeds PTY output to the VT emulator and forwards it to OnOutput, and
// waitLoop, which reaps the child and reports its exit. Input is written
// synchronously by Write.
func Start(id string, opts Options) (*Session, error) {
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       id,
		cmd:      cmd,
		ptmx:     ptmx,
		done:     make(chan struct{}),
		exitCh:   make(chan error, 1),
		onOutput: opts.OnOutput,
		onExit:   opts.OnExit,
	}

	s.term = headlessterm.New(
		headlessterm.WithSize(rows, cols),
		headlessterm.WithScrollback(headlessterm.NewMemoryScrollback(scrollbackLineCap)),
		headlessterm.WithPTYWriter(ptmx),
		headlessterm.WithClipboard(discardClipboard{}),
		headlessterm.WithTitle(titleCollector{s: s}),
	)

	go s.readLoop()
	go s.waitLoop()

	return s, nil
}

// readLoop copies PTY output into the VT emulator and forwards raw bytes
// to the configured sink, mirroring network/client.go's single-reader
// goroutine pattern.
func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			_, _ = s.term.Write(chunk)
			if s.onOutput != nil {
				s.onOutput(chunk)
			}
		}
		if err != nil {
			return
		}
	}
}

// waitLoop supervises process exit and releases resources once, mirroring
// supervisor.Session's single wait() goroutine.
func (s *Session) waitLoop() {
	err := s.cmd.Wait()
	s.exitCh <- err
	s.closed.Store(true)
	close(s.done)
	if s.onExit != nil {
		s.onExit(err)
	}
}

// Write sends input bytes to the child's stdin (the PTY master).
func (s *Session) Write(p []byte) (int, error) {
	return s.ptmx.Write(p)
}

// Resize applies a new terminal size via TIOCSWINSZ and informs the VT
// emulator (scenario S6).
func (s *Session) Resize(rows, cols int) error {
	if err := pty.Setsize(s.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return err
	}
	s.term.Resize(rows, cols)
	return nil
}

// Title returns the most recently set window title.
func (s *Session) Title() string {
	s.titleMu.Lock()
	defer s.titleMu.Unlock()
	return s.title
}

// Snapshot returns the current visible-screen text, one line per row.
func (s *Session) Snapshot() []string {
	lines := make([]string, s.term.Rows())
	for row := 0; row < s.term.Rows(); row++ {
		lines[row] = s.term.LineContent(row)
	}
	return lines
}

// Done returns a channel closed once the child has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close terminates the child's process group and releases the PTY,
// mirroring supervisor.Stop's two-phase kill (§4.8: graceful termination
// to the PTY process group, a brief wait, then force-terminate) rather
// than signaling just the leader process with no escalation.
func (s *Session) Close() error {
	if s.cmd.Process != nil {
		pid := s.cmd.Process.Pid
		_ = supervisor.KillGroup(pid, syscall.SIGTERM)

		select {
		case <-s.done:
		case <-time.After(closeGrace):
			_ = supervisor.KillGroup(pid, syscall.SIGKILL)
			select {
			case <-s.done:
			case <-time.After(closeGrace):
			}
		}
	}
	return s.ptmx.Close()
}
