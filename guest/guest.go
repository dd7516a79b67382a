// Package guest is preloaded into a script child process (§4.6): it
// exposes the wire protocol as a library of async Go operations plus a
// small amount of process-local state (pending replies, registered action
// handlers, accumulated output, an in-memory kv map).
//
// Each operation is a future resolved by a single reader goroutine reading
// the host's stdin-directed replies — the same shape as the teacher's
// gopher-lua coroutine-per-operation model, translated to goroutines and
// channels since a real OS process has no single-threaded VM to lean on.
package guest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/drake/scriptkit/protocol"
)

// Client is one script's connection to the host. Init installs and returns
// a process-wide default Client; user code calls its methods (Arg, Div,
// Exec, ...). The package has no package-level wrappers for these.
type Client struct {
	reader  *bufio.Reader
	out     *bufio.Writer
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan json.RawMessage

	actions map[string]ActionHandler

	nextID atomic.Uint64

	inputObj  json.RawMessage
	outputObj map[string]interface{}
	outputMu  sync.Mutex

	kv   map[string]json.RawMessage
	kvMu sync.Mutex

	done chan struct{}
}

// ActionHandler is invoked with (currentInput, state) when a registered
// action fires (§4.6.3).
type ActionHandler func(input string, state json.RawMessage)

var (
	defaultClient *Client
	once          sync.Once
)

// Init starts the default Client against os.Stdin/os.Stdout. Call once at
// process startup before any operation function is used.
func Init() *Client {
	once.Do(func() {
		defaultClient = New(os.Stdin, os.Stdout)
		go defaultClient.readLoop()
	})
	return defaultClient
}

// New constructs a Client over arbitrary reader/writer pair (tests use this
// to avoid touching real stdio).
func New(r io.Reader, w io.Writer) *Client {
	return &Client{
		out:       bufio.NewWriter(w),
		pending:   make(map[string]chan json.RawMessage),
		actions:   make(map[string]ActionHandler),
		outputObj: make(map[string]interface{}),
		kv:        make(map[string]json.RawMessage),
		done:      make(chan struct{}),
		reader:    bufio.NewReader(r),
	}
}

// genID produces a unique-per-process request id.
func (c *Client) genID() string {
	return fmt.Sprintf("g%d", c.nextID.Add(1))
}

// await registers a pending resolver for id and blocks for its reply.
func (c *Client) await(id string) json.RawMessage {
	ch := make(chan json.RawMessage, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	select {
	case v := <-ch:
		return v
	case <-c.done:
		return nil
	}
}

// send writes a record to the host's stdin-facing pipe (our stdout).
func (c *Client) send(wireType string, msg interface{}) error {
	line, err := protocol.Encode(wireType, msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.out.Write(line); err != nil {
		return err
	}
	if err := c.out.WriteByte('\n'); err != nil {
		return err
	}
	return c.out.Flush()
}

// request sends msg and awaits the reply keyed by id (non-fire-and-forget
// operations).
func (c *Client) request(id, wireType string, msg interface{}) (json.RawMessage, error) {
	if err := c.send(wireType, msg); err != nil {
		return nil, err
	}
	return c.await(id), nil
}
