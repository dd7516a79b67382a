package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/drake/scriptkit/config"
	"github.com/drake/scriptkit/debug"
	"github.com/drake/scriptkit/ipc"
	"github.com/drake/scriptkit/promptengine"
	"github.com/drake/scriptkit/shims"
	"github.com/drake/scriptkit/supervisor"
	"github.com/drake/scriptkit/ui/launcher"
)

// dispatchAdapter satisfies launcher.Callbacks by forwarding into the
// prompt engine; kept here (not in promptengine) since it is wiring, not
// engine behavior.
type dispatchAdapter struct {
	engine *promptengine.Engine
}

func (a *dispatchAdapter) SetFilter(id, filter string)          { a.engine.SetFilter(id, filter) }
func (a *dispatchAdapter) Submit(id string, value interface{})  { a.engine.Submit(id, value) }
func (a *dispatchAdapter) Escape(id string)                     { a.engine.Escape(id) }
func (a *dispatchAdapter) TriggerAction(id, name, input string) { a.engine.TriggerAction(id, name, input) }
func (a *dispatchAdapter) TerminalInput(id, data string)        { a.engine.TerminalInput(id, data) }
func (a *dispatchAdapter) TerminalResize(id string, rows, cols int) {
	a.engine.TerminalResize(id, rows, cols)
}

func main() {
	os.Exit(run())
}

// run implements the CLI surface (spec.md §6): a script path argument
// spawns that script under the supervisor; with no arguments a picker over
// the scripts directory chooses the script to spawn (Esc exits with 0).
// Exit code 0 on clean shutdown, non-zero on startup failure.
func run() int {
	interpreter := flag.String("interpreter", "go", "runtime interpreter used to run scripts")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "scriptkit: load config:", err)
		return 1
	}
	for _, dir := range []string{cfg.ScriptsDir, cfg.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, "scriptkit: create dir:", err)
			return 1
		}
	}

	store, err := shims.OpenStore(cfg.StoreFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scriptkit: open store:", err)
		return 1
	}
	defer store.Close()

	args := flag.Args()
	var scriptPath string
	var scriptArgs []string
	if len(args) == 0 {
		picked, err := launcher.PickScript(cfg.ScriptsDir)
		switch {
		case err == launcher.ErrPickerCancelled:
			return 0
		case err != nil:
			fmt.Fprintln(os.Stderr, "scriptkit: launcher:", err)
			return 1
		}
		scriptPath = picked
	} else {
		scriptPath = args[0]
		scriptArgs = args[1:]
	}

	sess, err := supervisor.Start(ctx, supervisor.Config{
		Interpreter:  *interpreter,
		GuestLibPath: cfg.GuestLibPath,
		ScriptPath:   scriptPath,
		ScriptArgs:   scriptArgs,
		WorkDir:      cfg.ScriptsDir,
		Limits:       supervisor.Limits{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "scriptkit: start script:", err)
		return 1
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	disp := ipc.NewDispatcher(sess.Stdout, sess.Stdin, 256, logger)

	stop := make(chan struct{})
	go disp.RunReader(stop)

	adapter := &dispatchAdapter{}
	l := launcher.New(adapter)
	engine := promptengine.NewEngine(disp, l, logger)
	adapter.engine = engine
	engine.SetStore(store)

	programErrCh := make(chan error, 1)
	go func() { programErrCh <- l.Run() }()

	engineStop := make(chan struct{})
	go engine.Run(disp.Inbound, engineStop)

	monitor := debug.NewMonitor(ctx, disp, sess)
	monitor.Start()

	select {
	case <-ctx.Done():
	case <-sess.Done():
	case <-programErrCh:
	}

	close(engineStop)
	close(stop)
	l.Quit()
	if err := sess.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, "scriptkit: stop script:", err)
		return 1
	}
	if err := sess.ExitErr(); err != nil {
		fmt.Fprintln(os.Stderr, "scriptkit: script exited:", err)
	}
	return 0
}
