package scriptlet

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	glua "github.com/yuin/gopher-lua"

	"github.com/drake/scriptkit/shims"
	"github.com/drake/scriptkit/supervisor"
)

// Result is the outcome of running one scriptlet.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// runtimeInterpreters maps a fenced-block language tag to the interpreter
// invoked against a temp file holding the rendered body (§4.7).
var runtimeInterpreters = map[string]string{
	"python": "python3",
	"py":     "python3",
	"node":   "node",
	"js":     "node",
	"ruby":   "ruby",
	"rb":     "ruby",
}

var shellInterpreters = map[string]string{
	"bash": "bash",
	"sh":   "sh",
	"zsh":  "zsh",
	"fish": "fish",
}

// Run renders and executes one scriptlet, dispatching on its Tool. named
// and positional supply the substitution values collected from the user
// (or from non-interactive input).
func Run(ctx context.Context, s Scriptlet, named map[string]string, positional []string) Result {
	body := Render(ResolveConditionals(s.Body, named), s.Tool, named, positional)

	switch {
	case s.Tool == "open":
		return runOpen(ctx, body)
	case s.Tool == "type":
		return runType(body)
	case s.Tool == "lua":
		return runLua(body)
	case shellInterpreters[s.Tool] != "":
		return runViaTempFile(ctx, shellInterpreters[s.Tool], body, "")
	case runtimeInterpreters[s.Tool] != "":
		return runViaTempFile(ctx, runtimeInterpreters[s.Tool], body, extensionFor(s.Tool))
	default:
		return Result{Err: fmt.Errorf("scriptlet: unsupported tool %q", s.Tool)}
	}
}

func extensionFor(tool string) string {
	switch tool {
	case "python", "py":
		return ".py"
	case "node", "js":
		return ".js"
	case "ruby", "rb":
		return ".rb"
	}
	return ".txt"
}

// runViaTempFile writes body to a mode-0600 temp file and runs
// `interpreter <tempfile>`, removing the file on exit. Using a file (not
// -c/stdin) keeps multi-line scripts and interpreter-specific shebangs
// working the same way across tools. The child's environment goes through
// supervisor.FilterEnv with the default allowlist — scriptlets are
// one-shot helper processes, not the user's own script, so they get the
// same credential-stripping policy rather than the full host environment.
func runViaTempFile(ctx context.Context, interpreter, body, ext string) Result {
	f, err := os.CreateTemp("", "scriptlet-*"+ext)
	if err != nil {
		return Result{Err: err}
	}
	path := f.Name()
	defer os.Remove(path)

	if err := os.Chmod(path, 0o600); err != nil {
		f.Close()
		return Result{Err: err}
	}
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		return Result{Err: err}
	}
	if err := f.Close(); err != nil {
		return Result{Err: err}
	}

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cctx, interpreter, path)
	cmd.Env = supervisor.FilterEnv(os.Environ(), nil)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()

	return Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
		Err:      runErr(err),
	}
}

func runOpen(ctx context.Context, target string) Result {
	opener := "xdg-open"
	if _, err := exec.LookPath("open"); err == nil {
		opener = "open"
	}
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err := exec.CommandContext(cctx, opener, target).Run()
	return Result{ExitCode: exitCode(err), Err: runErr(err)}
}

// runType would synthesize the rendered body as a literal keystroke
// sequence via the host's keyboard side effect. Keystroke synthesis is
// out of scope (spec.md §1), same as shims.InputSynthesizer's other
// callers, so this fails the same way rather than silently reporting the
// body as typed.
func runType(body string) Result {
	_ = body
	return Result{Err: shims.ErrPermissionDenied}
}

// runLua executes body in a fresh, sandboxed Lua VM with no host bridge —
// scriptlets get the base, string, table and math libraries only, no
// network or process access, and no host hooks of any kind.
func runLua(body string) Result {
	L := glua.NewState(glua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		name string
		fn   glua.LGFunction
	}{
		{glua.BaseLibName, glua.OpenBase},
		{glua.StringLibName, glua.OpenString},
		{glua.TabLibName, glua.OpenTable},
		{glua.MathLibName, glua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(glua.LString(lib.name))
		_ = L.PCall(1, 0, nil)
	}

	var out bytes.Buffer
	L.SetGlobal("print", L.NewFunction(func(ls *glua.LState) int {
		n := ls.GetTop()
		for i := 1; i <= n; i++ {
			fmt.Fprint(&out, ls.ToStringMeta(ls.Get(i)).String())
			if i < n {
				out.WriteByte('\t')
			}
		}
		out.WriteByte('\n')
		return 0
	}))

	if err := L.DoString(body); err != nil {
		return Result{Stdout: out.String(), Err: err}
	}
	return Result{Stdout: out.String()}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if ok := asExitError(err, &ee); ok {
		return ee.ExitCode()
	}
	return -1
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

func runErr(err error) error {
	var ee *exec.ExitError
	if asExitError(err, &ee) {
		return nil // non-zero exit is reported via ExitCode, not Err
	}
	return err
}
