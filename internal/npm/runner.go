package npm

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gfxblit/mcp-unity/internal/errors"
)

// unixExtraPaths are common npm install locations checked after PATH on
// Unix-family platforms, so the tool is found even when the parent
// process's environment lacks it (GUI launches, minimal shells).
var unixExtraPaths = []string{"/usr/local/bin", "/opt/homebrew/bin"}

// ErrCommandFailed indicates the external command exited non-zero or could
// not be started.
var ErrCommandFailed = errors.Mark(errors.New("npm command failed"), errors.ErrProcess)

// Outcome is the result of a completed command run. Stdout and Stderr are
// fully captured, never streamed.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited cleanly. Exit code 0 is the
// only success signal.
func (o *Outcome) Success() bool {
	return o.ExitCode == 0
}

// Runner executes npm commands with captured output. A configured
// executable path bypasses PATH lookup entirely; otherwise the launch
// strategy is chosen per platform.
type Runner struct {
	npmPath string
	goos    string
	logger  *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithNpmPath sets an explicit npm executable path, invoked directly with
// the given arguments.
func WithNpmPath(path string) RunnerOption {
	return func(r *Runner) { r.npmPath = path }
}

// WithGOOS overrides the platform used for launch-strategy selection.
func WithGOOS(goos string) RunnerOption {
	return func(r *Runner) { r.goos = goos }
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner for the current platform.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		goos:   runtime.GOOS,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes npm with args in dir and blocks until the process exits.
// The arguments are passed as a structured vector, never interpolated into
// a shell string. The context bounds the subprocess lifetime; cancellation
// kills it.
//
// The outcome is always non-nil when the process ran; a non-zero exit is
// reported both in the outcome and as an error so callers can choose their
// signal.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (*Outcome, error) {
	cmd := r.command(ctx, args)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running npm", "args", strings.Join(args, " "), "dir", dir)

	err := cmd.Run()
	outcome := &Outcome{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		r.logger.Info("npm command succeeded",
			"args", strings.Join(args, " "), "output", strings.TrimSpace(outcome.Stdout))
		return outcome, nil

	case errors.As(err, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
		r.logger.Error("npm command failed",
			"args", strings.Join(args, " "),
			"exitCode", outcome.ExitCode,
			"stderr", strings.TrimSpace(outcome.Stderr))
		return outcome, errors.Wrapf(ErrCommandFailed,
			"npm %s exited with code %d: %s",
			strings.Join(args, " "), outcome.ExitCode, strings.TrimSpace(outcome.Stderr))

	default:
		outcome.ExitCode = -1
		r.logger.Error("npm could not be started",
			"args", strings.Join(args, " "), "error", err)
		return outcome, errors.Mark(errors.Wrap(err, "starting npm"), errors.ErrProcess)
	}
}

// Install runs `npm install` in dir.
func (r *Runner) Install(ctx context.Context, dir string) (*Outcome, error) {
	return r.Run(ctx, dir, "install")
}

// Build runs `npm run build` in dir.
func (r *Runner) Build(ctx context.Context, dir string) (*Outcome, error) {
	return r.Run(ctx, dir, "run", "build")
}

// command selects the launch strategy: configured path directly, the
// command interpreter on Windows, or a PATH-augmented direct lookup on
// Unix-family platforms.
func (r *Runner) command(ctx context.Context, args []string) *exec.Cmd {
	if r.npmPath != "" {
		return exec.CommandContext(ctx, r.npmPath, args...)
	}

	if r.goos == "windows" {
		// npm is a .cmd shim on Windows; cmd.exe resolves it. The
		// arguments stay a structured vector.
		argv := append([]string{"/c", "npm"}, args...)
		return exec.CommandContext(ctx, "cmd", argv...)
	}

	return exec.CommandContext(ctx, lookupNpm(), args...)
}

// lookupNpm resolves the npm executable on Unix-family platforms: PATH
// first, then the common install locations, since PATH lacks them when
// the parent process was launched outside a login shell. When nothing is
// found the bare name is returned and the run fails with a start error.
func lookupNpm() string {
	if path, err := exec.LookPath("npm"); err == nil {
		return path
	}
	for _, dir := range candidateDirs() {
		candidate := filepath.Join(dir, "npm")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
			return candidate
		}
	}
	return "npm"
}

// candidateDirs lists directories to probe for npm beyond PATH, including
// nvm-managed node installs under the user's home directory.
func candidateDirs() []string {
	dirs := append([]string{}, unixExtraPaths...)
	if home, err := os.UserHomeDir(); err == nil {
		shims, _ := filepath.Glob(filepath.Join(home, ".nvm", "versions", "node", "*", "bin"))
		dirs = append(dirs, shims...)
	}
	return dirs
}
