package blame

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrAttributionFailed is returned when git blame exits with a non-zero status.
var ErrAttributionFailed = errors.New("git blame failed")

// DefaultBinary is the git executable looked up in PATH.
const DefaultBinary = "git"

// Source opens one incremental attribution stream per file. Closing the
// stream reports the completion status of whatever produced it.
type Source interface {
	Open(ctx context.Context, revision, path string) (io.ReadCloser, error)
}

// GitSource runs git blame as a subprocess inside a repository.
type GitSource struct {
	// Dir is the repository working directory.
	Dir string

	// Binary is the git executable; DefaultBinary when empty.
	Binary string

	// DetectCopies passes -M -C -C so moved and copied lines keep their
	// original author, within and across files.
	DetectCopies bool

	// IgnoreWhitespace passes -w.
	IgnoreWhitespace bool
}

// NewGitSource creates a GitSource with copy detection and whitespace
// insensitivity enabled.
func NewGitSource(dir string) *GitSource {
	return &GitSource{
		Dir:              dir,
		Binary:           DefaultBinary,
		DetectCopies:     true,
		IgnoreWhitespace: true,
	}
}

// Args returns the git arguments used to attribute path at revision.
func (s *GitSource) Args(revision, path string) []string {
	args := []string{"blame", "--incremental"}

	if s.IgnoreWhitespace {
		args = append(args, "-w")
	}

	if s.DetectCopies {
		args = append(args, "-M", "-C", "-C")
	}

	if revision != "" {
		args = append(args, revision)
	}

	return append(args, "--", path)
}

// Open starts git blame for path and returns its stdout.
func (s *GitSource) Open(ctx context.Context, revision, path string) (io.ReadCloser, error) {
	binary := s.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, binary, s.Args(revision, path)...)
	cmd.Dir = s.Dir

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("git blame stdout pipe: %w", err)
	}

	startErr := cmd.Start()
	if startErr != nil {
		return nil, fmt.Errorf("start git blame %s: %w", path, startErr)
	}

	return &gitStream{ctx: ctx, cmd: cmd, stdout: stdout, stderr: stderr, path: path}, nil
}

type gitStream struct {
	ctx    context.Context //nolint:containedctx // owned by one subprocess lifetime.
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	path   string
	closed bool
}

func (gs *gitStream) Read(p []byte) (int, error) {
	return gs.stdout.Read(p)
}

// Close drains unread output, waits for git, and maps its exit status.
func (gs *gitStream) Close() error {
	if gs.closed {
		return nil
	}

	gs.closed = true

	_, _ = io.Copy(io.Discard, gs.stdout)

	waitErr := gs.cmd.Wait()
	if waitErr == nil {
		return nil
	}

	ctxErr := gs.ctx.Err()
	if ctxErr != nil {
		return fmt.Errorf("git blame %s: %w", gs.path, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return fmt.Errorf("%w: %s: exit status %d: %s",
			ErrAttributionFailed, gs.path, exitErr.ExitCode(), strings.TrimSpace(gs.stderr.String()))
	}

	return fmt.Errorf("wait git blame %s: %w", gs.path, waitErr)
}
