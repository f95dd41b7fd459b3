package md2thesis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/alnah/go-md2thesis/internal/config"
	"github.com/alnah/go-md2thesis/internal/hints"
	"github.com/alnah/go-md2thesis/internal/process"
)

// DefaultPandocBinary is looked up on PATH when pandoc.binary is empty.
const DefaultPandocBinary = "pandoc"

// maxStderr caps how much pandoc output is quoted in an error.
const maxStderr = 2000

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Cancelling the
// context kills the command and every process it spawned.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary and args come from the user's config
	process.Configure(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// pandocArgs builds the command line converting input to output.
// resourceDir lets pandoc find images relative to the Markdown file.
func pandocArgs(p config.PandocConfig, input, output, referenceDoc, resourceDir string) []string {
	args := []string{input, "-o", output}
	if resourceDir != "" {
		args = append(args, "--resource-path="+resourceDir)
	}
	for _, f := range p.Filters {
		args = append(args, "--filter", f)
	}
	if referenceDoc != "" {
		args = append(args, "--reference-doc", referenceDoc)
	}
	if p.Citeproc {
		args = append(args, "--citeproc")
	}
	if p.CSL != "" {
		args = append(args, "--csl", p.CSL)
	}
	for _, b := range p.Bibliography {
		args = append(args, "--bibliography", b)
	}
	return append(args, p.ExtraArgs...)
}

// runPandoc runs the pandoc binary and classifies its failure.
func runPandoc(ctx context.Context, runner CommandRunner, binary string, args ...string) (string, error) {
	stdout, stderr, err := runner.Run(ctx, binary, args...)
	if err == nil {
		return stdout, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s%s", ErrPandocNotFound, binary, hints.ForPandocNotFound())
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		hint := ""
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			hint = hints.ForTimeout()
		}
		return "", fmt.Errorf("%w: %w%s", ErrPandoc, ctxErr, hint)
	}

	msg := strings.TrimSpace(stderr)
	if len(msg) > maxStderr {
		msg = msg[:maxStderr] + "..."
	}
	if msg == "" {
		return "", fmt.Errorf("%w: %v", ErrPandoc, err)
	}
	return "", fmt.Errorf("%w: %v: %s%s", ErrPandoc, err, msg, hints.ForPandocFilter(stderr))
}
