// Package toolchain locates the model compiler SDK and drives its tool
// binaries -- the model compiler itself, the SWIG interface generator and
// LLVM's opt and llc -- as subprocesses with constructed argument lists.
package toolchain

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// MLCHomeEnvVar points to the root of the model compiler SDK.
// If unset, the ancestors of the mlwrap executable are searched instead.
const MLCHomeEnvVar = "MLC_HOME"

// Names of the SDK tool binaries, found under <root>/bin.
const (
	CompilerTool = "mlc"
	SwigTool     = "swig"
	OptTool      = "opt"
	LlcTool      = "llc"
)

// Tools resolves and runs the SDK tool binaries.
//
// Create it with New. The zero value is not usable.
type Tools struct {
	root string

	// Verbose echoes every tool command line (and its captured output) to the log.
	Verbose bool

	// Interactive displays a spinner while a tool runs, when not Verbose.
	// Leave it false when stdout is not a terminal.
	Interactive bool
}

// FindRoot returns the model compiler SDK root directory: $MLC_HOME if set,
// otherwise the nearest ancestor of the running executable that contains
// bin/mlc.
func FindRoot() (string, error) {
	if root := os.Getenv(MLCHomeEnvVar); root != "" {
		if !hasCompiler(root) {
			return "", errors.Errorf("%s is set to %q, but it has no %s binary", MLCHomeEnvVar, root, filepath.Join("bin", CompilerTool))
		}
		return root, nil
	}
	exePath, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "failed to find the running executable while searching for the SDK root")
	}
	dir := filepath.Dir(exePath)
	for {
		if hasCompiler(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.Errorf("could not locate the model compiler SDK: set %s to its root directory", MLCHomeEnvVar)
}

func hasCompiler(root string) bool {
	fi, err := os.Stat(filepath.Join(root, "bin", binaryName(CompilerTool)))
	return err == nil && fi.Mode().IsRegular()
}

func binaryName(tool string) string {
	if runtime.GOOS == "windows" {
		return tool + ".exe"
	}
	return tool
}

// New creates a Tools rooted at the given SDK directory.
// It verifies the model compiler binary is present; the other tools are
// resolved lazily, when first used.
func New(root string) (*Tools, error) {
	if !hasCompiler(root) {
		return nil, errors.Errorf("no %s binary under %q", filepath.Join("bin", CompilerTool), root)
	}
	return &Tools{root: root}, nil
}

// Root returns the SDK root directory.
func (t *Tools) Root() string {
	return t.root
}

// Path returns the full path of one of the SDK tool binaries, or an error
// naming the missing tool.
func (t *Tools) Path(tool string) (string, error) {
	p := filepath.Join(t.root, "bin", binaryName(tool))
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() {
		return "", errors.Errorf("required tool %q not found at %q", tool, p)
	}
	return p, nil
}

// run executes one tool invocation, capturing the combined output.
// With Verbose the command line is logged before running and the output after;
// otherwise the output is only surfaced when the tool fails.
func (t *Tools) run(step, toolPath string, args []string) error {
	cmd := exec.Command(toolPath, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	var err error
	if t.Verbose {
		klog.Infof("%s: %s %s", step, toolPath, strings.Join(args, " "))
		err = cmd.Run()
	} else if t.Interactive {
		spinnerErr := spinner.New().
			Title("Running " + step + "…").
			Action(func() {
				err = cmd.Run()
			}).
			Run()
		if spinnerErr != nil {
			return errors.Wrapf(spinnerErr, "failed to run spinner for %s", step)
		}
	} else {
		err = cmd.Run()
	}
	if err != nil {
		return errors.Wrapf(err, "%s failed:\n%s", step, output.String())
	}
	if t.Verbose && output.Len() > 0 {
		klog.Info(output.String())
	}
	return nil
}
