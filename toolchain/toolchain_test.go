package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embml/mlwrap/targets"
)

// newTestSDK lays out a stub SDK under a temp directory: every tool binary is
// a shell script that appends its arguments to a sibling .log file.
func newTestSDK(t *testing.T, tools ...string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub SDK tools are shell scripts")
	}
	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	for _, tool := range tools {
		script := "#!/bin/sh\necho \"$@\" >> \"$0.log\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(binDir, tool), []byte(script), 0755))
	}
	return root
}

// toolLog returns the arguments the stub tool was invoked with.
func toolLog(t *testing.T, root, tool string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "bin", tool+".log"))
	require.NoError(t, err)
	return string(data)
}

func TestFindRoot(t *testing.T) {
	root := newTestSDK(t, CompilerTool)
	t.Setenv(MLCHomeEnvVar, root)
	found, err := FindRoot()
	require.NoError(t, err)
	assert.Equal(t, root, found)

	// MLC_HOME pointing at a directory without the compiler is an error.
	t.Setenv(MLCHomeEnvVar, t.TempDir())
	_, err = FindRoot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), CompilerTool)
}

func TestNewAndPath(t *testing.T) {
	root := newTestSDK(t, CompilerTool, OptTool)

	tools, err := New(root)
	require.NoError(t, err)
	assert.Equal(t, root, tools.Root())

	optPath, err := tools.Path(OptTool)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "bin", OptTool), optPath)

	// llc was not installed in this stub SDK.
	_, err = tools.Path(LlcTool)
	require.Error(t, err)
	assert.Contains(t, err.Error(), LlcTool)

	_, err = New(t.TempDir())
	require.Error(t, err)
}

func TestOpt(t *testing.T) {
	root := newTestSDK(t, CompilerTool, OptTool)
	tools, err := New(root)
	require.NoError(t, err)

	outFile, err := tools.Opt(filepath.Join("out", "model.bc"), "3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "model.opt.bc"), outFile)
	assert.Contains(t, toolLog(t, root, OptTool), "-O3")
}

func TestLlc(t *testing.T) {
	root := newTestSDK(t, CompilerTool, LlcTool)
	tools, err := New(root)
	require.NoError(t, err)

	outFile, err := tools.Llc(filepath.Join("out", "model.opt.bc"), targets.Pi3, "2", "o")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "model.o"), outFile)

	log := toolLog(t, root, LlcTool)
	assert.Contains(t, log, "-O2")
	assert.Contains(t, log, "-filetype=obj")
	assert.Contains(t, log, "-relocation-model=pic")
	assert.Contains(t, log, "-mtriple=armv7-linux-gnueabihf")
	assert.Contains(t, log, "-mcpu=cortex-a53")
}

func TestLlcHostHasNoTriple(t *testing.T) {
	root := newTestSDK(t, CompilerTool, LlcTool)
	tools, err := New(root)
	require.NoError(t, err)

	_, err = tools.Llc("model.bc", targets.Host, "3", "o")
	require.NoError(t, err)
	assert.NotContains(t, toolLog(t, root, LlcTool), "-mtriple")
}

func TestSwig(t *testing.T) {
	root := newTestSDK(t, CompilerTool, SwigTool)
	tools, err := New(root)
	require.NoError(t, err)

	defines := targets.Pi3.SwigDefines()
	require.NoError(t, tools.Swig("out", "my-model", targets.Python, defines))

	log := toolLog(t, root, SwigTool)
	assert.Contains(t, log, "-python")
	assert.Contains(t, log, "-c++")
	assert.Contains(t, log, "-py3")
	assert.Contains(t, log, "-DSWIGWORDSIZE32")
	assert.Contains(t, log, "-DLINUX")
	assert.Contains(t, log, filepath.Join("out", "my-model.i"))
}

func TestRunFailureIncludesOutput(t *testing.T) {
	root := newTestSDK(t, CompilerTool)
	script := "#!/bin/sh\necho \"model is malformed\"\nexit 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", OptTool), []byte(script), 0755))

	tools, err := New(root)
	require.NoError(t, err)
	_, err = tools.Opt("model.bc", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is malformed")
}

func TestTrimExt(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "model"), trimExt(filepath.Join("out", "model.opt.bc")))
	assert.Equal(t, "model", trimExt("model.bc"))
	assert.Equal(t, "model", trimExt("model"))
}
