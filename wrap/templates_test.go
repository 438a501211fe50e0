package wrap

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embml/mlwrap/targets"
	"github.com/embml/mlwrap/toolchain"
)

func TestRenderTemplate(t *testing.T) {
	sdkRoot := newTestSDK(t)
	tools, err := toolchain.New(sdkRoot)
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "pi3")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	opts := &Options{
		ModelFileBase: "my-model",
		ModuleName:    "my_model",
		Target:        targets.Pi3,
		OutputDir:     outDir,
	}
	b := NewBuilder(opts, tools)

	template := filepath.Join(t.TempDir(), "build.txt.in")
	require.NoError(t, os.WriteFile(template, []byte(
		"dir=@MLWRAP_outdir@ model=@MLWRAP_model@ module=@MLWRAP_model_name@ "+
			"arch=@Arch@ ext=@OBJECT_EXTENSION@ root=@MLWRAP_ROOT@ shell=@SHELL_TYPE@\n"), 0644))
	require.NoError(t, b.renderTemplate(template, "build.txt"))

	rendered, err := os.ReadFile(filepath.Join(outDir, "build.txt"))
	require.NoError(t, err)
	got := string(rendered)
	assert.Contains(t, got, "dir=pi3")
	assert.Contains(t, got, "model=my-model")
	assert.Contains(t, got, "module=my_model")
	assert.Contains(t, got, "arch=pi3")
	assert.Contains(t, got, "ext=o")
	assert.Contains(t, got, filepath.ToSlash(filepath.Join(sdkRoot, "external")))
	// Cross compilation always builds with a UNIX shell.
	assert.Contains(t, got, "shell=UNIX")
	assert.NotContains(t, got, "@")
}

func TestRenderTemplateShellType(t *testing.T) {
	sdkRoot := newTestSDK(t)
	tools, err := toolchain.New(sdkRoot)
	require.NoError(t, err)

	outDir := t.TempDir()
	opts := &Options{ModelFileBase: "m", ModuleName: "m", Target: targets.Host, OutputDir: outDir}
	b := NewBuilder(opts, tools)

	template := filepath.Join(t.TempDir(), "shell.in")
	require.NoError(t, os.WriteFile(template, []byte("@SHELL_TYPE@"), 0644))
	require.NoError(t, b.renderTemplate(template, "shell.txt"))

	rendered, err := os.ReadFile(filepath.Join(outDir, "shell.txt"))
	require.NoError(t, err)
	want := "UNIX"
	if runtime.GOOS == "windows" {
		want = "WINDOWS"
	}
	assert.Equal(t, want, string(rendered))
}
