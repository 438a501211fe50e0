package toolchain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embml/mlwrap/targets"
)

func TestCompileArgs(t *testing.T) {
	tools := &Tools{root: "/sdk"}
	cc := tools.Compile().
		WithModel("models/my-model.emm", "my_model").
		OutputDir("out").
		Target(targets.Pi3).
		Format(targets.IR).
		BLAS(false).
		FuseLinearOps(false).
		OptimizeReorder(true).
		Optimize(true, false, true).
		Profile(true).
		Debug(true).
		EmitSwigInterface(true).
		SkipCodegen(true).
		GlobalValueAlignment(64).
		ExtraArgs("--convolutionMethod", "winograd")

	assert.Equal(t, []string{
		"--map", "models/my-model.emm",
		"--outputDir", "out",
		"--moduleName", "my_model",
		"--functionName", "Predict",
		"--target", "pi3",
		"--format", "ir",
		"--blas", "false",
		"--fuseLinearOps", "false",
		"--optimizeReorderDataNodes", "true",
		"--optimize", "true",
		"--parallelize", "false",
		"--vectorize", "true",
		"--globalValueAlignment", "64",
		"--profile",
		"--debug",
		"--swig",
		"--skipCodegen",
		"--convolutionMethod", "winograd",
	}, cc.Args())
	assert.Equal(t, filepath.Join("out", "my_model.ll"), cc.OutputFile())
}

func TestCompileDefaults(t *testing.T) {
	tools := &Tools{root: "/sdk"}
	cc := tools.Compile().WithModel("m.emm", "m").OutputDir("out")
	args := cc.Args()
	assert.Contains(t, args, "--functionName")
	assert.Equal(t, filepath.Join("out", "m.bc"), cc.OutputFile())

	// Defaults: host target, bitcode, everything enabled.
	assert.Subset(t, args, []string{"--target", "host", "--format", "bc"})
	assert.Subset(t, args, []string{"--blas", "--fuseLinearOps", "--optimize", "--parallelize", "--vectorize"})
	assert.NotContains(t, args, "--profile")
	assert.NotContains(t, args, "--debug")
	assert.NotContains(t, args, "--header")
}

func TestCompileOptimizeGatesParallelizeAndVectorize(t *testing.T) {
	tools := &Tools{root: "/sdk"}
	args := tools.Compile().
		WithModel("m.emm", "m").
		OutputDir("out").
		Optimize(false, true, true).
		Args()
	assert.Subset(t, args, []string{"--optimize", "false"})
	assert.Subset(t, args, []string{"--parallelize", "false"})
	assert.Subset(t, args, []string{"--vectorize", "false"})
}

func TestCompileMisuse(t *testing.T) {
	root := newTestSDK(t, CompilerTool)
	tools, err := New(root)
	require.NoError(t, err)

	// Done without a model.
	_, err = tools.Compile().OutputDir("out").Done()
	require.Error(t, err)

	// Done without an output directory.
	_, err = tools.Compile().WithModel("m.emm", "m").Done()
	require.Error(t, err)

	// WithModel twice panics.
	require.Panics(t, func() {
		tools.Compile().WithModel("a.emm", "a").WithModel("b.emm", "b")
	})

	// A CompileConfig can only be used once.
	cc := tools.Compile().WithModel("m.emm", "m").OutputDir(t.TempDir())
	_, err = cc.Done()
	require.NoError(t, err)
	_, err = cc.Done()
	require.Error(t, err)
}

func TestCompileRuns(t *testing.T) {
	root := newTestSDK(t, CompilerTool)
	tools, err := New(root)
	require.NoError(t, err)

	outDir := t.TempDir()
	outFile, err := tools.Compile().
		WithModel("models/my-model.emm", "my_model").
		OutputDir(outDir).
		ExtraArgs("--passedThrough").
		Done()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "my_model.bc"), outFile)

	log := toolLog(t, root, CompilerTool)
	assert.Contains(t, log, "--map models/my-model.emm")
	assert.Contains(t, log, "--passedThrough")
}
