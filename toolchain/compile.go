package toolchain

import (
	"path/filepath"
	"strconv"

	"github.com/embml/mlwrap/targets"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// CompileConfig is created with Tools.Compile, and is a "builder pattern" to
// configure one model compiler invocation.
//
// At a minimum one has to set the model to compile (use CompileConfig.WithModel)
// and the output directory (CompileConfig.OutputDir). Optionally, many other
// options can be set.
//
// Once finished call CompileConfig.Done to run the compiler and get back the
// path of the emitted code file, or an error.
type CompileConfig struct {
	tools *Tools

	modelFile  string
	moduleName string
	funcName   string
	outputDir  string

	target targets.Target
	format targets.EmitFormat

	blas            bool
	fuseLinearOps   bool
	optimizeReorder bool
	optimize        bool
	parallelize     bool
	vectorize       bool
	profile         bool
	debug           bool
	swig            bool
	header          bool
	skipCodegen     bool

	globalValueAlignment int

	extraArgs []string
}

// Compile returns a CompileConfig with the compiler defaults: host target,
// bitcode emission, BLAS and all optimizations enabled, predict function
// named "Predict", 32-byte global alignment.
func (t *Tools) Compile() *CompileConfig {
	return &CompileConfig{
		tools:                t,
		funcName:             "Predict",
		target:               targets.Host,
		format:               targets.BC,
		blas:                 true,
		fuseLinearOps:        true,
		optimizeReorder:      true,
		optimize:             true,
		parallelize:          true,
		vectorize:            true,
		globalValueAlignment: 32,
	}
}

// WithModel sets the model file to compile and the name of the emitted module.
// Both are required.
//
// It panics if called more than once.
// It returns itself (CompileConfig) to allow cascading configuration calls.
func (cc *CompileConfig) WithModel(modelFile, moduleName string) *CompileConfig {
	if cc.modelFile != "" {
		exceptions.Panicf("toolchain.Tools.Compile() was given a model more than once with WithModel")
	}
	cc.modelFile = modelFile
	cc.moduleName = moduleName
	return cc
}

// OutputDir sets the directory the compiler emits into. Required.
func (cc *CompileConfig) OutputDir(dir string) *CompileConfig {
	cc.outputDir = dir
	return cc
}

// Target sets the platform the model is compiled for. Defaults to Host.
func (cc *CompileConfig) Target(t targets.Target) *CompileConfig {
	cc.target = t
	return cc
}

// Format sets the emitted code format. Defaults to BC (LLVM bitcode).
func (cc *CompileConfig) Format(f targets.EmitFormat) *CompileConfig {
	cc.format = f
	return cc
}

// FuncName sets the name of the model's predict function. Defaults to "Predict".
func (cc *CompileConfig) FuncName(name string) *CompileConfig {
	cc.funcName = name
	return cc
}

// BLAS enables or disables BLAS calls in the emitted code. Defaults to true.
func (cc *CompileConfig) BLAS(enabled bool) *CompileConfig {
	cc.blas = enabled
	return cc
}

// FuseLinearOps enables or disables fusing of sequences of linear operations.
func (cc *CompileConfig) FuseLinearOps(enabled bool) *CompileConfig {
	cc.fuseLinearOps = enabled
	return cc
}

// OptimizeReorder enables or disables the reorder-data-nodes optimization.
func (cc *CompileConfig) OptimizeReorder(enabled bool) *CompileConfig {
	cc.optimizeReorder = enabled
	return cc
}

// Optimize configures the compiler's own optimization passes. Parallelize and
// vectorize are only honored when optimize is set.
func (cc *CompileConfig) Optimize(optimize, parallelize, vectorize bool) *CompileConfig {
	cc.optimize = optimize
	cc.parallelize = optimize && parallelize
	cc.vectorize = optimize && vectorize
	return cc
}

// Profile enables emission of profiling functions in the module.
func (cc *CompileConfig) Profile(enabled bool) *CompileConfig {
	cc.profile = enabled
	return cc
}

// Debug enables emission of debug code.
func (cc *CompileConfig) Debug(enabled bool) *CompileConfig {
	cc.debug = enabled
	return cc
}

// EmitSwigInterface asks the compiler to also emit the SWIG interface (.i)
// file next to the code file.
func (cc *CompileConfig) EmitSwigInterface(enabled bool) *CompileConfig {
	cc.swig = enabled
	return cc
}

// EmitHeader asks the compiler to also emit a C++ header for the module.
func (cc *CompileConfig) EmitHeader(enabled bool) *CompileConfig {
	cc.header = enabled
	return cc
}

// SkipCodegen skips the compiler's embedded code generation step.
func (cc *CompileConfig) SkipCodegen(enabled bool) *CompileConfig {
	cc.skipCodegen = enabled
	return cc
}

// GlobalValueAlignment sets the byte alignment of global buffers. Defaults to 32.
func (cc *CompileConfig) GlobalValueAlignment(bytes int) *CompileConfig {
	cc.globalValueAlignment = bytes
	return cc
}

// ExtraArgs appends arguments passed verbatim to the compiler, after all
// constructed ones.
func (cc *CompileConfig) ExtraArgs(args ...string) *CompileConfig {
	cc.extraArgs = append(cc.extraArgs, args...)
	return cc
}

// Args returns the argument list Done hands to the model compiler.
func (cc *CompileConfig) Args() []string {
	args := []string{
		"--map", cc.modelFile,
		"--outputDir", cc.outputDir,
		"--moduleName", cc.moduleName,
		"--functionName", cc.funcName,
		"--target", cc.target.String(),
		"--format", cc.format.String(),
		"--blas", strconv.FormatBool(cc.blas),
		"--fuseLinearOps", strconv.FormatBool(cc.fuseLinearOps),
		"--optimizeReorderDataNodes", strconv.FormatBool(cc.optimizeReorder),
		"--optimize", strconv.FormatBool(cc.optimize),
		"--parallelize", strconv.FormatBool(cc.parallelize),
		"--vectorize", strconv.FormatBool(cc.vectorize),
		"--globalValueAlignment", strconv.Itoa(cc.globalValueAlignment),
	}
	if cc.profile {
		args = append(args, "--profile")
	}
	if cc.debug {
		args = append(args, "--debug")
	}
	if cc.swig {
		args = append(args, "--swig")
	}
	if cc.header {
		args = append(args, "--header")
	}
	if cc.skipCodegen {
		args = append(args, "--skipCodegen")
	}
	return append(args, cc.extraArgs...)
}

// OutputFile returns the path of the code file the compiler emits for this
// configuration: <outputDir>/<moduleName>.<ext>, with the extension given by
// the emission format.
func (cc *CompileConfig) OutputFile() string {
	return filepath.Join(cc.outputDir, cc.moduleName+"."+cc.format.Ext())
}

// Done runs the model compiler with the configured arguments. On success it
// returns the path of the emitted code file.
func (cc *CompileConfig) Done() (string, error) {
	if cc.tools == nil {
		return "", errors.New("misconfigured CompileConfig, or an attempt of using it more than once, which is not supported -- call Tools.Compile() again")
	}

	// CompileConfig can only be used once.
	tools := cc.tools
	defer func() { cc.tools = nil }()

	if cc.modelFile == "" || cc.moduleName == "" {
		return "", errors.New("no model given to Tools.Compile(), use Tools.Compile().WithModel() before calling Done()")
	}
	if cc.outputDir == "" {
		return "", errors.New("no output directory given to Tools.Compile(), use OutputDir() before calling Done()")
	}

	compilerPath, err := tools.Path(CompilerTool)
	if err != nil {
		return "", err
	}
	if err = tools.run("compile", compilerPath, cc.Args()); err != nil {
		return "", err
	}
	return cc.OutputFile(), nil
}
