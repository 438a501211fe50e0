package wrap

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/embml/mlwrap/targets"
	"github.com/embml/mlwrap/toolchain"
)

// Builder orchestrates the wrap: it copies the support files, compiles the
// model, runs the interface generator and the LLVM passes, and writes the
// generated project files into the output directory.
type Builder struct {
	Options *Options
	Tools   *toolchain.Tools

	// FuncName is the name of the model's predict function in the wrapped
	// module. Defaults to "Predict".
	FuncName string

	// Includes are extra header files copied into <outdir>/include.
	Includes []string

	// Config, when non-nil, is written as ConfigFileName into the output
	// directory with the wrapped model and predict function names recorded
	// under "model" and "func".
	Config         map[string]string
	ConfigFileName string

	times *Timings
}

// NewBuilder returns a Builder for the parsed options, driving the given
// toolchain.
func NewBuilder(opts *Options, tools *toolchain.Tools) *Builder {
	return &Builder{
		Options:  opts,
		Tools:    tools,
		FuncName: "Predict",
		times:    NewTimings(),
	}
}

// Times exposes the per-step timings recorded by Run.
func (b *Builder) Times() *Timings {
	return b.times
}

// supportFiles returns the static files copied verbatim into the output
// directory.
func (b *Builder) supportFiles() []string {
	return []string{filepath.Join(b.Tools.Root(), "cmake", "OpenBLASSetup.cmake")}
}

// findTemplates resolves the build descriptor template for the chosen
// language and, for python, the module-init template. Missing templates are
// an error naming the path.
func (b *Builder) findTemplates() (cmakeTemplate, initTemplate string, err error) {
	templatesDir := filepath.Join(b.Tools.Root(), "templates")
	cmakeTemplate = filepath.Join(templatesDir, fmt.Sprintf(cmakeTemplateFmt, b.Options.Language))
	if _, err = os.Stat(cmakeTemplate); err != nil {
		return "", "", errors.Errorf("could not find CMakeLists template: %s", cmakeTemplate)
	}
	if b.Options.Language == targets.Python {
		initTemplate = filepath.Join(templatesDir, moduleInitTemplateName)
		if _, err = os.Stat(initTemplate); err != nil {
			return "", "", errors.Errorf("could not find module init template: %s", initTemplate)
		}
	}
	return cmakeTemplate, initTemplate, nil
}

// Run performs the whole wrap sequentially: any failing step aborts the run
// and its error is reported to the caller.
func (b *Builder) Run() error {
	opts := b.Options

	cmakeTemplate, initTemplate, err := b.findTemplates()
	if err != nil {
		return err
	}
	if err = b.copyFiles(b.supportFiles(), ""); err != nil {
		return err
	}
	if err = b.copyFiles(b.Includes, "include"); err != nil {
		return err
	}

	b.times.Start("compile")
	codeFile, err := b.Tools.Compile().
		WithModel(opts.ModelFile, opts.ModuleName).
		OutputDir(opts.OutputDir).
		Target(opts.Target).
		Format(opts.Format).
		FuncName(b.FuncName).
		BLAS(opts.BLAS).
		FuseLinearOps(opts.FuseLinearOps).
		OptimizeReorder(opts.OptimizeReorder).
		Optimize(opts.Optimize, opts.Parallelize, opts.Vectorize).
		Profile(opts.Profile).
		Debug(opts.Debug).
		EmitSwigInterface(opts.Swig()).
		EmitHeader(opts.Header()).
		SkipCodegen(opts.SkipCodegen).
		GlobalValueAlignment(opts.GlobalValueAlignment).
		ExtraArgs(opts.PassThrough...).
		Done()
	b.times.Stop("compile")
	if err != nil {
		return err
	}

	if opts.Swig() {
		b.times.Start("swig")
		err = b.Tools.Swig(opts.OutputDir, opts.ModelFileBase, opts.Language, opts.Target.SwigDefines())
		b.times.Stop("swig")
		if err != nil {
			return err
		}
	}
	if opts.UseOptTool {
		b.times.Start("opt")
		codeFile, err = b.Tools.Opt(codeFile, opts.OptimizationLevel)
		b.times.Stop("opt")
		if err != nil {
			return err
		}
	}
	if opts.UseLlcTool {
		b.times.Start("llc")
		codeFile, err = b.Tools.Llc(codeFile, opts.Target, opts.OptimizationLevel, opts.Target.ObjExt())
		b.times.Stop("llc")
		if err != nil {
			return err
		}
	}
	klog.V(1).Infof("final code file: %q", codeFile)

	if opts.Stats {
		if err = b.times.WriteFile(filepath.Join(opts.OutputDir, StatsFileName)); err != nil {
			return err
		}
	}
	if err = b.renderTemplate(cmakeTemplate, "CMakeLists.txt"); err != nil {
		return err
	}
	if opts.Language == targets.Python {
		if err = b.renderTemplate(initTemplate, "__init__.py"); err != nil {
			return err
		}
	}
	if err = b.writeConfig(); err != nil {
		return err
	}

	if opts.Target == targets.Host {
		klog.Infof("success, now you can build the %q folder", opts.OutputDir)
	} else {
		klog.Infof("success, now copy the %q folder to your %s machine and build it there",
			opts.OutputDir, opts.Target)
	}
	return nil
}

// writeConfig writes the optional JSON config file recording the wrapped
// model and predict function names. A no-op unless Config was set.
func (b *Builder) writeConfig() error {
	if b.Config == nil || b.ConfigFileName == "" {
		return nil
	}
	cfg := maps.Clone(b.Config)
	cfg["model"] = b.Options.ModuleName
	cfg["func"] = b.Options.ModuleName + "_" + b.FuncName
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	outputPath := filepath.Join(b.Options.OutputDir, filepath.Base(b.ConfigFileName))
	klog.Infof("creating config file: %q", outputPath)
	if err = os.WriteFile(outputPath, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, "failed to write config file %q", outputPath)
	}
	return nil
}
