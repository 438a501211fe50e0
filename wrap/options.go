// Package wrap generates a compilable CMake project wrapping a pre-trained
// model so it can be invoked from a Python extension module or a C++ header on
// a chosen target platform. It parses the command line option table, drives
// the toolchain (model compiler, SWIG, opt, llc) and writes the generated
// project files.
package wrap

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/embml/mlwrap/targets"
)

// Option describes one entry of the command line option table.
type Option struct {
	Name    string // long flag name
	Short   string // short alias, registered as a separate flag
	Default string // default value, as written on the command line
	Help    string

	// Choices restricts the accepted values when non-empty.
	Choices []string

	Bool     bool
	Int      bool
	Required bool
}

// Table is the static option table driving flag registration, one entry per
// command line option of the wrap tool.
var Table = []Option{
	{Name: "model_file", Short: "f", Required: true,
		Help: "path to the model file"},
	{Name: "module_name", Short: "n",
		Help: "the name of the output module (defaults to the model filename)"},
	{Name: "target", Short: "t", Default: "host",
		Help:    "the target platform",
		Choices: targets.TargetStrings()},
	{Name: "language", Short: "l", Default: "python",
		Help:    "the language for the wrapped module",
		Choices: targets.LanguageStrings()},
	{Name: "llvm_format", Short: "if", Default: "bc",
		Help:    "the format of the emitted code (default 'bc')",
		Choices: targets.EmitFormatStrings()},
	{Name: "outdir", Short: "od",
		Help: "the output directory (defaults to the target name)"},
	{Name: "verbose", Short: "v", Bool: true,
		Help: "print verbose output"},
	{Name: "profile", Short: "p", Bool: true,
		Help: "enable profiling functions in the wrapped module"},
	{Name: "blas", Short: "b", Default: "true",
		Help: "enable or disable the use of BLAS on the target device"},
	{Name: "skip_codegen", Short: "skip_codegen", Bool: true,
		Help: "skip the compiler's embedded code generation step"},
	{Name: "no_fuse_linear_ops", Short: "no_fuse_linear_ops", Bool: true,
		Help: "disable the fusing of sequences of linear operations"},
	{Name: "no_optimize_reorder", Short: "no_optimize_reorder", Bool: true,
		Help: "disable the optimization of reorder data nodes"},
	{Name: "no_opt_tool", Short: "no_opt_tool", Bool: true,
		Help: "disable the use of LLVM's opt tool"},
	{Name: "no_llc_tool", Short: "no_llc_tool", Bool: true,
		Help: "disable the use of LLVM's llc tool"},
	{Name: "no_optimize", Short: "no_opt", Bool: true,
		Help: "disable the model compiler from optimizing emitted code"},
	{Name: "no_parallelize", Short: "no_par", Bool: true,
		Help: "disable the model compiler from parallelizing emitted code. Only meaningful when optimization is enabled"},
	{Name: "no_vectorize", Short: "no_vec", Bool: true,
		Help: "disable the model compiler from generating vectorized code. Only meaningful when optimization is enabled"},
	{Name: "optimization_level", Short: "ol", Default: "3",
		Help:    "the optimization level used by LLVM's opt and llc tools. If '0' or 'g', opt is not run (default '3')",
		Choices: []string{"0", "1", "2", "3", "g"}},
	{Name: "debug", Short: "dbg", Bool: true,
		Help: "emit debug code"},
	{Name: "global_value_alignment", Short: "gva", Default: "32", Int: true,
		Help: "the number of bytes to align global buffers to"},
	{Name: "stats", Short: "stats", Bool: true,
		Help: "write compiler performance stats to '" + StatsFileName + "'"},
}

// Options is the configuration parsed from the command line.
type Options struct {
	ModelFile     string
	ModelFileBase string // model file name without directory and extension
	ModuleName    string

	Target   targets.Target
	Language targets.Language
	Format   targets.EmitFormat

	OutputDir string

	Verbose bool
	Profile bool
	BLAS    bool
	Debug   bool
	Stats   bool

	SkipCodegen     bool
	FuseLinearOps   bool
	OptimizeReorder bool
	Optimize        bool
	Parallelize     bool
	Vectorize       bool

	UseOptTool        bool
	UseLlcTool        bool
	OptimizationLevel string

	GlobalValueAlignment int

	// PassThrough holds every token after "--", handed verbatim to the
	// model compiler invocation.
	PassThrough []string
}

// Swig reports whether the interface generator runs for the chosen language.
func (o *Options) Swig() bool {
	return o.Language != targets.Cpp
}

// Header reports whether the compiler should emit a C++ header instead of a
// SWIG interface.
func (o *Options) Header() bool {
	return o.Language == targets.Cpp
}

// SplitPassThrough splits args at the first "--" separator. Tokens after it
// are excluded from flag parsing and passed verbatim to the compiler.
func SplitPassThrough(args []string) (flagArgs, passThrough []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

// tableValues holds the destinations of the registered flags, keyed by the
// option's long name.
type tableValues struct {
	strs  map[string]*string
	bools map[string]*bool
	ints  map[string]*int
}

// registerTable registers every Table entry on fs, under both its long name
// and its short alias.
func registerTable(fs *flag.FlagSet) *tableValues {
	vals := &tableValues{
		strs:  make(map[string]*string),
		bools: make(map[string]*bool),
		ints:  make(map[string]*int),
	}
	for _, opt := range Table {
		names := []string{opt.Name}
		if opt.Short != opt.Name {
			names = append(names, opt.Short)
		}
		switch {
		case opt.Bool:
			p := new(bool)
			vals.bools[opt.Name] = p
			for _, name := range names {
				fs.BoolVar(p, name, false, opt.Help)
			}
		case opt.Int:
			p := new(int)
			vals.ints[opt.Name] = p
			def, err := strconv.Atoi(opt.Default)
			if err != nil {
				panic(errors.Wrapf(err, "option table entry %q has non-integer default %q", opt.Name, opt.Default))
			}
			for _, name := range names {
				fs.IntVar(p, name, def, opt.Help)
			}
		default:
			p := new(string)
			vals.strs[opt.Name] = p
			for _, name := range names {
				fs.StringVar(p, name, opt.Default, opt.Help)
			}
		}
	}
	return vals
}

// ParseFlags registers the option table on fs, parses args (honoring the "--"
// pass-through separator) and returns the validated configuration.
//
// fs may carry extra flags registered by the caller (e.g. logging flags); they
// are parsed but otherwise ignored here.
func ParseFlags(fs *flag.FlagSet, args []string) (*Options, error) {
	flagArgs, passThrough := SplitPassThrough(args)
	vals := registerTable(fs)
	if fs.Usage == nil {
		fs.Usage = func() { PrintUsage(fs) }
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}

	// Enforce declared choices.
	for _, opt := range Table {
		if len(opt.Choices) == 0 {
			continue
		}
		got := *vals.strs[opt.Name]
		found := false
		for _, choice := range opt.Choices {
			if got == choice {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Errorf("invalid value %q for --%s: must be one of %s",
				got, opt.Name, strings.Join(opt.Choices, ", "))
		}
	}

	opts := &Options{PassThrough: passThrough}
	opts.ModelFile = *vals.strs["model_file"]
	if opts.ModelFile == "" {
		return nil, errors.New("the required flag --model_file was not given")
	}
	base := filepath.Base(opts.ModelFile)
	opts.ModelFileBase = strings.TrimSuffix(base, filepath.Ext(base))
	opts.ModuleName = *vals.strs["module_name"]
	if opts.ModuleName == "" {
		opts.ModuleName = strings.ReplaceAll(opts.ModelFileBase, "-", "_")
	}

	var err error
	if opts.Target, err = targets.TargetString(*vals.strs["target"]); err != nil {
		return nil, errors.Wrap(err, "invalid --target")
	}
	if opts.Language, err = targets.LanguageString(*vals.strs["language"]); err != nil {
		return nil, errors.Wrap(err, "invalid --language")
	}
	if opts.Format, err = targets.EmitFormatString(*vals.strs["llvm_format"]); err != nil {
		return nil, errors.Wrap(err, "invalid --llvm_format")
	}

	opts.OutputDir = *vals.strs["outdir"]
	if opts.OutputDir == "" {
		opts.OutputDir = opts.Target.String()
	}
	if err = checkOutputDir(opts.OutputDir); err != nil {
		return nil, err
	}

	opts.Verbose = *vals.bools["verbose"]
	opts.Profile = *vals.bools["profile"]
	opts.Debug = *vals.bools["debug"]
	opts.Stats = *vals.bools["stats"]
	opts.SkipCodegen = *vals.bools["skip_codegen"]
	opts.BLAS = ParseStringBool(*vals.strs["blas"])

	opts.FuseLinearOps = !*vals.bools["no_fuse_linear_ops"]
	opts.OptimizeReorder = !*vals.bools["no_optimize_reorder"]
	opts.Optimize = !*vals.bools["no_optimize"]
	opts.Parallelize = opts.Optimize && !*vals.bools["no_parallelize"]
	opts.Vectorize = opts.Optimize && !*vals.bools["no_vectorize"]

	opts.OptimizationLevel = *vals.strs["optimization_level"]
	opts.UseOptTool = !*vals.bools["no_opt_tool"] &&
		opts.OptimizationLevel != "0" && opts.OptimizationLevel != "g"
	opts.UseLlcTool = !*vals.bools["no_llc_tool"]

	opts.GlobalValueAlignment = *vals.ints["global_value_alignment"]
	return opts, nil
}

// checkOutputDir rejects output directories colliding with existing files: a
// regular file of the same name, or a same-named Python module next to it that
// an import of the generated package would shadow.
func checkOutputDir(dir string) error {
	if fi, err := os.Stat(dir); err == nil && fi.Mode().IsRegular() {
		return errors.Errorf("the output directory %q collides with an existing file of the same name", dir)
	}
	if fi, err := os.Stat(dir + ".py"); err == nil && fi.Mode().IsRegular() {
		return errors.Errorf("you have a python module named %q, which will conflict with the output directory %q; please specify a different --outdir", dir+".py", dir)
	}
	return nil
}

// ParseStringBool interprets the loose boolean syntax of the --blas flag:
// "yes", "true", "t" and "1" (case-insensitive) are true, anything else false.
func ParseStringBool(v string) bool {
	switch strings.ToLower(v) {
	case "yes", "true", "t", "1":
		return true
	}
	return false
}

// PrintUsage writes the tool usage, including the "--" pass-through separator
// the flag package doesn't know about.
func PrintUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, `Usage: mlwrap [flags] [-- <compiler args>]

mlwrap wraps a given model in a CMake buildable project that builds a language
specific module that can invoke the model on a given target platform.

Supported languages: %s
Supported target platforms: %s

Flags:
`, strings.Join(targets.LanguageStrings(), ", "), strings.Join(targets.TargetStrings(), ", "))
	fs.PrintDefaults()
	fmt.Fprintln(out, "  --\n    \teverything after '--' is passed to the model compiler")
}
