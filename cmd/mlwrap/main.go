// mlwrap generates a compilable CMake project that wraps a pre-trained model
// so it can be invoked from a Python extension module or a C++ header on a
// chosen target platform.
//
// The heavy lifting -- model compilation, optimization and code generation --
// is delegated to the model compiler SDK tools; mlwrap parses the command
// line, drives the tools and assembles the generated project.
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/embml/mlwrap/toolchain"
	"github.com/embml/mlwrap/wrap"
)

func main() {
	defer klog.Flush()
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return
		}
		klog.Errorf("mlwrap failed: %v", err)
		os.Exit(1)
	}
}

// run executes the whole wrap. Every failure, including panics raised by
// plumbing helpers, surfaces here as an error for main to log and exit on.
func run(args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = rErr
			} else {
				err = errors.Errorf("%v", r)
			}
		}
	}()

	fs := flag.NewFlagSet("mlwrap", flag.ContinueOnError)
	opts, err := wrap.ParseFlags(fs, args)
	if err != nil {
		return err
	}

	// Raise klog verbosity with --verbose. klog's own flags are not exposed
	// on the command line -- the option table owns -v.
	if opts.Verbose {
		klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
		klog.InitFlags(klogFlags)
		must.M(klogFlags.Set("v", "1"))
	}

	root, err := toolchain.FindRoot()
	if err != nil {
		return err
	}
	tools, err := toolchain.New(root)
	if err != nil {
		return err
	}
	tools.Verbose = opts.Verbose
	tools.Interactive = term.IsTerminal(os.Stdout.Fd())

	return wrap.NewBuilder(opts, tools).Run()
}
