package toolchain

import (
	"path/filepath"
	"strings"

	"github.com/embml/mlwrap/targets"
)

// Swig runs the interface generator over the .i file the compiler emitted for
// the module, generating the language binding sources in outputDir.
// The defines are the platform preprocessor defines, see targets.Target.SwigDefines.
func (t *Tools) Swig(outputDir, moduleBase string, language targets.Language, defines []string) error {
	swigPath, err := t.Path(SwigTool)
	if err != nil {
		return err
	}
	args := []string{"-" + language.String(), "-c++"}
	if language == targets.Python {
		args = append(args, "-py3")
	}
	args = append(args, defines...)
	args = append(args,
		"-I"+filepath.Join(t.root, "include"),
		"-outdir", outputDir,
		filepath.Join(outputDir, moduleBase+".i"))
	return t.run("swig", swigPath, args)
}

// Opt runs LLVM's opt pass over the emitted bitcode at the given optimization
// level ("1", "2" or "3"), producing a sibling .opt.bc file whose path is
// returned.
func (t *Tools) Opt(codeFile, level string) (string, error) {
	optPath, err := t.Path(OptTool)
	if err != nil {
		return "", err
	}
	outFile := trimExt(codeFile) + ".opt.bc"
	args := []string{codeFile, "-o", outFile, "-O" + level}
	if err = t.run("opt", optPath, args); err != nil {
		return "", err
	}
	return outFile, nil
}

// Llc runs LLVM's llc over the (possibly opt-optimized) bitcode, producing the
// object file for the target platform. objExt is the object file extension
// without the dot. Returns the object file path.
func (t *Tools) Llc(codeFile string, target targets.Target, level, objExt string) (string, error) {
	llcPath, err := t.Path(LlcTool)
	if err != nil {
		return "", err
	}
	outFile := trimExt(codeFile) + "." + objExt
	args := []string{
		codeFile,
		"-o", outFile,
		"-O" + level,
		"-filetype=obj",
		"-relocation-model=pic",
	}
	cg := target.CodeGen()
	if cg.Triple != "" {
		args = append(args, "-mtriple="+cg.Triple)
	}
	if cg.CPU != "" {
		args = append(args, "-mcpu="+cg.CPU)
	}
	if cg.Attrs != "" {
		args = append(args, "-mattr="+cg.Attrs)
	}
	if err = t.run("llc", llcPath, args); err != nil {
		return "", err
	}
	return outFile, nil
}

// trimExt removes all extensions from path: "model.opt.bc" becomes "model".
// Needed so chained passes don't pile up extensions.
func trimExt(path string) string {
	base := filepath.Base(path)
	if idx := strings.IndexByte(base, '.'); idx >= 0 {
		base = base[:idx]
	}
	return filepath.Join(filepath.Dir(path), base)
}
