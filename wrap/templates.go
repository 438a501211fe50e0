package wrap

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/embml/mlwrap/targets"
)

// Template placeholders substituted into the generated project files.
// The CMakeLists templates live under <SDK root>/templates.
const (
	cmakeTemplateFmt       = "CMakeLists.%s.txt.in"
	moduleInitTemplateName = "__init__.py.in"
)

// replacer builds the placeholder substitution applied to every project
// template.
func (b *Builder) replacer() *strings.Replacer {
	shellType := "UNIX"
	if b.Options.Target == targets.Host && runtime.GOOS == "windows" {
		shellType = "WINDOWS"
	}
	return strings.NewReplacer(
		"@MLWRAP_outdir@", filepath.Base(b.Options.OutputDir),
		"@MLWRAP_model@", b.Options.ModelFileBase,
		"@MLWRAP_model_name@", b.Options.ModuleName,
		"@Arch@", b.Options.Target.String(),
		"@OBJECT_EXTENSION@", b.Options.Target.ObjExt(),
		"@MLWRAP_ROOT@", filepath.ToSlash(filepath.Join(b.Tools.Root(), "external")),
		"@SHELL_TYPE@", shellType,
	)
}

// renderTemplate reads templateFile, substitutes the placeholders and writes
// the result as outputName inside the output directory.
func (b *Builder) renderTemplate(templateFile, outputName string) error {
	data, err := os.ReadFile(templateFile)
	if err != nil {
		return errors.Wrapf(err, "failed to read template %q", templateFile)
	}
	rendered := b.replacer().Replace(string(data))
	outputPath := filepath.Join(b.Options.OutputDir, outputName)
	if err = os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %q", outputPath)
	}
	return nil
}
