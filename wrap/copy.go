package wrap

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// copyFiles copies each file of fileList into the output directory, or into
// the given sub-folder of it, creating the directory as needed. A missing
// source file is an error naming the file.
func (b *Builder) copyFiles(fileList []string, folder string) error {
	targetDir := b.Options.OutputDir
	if folder != "" {
		targetDir = filepath.Join(targetDir, folder)
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %q", targetDir)
	}
	for _, path := range fileList {
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			return errors.Errorf("expected file not found: %s", path)
		}
		dest := filepath.Join(targetDir, filepath.Base(path))
		klog.V(1).Infof("copy %q %q", path, dest)
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %q", path)
		}
		if err = os.WriteFile(dest, data, fi.Mode().Perm()); err != nil {
			return errors.Wrapf(err, "failed to copy %q to %q", path, dest)
		}
	}
	return nil
}
