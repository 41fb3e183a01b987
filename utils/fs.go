package utils

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

type Fs struct {
	AppFs afero.Fs
}

func NewFs(appFs afero.Fs) Fs {
	return Fs{AppFs: appFs}
}

// WriteFile writes data to filePath, creating parent directories as needed.
func (fs Fs) WriteFile(filePath string, data []byte) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := fs.AppFs.MkdirAll(dir, os.ModePerm); err != nil {
			return xerrors.Errorf("unable to create a directory: %w", err)
		}
	}

	f, err := fs.AppFs.Create(filePath)
	if err != nil {
		return xerrors.Errorf("unable to open a file: %w", err)
	}
	defer f.Close()

	if _, err = f.Write(data); err != nil {
		return xerrors.Errorf("failed to save a file: %w", err)
	}
	return nil
}
