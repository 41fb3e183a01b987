package utils

import (
	"context"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// DownloadToTempFile fetches src (a local path, an http(s) URL or any other
// go-getter source) into a new temporary file and returns its path. The caller
// removes the file.
func DownloadToTempFile(ctx context.Context, src string) (string, error) {
	f, err := os.CreateTemp("", "tooltime-*"+filepath.Ext(src))
	if err != nil {
		return "", xerrors.Errorf("failed to create a temp file: %w", err)
	}
	dst := f.Name()
	if err = f.Close(); err != nil {
		return "", xerrors.Errorf("close error: %w", err)
	}

	pwd, err := os.Getwd()
	if err != nil {
		return "", xerrors.Errorf("unable to get the current dir: %w", err)
	}

	client := &getter.Client{
		Ctx:     ctx,
		Src:     src,
		Dst:     dst,
		Pwd:     pwd,
		Getters: getter.Getters,
		Mode:    getter.ClientModeFile,
	}
	if err = client.Get(); err != nil {
		_ = os.Remove(dst)
		return "", xerrors.Errorf("download error: %w", err)
	}

	log.Debugf("Downloaded %s to %s", src, dst)
	return dst, nil
}
