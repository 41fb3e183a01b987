package dispatch

import (
	"bytes"
	"context"
	"strings"

	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/tooltime/tooltime/utils"
)

type FileSink struct {
	fs utils.Fs
}

func NewFileSink(fs afero.Fs) FileSink {
	return FileSink{fs: utils.NewFs(fs)}
}

// Put writes body to path, gzip-compressed when path ends in ".gz".
func (s FileSink) Put(_ context.Context, path string, body []byte, _ string) error {
	if strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(body); err != nil {
			return &Error{Op: "compress report", Err: err}
		}
		if err := zw.Close(); err != nil {
			return &Error{Op: "compress report", Err: err}
		}
		body = buf.Bytes()
	}

	if err := s.fs.WriteFile(path, body); err != nil {
		return &Error{Op: "write report", Err: err}
	}
	log.Printf("Report written to %s", path)
	return nil
}
