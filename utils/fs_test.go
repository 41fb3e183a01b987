package utils

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemFS struct {
	create func(string) (afero.File, error)
}

func (ffs fakeMemFS) Create(name string) (afero.File, error) {
	if ffs.create != nil {
		return ffs.create(name)
	}

	return os.CreateTemp("", "fakeMemFS-*.file")
}

func (ffs fakeMemFS) Mkdir(name string, perm os.FileMode) error {
	panic("implement me")
}

func (ffs fakeMemFS) MkdirAll(path string, perm os.FileMode) error {
	return errors.New("read-only file system")
}

func (ffs fakeMemFS) Open(name string) (afero.File, error) {
	panic("implement me")
}

func (ffs fakeMemFS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	panic("implement me")
}

func (ffs fakeMemFS) Remove(name string) error {
	panic("implement me")
}

func (ffs fakeMemFS) RemoveAll(path string) error {
	panic("implement me")
}

func (ffs fakeMemFS) Rename(oldname, newname string) error {
	panic("implement me")
}

func (ffs fakeMemFS) Stat(name string) (os.FileInfo, error) {
	panic("implement me")
}

func (ffs fakeMemFS) Name() string {
	panic("implement me")
}

func (ffs fakeMemFS) Chmod(name string, mode os.FileMode) error {
	panic("implement me")
}

func (ffs fakeMemFS) Chown(name string, uid, gid int) error {
	panic("implement me")
}

func (ffs fakeMemFS) Chtimes(name string, atime time.Time, mtime time.Time) error {
	panic("implement me")
}

func TestFs_WriteFile(t *testing.T) {
	testCases := []struct {
		name          string
		memfs         Fs
		filePath      string
		expectedError error
	}{
		{
			name:     "happy path",
			memfs:    NewFs(fakeMemFS{}),
			filePath: "foo",
		},
		{
			name: "sad path: fs.AppFs.Create returns an error",
			memfs: NewFs(fakeMemFS{
				create: func(s string) (file afero.File, e error) {
					return nil, errors.New("cannot create file")
				},
			}),
			filePath:      "foo",
			expectedError: errors.New("unable to open a file: cannot create file"),
		},
		{
			name:          "sad path: parent directory cannot be created",
			memfs:         NewFs(fakeMemFS{}),
			filePath:      "reports/foo",
			expectedError: errors.New("unable to create a directory: read-only file system"),
		},
	}

	for _, tc := range testCases {
		err := tc.memfs.WriteFile(tc.filePath, []byte("report"))
		switch {
		case tc.expectedError != nil:
			assert.Equal(t, tc.expectedError.Error(), err.Error(), tc.name)
		default:
			assert.NoError(t, err, tc.name)
		}
	}
}

func TestFs_WriteFile_CreatesParents(t *testing.T) {
	appFs := afero.NewMemMapFs()
	require.NoError(t, NewFs(appFs).WriteFile("/tmp/reports/2025/tech_update.html", []byte("<html></html>")))

	got, err := afero.ReadFile(appFs, "/tmp/reports/2025/tech_update.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(got))
}
