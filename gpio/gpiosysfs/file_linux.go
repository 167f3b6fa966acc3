package gpiosysfs

import (
	"golang.org/x/sys/unix"
)

// attrFile is one kept-open sysfs attribute file of an exported pin.
type attrFile struct {
	path string
	fd   int
}

func openAttr(path string, mode int) (*attrFile, error) {
	fd, err := unix.Open(path, mode, 0)
	if err != nil {
		return nil, err
	}
	return &attrFile{path: path, fd: fd}, nil
}

// WriteAt0 writes p at the beginning of the attribute, so successive writes
// replace the token instead of appending to it.
func (f *attrFile) WriteAt0(p []byte) (n int, err error) {
	return unix.Pwrite(f.fd, p, 0)
}

// ReadAt0 reads from the beginning of the attribute.
func (f *attrFile) ReadAt0(p []byte) (n int, err error) {
	return unix.Pread(f.fd, p, 0)
}

func (f *attrFile) Close() error {
	return unix.Close(f.fd)
}
