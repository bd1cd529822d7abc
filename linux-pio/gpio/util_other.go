//go:build unix && !linux

package gpio

import "golang.org/x/sys/unix"

// Syscalls fails every call on systems without the GPIO character device
type Syscalls struct{}

func (Syscalls) Open(path string) (int, error) {
	return -1, unix.ENOSYS
}

func (Syscalls) GetLineHandle(fd int, req *HandleRequest) error {
	return unix.ENOSYS
}

func (Syscalls) GetLineValues(fd int, data *HandleData) error {
	return unix.ENOSYS
}

func (Syscalls) Close(fd int) error {
	return unix.ENOSYS
}
