package gpio

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Syscalls talks to the GPIO character device driver of the running kernel.
// Errors are returned as unix.Errno so callers can inspect them.
type Syscalls struct{}

func (Syscalls) Open(path string) (int, error) {
	return unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
}

func (Syscalls) GetLineHandle(fd int, req *HandleRequest) error {
	return ioctlPtr(fd, gpioGetLinehandleIoctl, unsafe.Pointer(req))
}

func (Syscalls) GetLineValues(fd int, data *HandleData) error {
	return ioctlPtr(fd, gpiohandleGetLineValuesIoctl, unsafe.Pointer(data))
}

func (Syscalls) Close(fd int) error {
	return unix.Close(fd)
}

func ioctlPtr(fd int, function uintptr, data unsafe.Pointer) error {
	_, _, errNo := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(fd),
		function,
		uintptr(data),
	)
	if errNo != 0 {
		return errNo
	}

	return nil
}
