package libgpio

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrPathFormat is returned when the chip device path could not be built
	ErrPathFormat = errors.New("device path could not be constructed")

	// ErrDeviceNotFound is returned when the chip device could not be opened
	ErrDeviceNotFound = errors.New("chip device could not be opened")

	// ErrLineRequest is returned when the kernel refused the line handle request
	ErrLineRequest = errors.New("line handle request failed")

	// ErrRead is returned when the values of an acquired input line could not be read
	ErrRead = errors.New("reading line values failed")
)

// Error describes a failed line operation. Kind is one of the Err* values
// above, Err is the underlying OS error if there was one.
type Error struct {
	Op   string
	Chip int
	Line int
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("libgpio: %s chip %d line %d: %s", e.Op, e.Chip, e.Line, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errno returns the OS error number behind the failure, or 0 if there is none
func (e *Error) Errno() unix.Errno {
	return errnoOf(e.Err)
}

// Code returns the failure as a negative errno style status code
func (e *Error) Code() int {
	switch e.Kind {
	case ErrPathFormat:
		return -int(unix.EINVAL)
	case ErrDeviceNotFound:
		return -int(unix.ENOENT)
	}

	if errno := e.Errno(); errno != 0 {
		return -int(errno)
	}
	return -int(unix.EIO)
}

// Code converts the result of an operation into a status code: 0 for success
// and a negative value otherwise.
func Code(err error) int {
	if err == nil {
		return 0
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return -int(unix.EIO)
}

func errnoOf(err error) unix.Errno {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}
