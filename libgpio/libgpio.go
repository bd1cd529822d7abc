// Package libgpio drives and reads single GPIO lines through the Linux GPIO
// character device.
//
// Every call opens the chip, requests the line, and closes all descriptors
// again before it returns. Nothing is kept between calls. What happens to an
// output line once its handle is released is up to the kernel driver: some
// keep the last driven level, others revert the line.
package libgpio

import (
	"math"
	"os"
	"sync"

	"github.com/BertoldVdb/go-libgpio/linux-pio/gpio"
	"github.com/BertoldVdb/go-libgpio/logrusconfig"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// State is the level of a line
type State uint8

const (
	Low  State = 0
	High State = 1
)

func (s State) String() string {
	if s == Low {
		return "low"
	}
	return "high"
}

func (s State) bit() uint8 {
	if s == Low {
		return 0
	}
	return 1
}

type direction int

const (
	input direction = iota
	output
)

func (d direction) flags() gpio.RequestFlag {
	if d == output {
		return gpio.RequestOutput
	}
	return gpio.RequestInput
}

// DefaultConsumer is the label the kernel shows as owner of requested lines
const DefaultConsumer = "LIBGPIO"

// Backend is the set of system calls needed to access a line. gpio.Syscalls
// talks to the kernel, gpiomock.Sim simulates it.
type Backend interface {
	Open(path string) (int, error)
	GetLineHandle(fd int, req *gpio.HandleRequest) error
	GetLineValues(fd int, data *gpio.HandleData) error
	Close(fd int) error
}

// Accessor performs line operations. All fields are optional; the zero value
// uses the kernel devices in /dev and logs warnings to stderr. It holds no
// mutable state and can be shared between goroutines.
type Accessor struct {
	Backend  Backend
	Log      *logrus.Entry
	Prefix   string
	Consumer string
}

var defaultLog = sync.OnceValue(func() *logrus.Entry {
	return logrusconfig.GetLogger(os.Stderr, "libgpio", logrus.WarnLevel)
})

type lineRequest struct {
	chip      int
	line      int
	direction direction
	value     State
	consumer  string
}

func (a *Accessor) backend() Backend {
	if a.Backend == nil {
		return gpio.Syscalls{}
	}
	return a.Backend
}

func (a *Accessor) prefix() string {
	if a.Prefix == "" {
		return DefaultPrefix
	}
	return a.Prefix
}

func (a *Accessor) consumer() string {
	if a.Consumer == "" {
		return DefaultConsumer
	}
	return a.Consumer
}

func (a *Accessor) logger(op string, chip int, line int) *logrus.Entry {
	log := a.Log
	if log == nil {
		log = defaultLog()
	}
	if _, ok := log.Data["prefix"]; !ok {
		log = log.WithField("prefix", "libgpio")
	}

	return log.WithFields(logrus.Fields{
		"op":      op,
		"chip":    chip,
		"line":    line,
		"request": uuid.New().String(),
	})
}

func (a *Accessor) release(log *logrus.Entry, h *handle) {
	if err := h.Close(); err != nil {
		log.WithError(err).Warnf("Error closing fd %d", h.fd)
	}
}

func logSyscallError(log *logrus.Entry, err error) *logrus.Entry {
	log = log.WithError(err)
	if errno := errnoOf(err); errno != 0 {
		log = log.WithField("errno", int(errno))
	}
	return log
}

// openLine returns the line handle for req. The chip descriptor is always
// closed before it returns; the caller owns the returned handle.
func (a *Accessor) openLine(op string, req lineRequest, log *logrus.Entry) (*handle, *logrus.Entry, error) {
	fail := func(kind error, path string, err error) error {
		return &Error{Op: op, Chip: req.chip, Line: req.line, Path: path, Kind: kind, Err: err}
	}

	path, err := DevicePath(a.prefix(), req.chip)
	if err != nil {
		log.Error("Error determining device path")
		return nil, log, fail(ErrPathFormat, "", nil)
	}
	log = log.WithField("path", path)

	if req.line < 0 || uint64(req.line) > math.MaxUint32 {
		log.Error("Line offset out of range")
		return nil, log, fail(ErrLineRequest, path, unix.EINVAL)
	}

	backend := a.backend()
	fd, err := backend.Open(path)
	if err != nil {
		logSyscallError(log, err).Errorf("Error opening file %s", path)
		return nil, log, fail(ErrDeviceNotFound, path, err)
	}
	chip := &handle{backend: backend, fd: fd, path: path}
	defer a.release(log, chip)

	raw := gpio.NewHandleRequest(uint32(req.line), req.direction.flags(), req.value.bit(), req.consumer)
	err = backend.GetLineHandle(fd, &raw)
	if err == nil && raw.Fd <= 0 {
		err = unix.EBADF
	}
	if err != nil {
		logSyscallError(log, err).Error("Error opening line handle")
		return nil, log, fail(ErrLineRequest, path, err)
	}

	return &handle{backend: backend, fd: int(raw.Fd), path: path}, log, nil
}

// SetValue requests line on chip as an output driven to value and releases it again
func (a *Accessor) SetValue(chip int, line int, value State) error {
	log := a.logger("set", chip, line)

	h, log, err := a.openLine("set", lineRequest{
		chip:      chip,
		line:      line,
		direction: output,
		value:     value,
		consumer:  a.consumer(),
	}, log)
	if err != nil {
		return err
	}
	a.release(log, h)

	log.Debugf("Line set %s", value)
	return nil
}

// GetValue requests line on chip as an input and returns its level
func (a *Accessor) GetValue(chip int, line int) (State, error) {
	log := a.logger("get", chip, line)

	h, log, err := a.openLine("get", lineRequest{
		chip:      chip,
		line:      line,
		direction: input,
		consumer:  a.consumer(),
	}, log)
	if err != nil {
		return Low, err
	}
	defer a.release(log, h)

	var data gpio.HandleData
	err = h.backend.GetLineValues(h.fd, &data)
	if err != nil {
		logSyscallError(log, err).Errorf("Error reading data from fd %d", h.fd)
		return Low, &Error{Op: "get", Chip: chip, Line: line, Path: h.path, Kind: ErrRead, Err: err}
	}

	value := Low
	if data.Values[0] != 0 {
		value = High
	}

	log.Debugf("Line reads %s", value)
	return value, nil
}

// SetValue drives a line using the kernel devices in /dev
func SetValue(chip int, line int, value State) error {
	return new(Accessor).SetValue(chip, line, value)
}

// GetValue reads a line using the kernel devices in /dev
func GetValue(chip int, line int) (State, error) {
	return new(Accessor).GetValue(chip, line)
}
