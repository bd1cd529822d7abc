// Package gpiomock simulates the GPIO character device driver in memory so
// code written against the gpio syscalls can be tested without hardware.
package gpiomock

import (
	"sync"

	"github.com/BertoldVdb/go-libgpio/linux-pio/gpio"
	"golang.org/x/sys/unix"
)

// Sim holds a set of simulated chips and the descriptors opened on them.
// It implements the same methods as gpio.Syscalls and is safe for concurrent use.
type Sim struct {
	// RevertOnRelease makes output lines fall back to their pull level when
	// their handle is closed. By default the last driven level is kept.
	RevertOnRelease bool

	// When non-zero these are returned by the matching ioctl
	LineHandleErr unix.Errno
	LineValuesErr unix.Errno

	// CloseErr is returned by Close. The descriptor is released regardless,
	// as the kernel does.
	CloseErr unix.Errno

	mutex  sync.Mutex
	chips  map[string]*Chip
	fds    map[int]*descriptor
	nextFd int
	opened int
	closed int
}

// Chip is one simulated gpiochip device
type Chip struct {
	sim   *Sim
	lines []line
}

type line struct {
	pull      bool
	level     bool
	requested bool
	hogged    bool
	flags     gpio.RequestFlag
	consumer  string
}

type descriptor struct {
	chip *Chip

	/* nil for a chip descriptor */
	offsets []uint32
}

// New returns an empty simulator
func New() *Sim {
	return &Sim{
		chips:  make(map[string]*Chip),
		fds:    make(map[int]*descriptor),
		nextFd: 3,
	}
}

// AddChip creates a chip reachable at path with numLines lines, all low
func (s *Sim) AddChip(path string, numLines int) *Chip {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c := &Chip{
		sim:   s,
		lines: make([]line, numLines),
	}
	s.chips[path] = c
	return c
}

func (s *Sim) allocFd(d *descriptor) int {
	fd := s.nextFd
	s.nextFd++
	s.fds[fd] = d
	s.opened++
	return fd
}

func (s *Sim) Open(path string) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.chips[path]
	if !ok {
		return -1, unix.ENOENT
	}

	return s.allocFd(&descriptor{chip: c}), nil
}

func (s *Sim) GetLineHandle(fd int, req *gpio.HandleRequest) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	d, ok := s.fds[fd]
	if !ok {
		return unix.EBADF
	}
	if d.offsets != nil {
		return unix.ENOTTY
	}
	if s.LineHandleErr != 0 {
		return s.LineHandleErr
	}

	if req.Lines == 0 || req.Lines > gpio.MaxLines {
		return unix.EINVAL
	}

	flags := gpio.RequestFlag(req.Flags)
	dir := flags & (gpio.RequestInput | gpio.RequestOutput)
	if dir == gpio.RequestInput|gpio.RequestOutput {
		return unix.EINVAL
	}

	c := d.chip
	offsets := make([]uint32, req.Lines)
	seen := make(map[uint32]bool, req.Lines)
	for i := range offsets {
		off := req.LineOffsets[i]
		if off >= uint32(len(c.lines)) {
			return unix.EINVAL
		}
		if c.lines[off].requested || c.lines[off].hogged || seen[off] {
			return unix.EBUSY
		}
		seen[off] = true
		offsets[i] = off
	}

	label := req.Label()
	for i, off := range offsets {
		l := &c.lines[off]
		l.requested = true
		l.flags = flags
		l.consumer = label
		if dir == gpio.RequestOutput {
			l.level = req.DefaultValues[i] != 0
		}
	}

	req.Fd = int32(s.allocFd(&descriptor{chip: c, offsets: offsets}))
	return nil
}

func (s *Sim) GetLineValues(fd int, data *gpio.HandleData) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	d, ok := s.fds[fd]
	if !ok {
		return unix.EBADF
	}
	if d.offsets == nil {
		return unix.ENOTTY
	}
	if s.LineValuesErr != 0 {
		return s.LineValuesErr
	}

	for i, off := range d.offsets {
		data.Values[i] = 0
		if d.chip.lines[off].level {
			data.Values[i] = 1
		}
	}
	return nil
}

func (s *Sim) Close(fd int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	d, ok := s.fds[fd]
	if !ok {
		return unix.EBADF
	}

	for _, off := range d.offsets {
		l := &d.chip.lines[off]
		if s.RevertOnRelease && l.flags&gpio.RequestOutput != 0 {
			l.level = l.pull
		}
		l.requested = false
	}

	delete(s.fds, fd)
	s.closed++

	if s.CloseErr != 0 {
		return s.CloseErr
	}
	return nil
}

// OpenDescriptors returns the number of descriptors that are currently open
func (s *Sim) OpenDescriptors() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.fds)
}

// Opened returns how many descriptors were ever handed out
func (s *Sim) Opened() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.opened
}

// Closed returns how many descriptors were closed
func (s *Sim) Closed() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.closed
}

func (c *Chip) NumLines() int {
	return len(c.lines)
}

// Level returns the current level of a line
func (c *Chip) Level(offset int) bool {
	c.sim.mutex.Lock()
	defer c.sim.mutex.Unlock()
	return c.lines[offset].level
}

// SetPull changes the externally applied level. Lines not driven as an output
// follow it immediately.
func (c *Chip) SetPull(offset int, high bool) {
	c.sim.mutex.Lock()
	defer c.sim.mutex.Unlock()

	l := &c.lines[offset]
	l.pull = high
	if !(l.requested && l.flags&gpio.RequestOutput != 0) {
		l.level = high
	}
}

// Hog marks a line as owned by another consumer, so requests for it fail with EBUSY
func (c *Chip) Hog(offset int, consumer string) {
	c.sim.mutex.Lock()
	defer c.sim.mutex.Unlock()

	c.lines[offset].hogged = true
	c.lines[offset].consumer = consumer
}

// Requested reports whether a handle for the line is currently open
func (c *Chip) Requested(offset int) bool {
	c.sim.mutex.Lock()
	defer c.sim.mutex.Unlock()
	return c.lines[offset].requested
}

// Consumer returns the label of the last request for the line
func (c *Chip) Consumer(offset int) string {
	c.sim.mutex.Lock()
	defer c.sim.mutex.Unlock()
	return c.lines[offset].consumer
}

// Flags returns the flags of the last request for the line
func (c *Chip) Flags(offset int) gpio.RequestFlag {
	c.sim.mutex.Lock()
	defer c.sim.mutex.Unlock()
	return c.lines[offset].flags
}
