package gpiomock

import (
	"testing"

	"github.com/BertoldVdb/go-libgpio/linux-pio/gpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func requestLine(t *testing.T, s *Sim, path string, offset uint32, flags gpio.RequestFlag, value uint8) (int, int) {
	fd, err := s.Open(path)
	require.NoError(t, err)

	req := gpio.NewHandleRequest(offset, flags, value, "test")
	require.NoError(t, s.GetLineHandle(fd, &req))
	require.Greater(t, req.Fd, int32(0))

	return fd, int(req.Fd)
}

func TestOpenMissing(t *testing.T) {
	s := New()
	_, err := s.Open("/dev/gpiochip9")
	assert.Equal(t, unix.ENOENT, err)
	assert.Zero(t, s.Opened())
}

func TestDriveAndRead(t *testing.T) {
	s := New()
	c := s.AddChip("/dev/gpiochip0", 8)

	chipFd, lineFd := requestLine(t, s, "/dev/gpiochip0", 5, gpio.RequestOutput, 1)
	assert.True(t, c.Level(5))
	assert.True(t, c.Requested(5))
	assert.Equal(t, "test", c.Consumer(5))
	assert.Equal(t, gpio.RequestOutput, c.Flags(5))

	var data gpio.HandleData
	require.NoError(t, s.GetLineValues(lineFd, &data))
	assert.EqualValues(t, 1, data.Values[0])

	/* Values can't be read from the chip descriptor */
	assert.Equal(t, unix.ENOTTY, s.GetLineValues(chipFd, &data))

	require.NoError(t, s.Close(chipFd))
	require.NoError(t, s.Close(lineFd))
	assert.Equal(t, unix.EBADF, s.Close(lineFd))

	assert.False(t, c.Requested(5))
	assert.True(t, c.Level(5))
	assert.Zero(t, s.OpenDescriptors())
	assert.Equal(t, 2, s.Opened())
	assert.Equal(t, 2, s.Closed())
}

func TestRevertOnRelease(t *testing.T) {
	s := New()
	s.RevertOnRelease = true
	c := s.AddChip("/dev/gpiochip0", 4)

	chipFd, lineFd := requestLine(t, s, "/dev/gpiochip0", 1, gpio.RequestOutput, 1)
	require.NoError(t, s.Close(chipFd))
	assert.True(t, c.Level(1))

	require.NoError(t, s.Close(lineFd))
	assert.False(t, c.Level(1))
}

func TestPullFollowsInput(t *testing.T) {
	s := New()
	c := s.AddChip("/dev/gpiochip0", 4)

	c.SetPull(2, true)
	assert.True(t, c.Level(2))

	/* A driven output ignores the pull */
	chipFd, lineFd := requestLine(t, s, "/dev/gpiochip0", 3, gpio.RequestOutput, 0)
	c.SetPull(3, true)
	assert.False(t, c.Level(3))

	s.Close(chipFd)
	s.Close(lineFd)
}

func TestRequestErrors(t *testing.T) {
	s := New()
	c := s.AddChip("/dev/gpiochip0", 4)
	c.Hog(1, "kernel")

	fd, err := s.Open("/dev/gpiochip0")
	require.NoError(t, err)
	defer s.Close(fd)

	tests := []struct {
		name  string
		req   gpio.HandleRequest
		errno unix.Errno
	}{
		{"out of range", gpio.NewHandleRequest(4, gpio.RequestInput, 0, "t"), unix.EINVAL},
		{"hogged", gpio.NewHandleRequest(1, gpio.RequestInput, 0, "t"), unix.EBUSY},
		{"both directions", gpio.NewHandleRequest(0, gpio.RequestInput|gpio.RequestOutput, 0, "t"), unix.EINVAL},
		{"no lines", gpio.HandleRequest{Flags: uint32(gpio.RequestInput)}, unix.EINVAL},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			assert.Equal(t, tc.errno, s.GetLineHandle(fd, &req))
			assert.Zero(t, req.Fd)
		})
	}

	assert.Equal(t, "kernel", c.Consumer(1))
	assert.Equal(t, 1, s.OpenDescriptors())
}

func TestInjectedErrors(t *testing.T) {
	s := New()
	s.AddChip("/dev/gpiochip0", 4)

	chipFd, lineFd := requestLine(t, s, "/dev/gpiochip0", 0, gpio.RequestInput, 0)

	s.LineValuesErr = unix.EIO
	var data gpio.HandleData
	assert.Equal(t, unix.EIO, s.GetLineValues(lineFd, &data))

	s.LineHandleErr = unix.EPERM
	req := gpio.NewHandleRequest(1, gpio.RequestInput, 0, "t")
	assert.Equal(t, unix.EPERM, s.GetLineHandle(chipFd, &req))

	s.Close(chipFd)
	s.Close(lineFd)
	assert.Zero(t, s.OpenDescriptors())
}

func TestDuplicateOffsets(t *testing.T) {
	s := New()
	c := s.AddChip("/dev/gpiochip0", 4)

	fd, err := s.Open("/dev/gpiochip0")
	require.NoError(t, err)
	defer s.Close(fd)

	req := gpio.NewHandleRequest(1, gpio.RequestInput, 0, "t")
	req.Lines = 2
	req.LineOffsets[1] = 1

	assert.Equal(t, unix.EBUSY, s.GetLineHandle(fd, &req))
	assert.Zero(t, req.Fd)
	assert.False(t, c.Requested(1))
	assert.Equal(t, 1, s.OpenDescriptors())
}

func TestCloseErrReleases(t *testing.T) {
	s := New()
	c := s.AddChip("/dev/gpiochip0", 4)

	chipFd, lineFd := requestLine(t, s, "/dev/gpiochip0", 2, gpio.RequestOutput, 1)

	s.CloseErr = unix.EIO
	assert.Equal(t, unix.EIO, s.Close(chipFd))
	assert.Equal(t, unix.EIO, s.Close(lineFd))

	assert.Zero(t, s.OpenDescriptors())
	assert.False(t, c.Requested(2))
	assert.Equal(t, unix.EBADF, s.Close(lineFd))
}
