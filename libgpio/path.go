package libgpio

import "fmt"

// MaxPathLength bounds the chip device path, including the terminating NUL
// the kernel interface expects.
const MaxPathLength = 24

// DefaultPrefix is the directory holding the gpiochip devices
const DefaultPrefix = "/dev"

// DevicePath returns the path of chip below prefix, e.g. /dev/gpiochip0.
// It fails with ErrPathFormat if the result does not fit in MaxPathLength.
func DevicePath(prefix string, chip int) (string, error) {
	if chip < 0 {
		return "", ErrPathFormat
	}

	path := fmt.Sprintf("%s/gpiochip%d", prefix, chip)
	if len(path) >= MaxPathLength {
		return "", ErrPathFormat
	}

	return path, nil
}
