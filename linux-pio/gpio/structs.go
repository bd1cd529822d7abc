package gpio

import "bytes"

// HandleRequest matches struct gpiohandle_request in linux/gpio.h
type HandleRequest struct {
	LineOffsets   [MaxLines]uint32
	Flags         uint32
	DefaultValues [MaxLines]uint8
	ConsumerLabel [MaxNameSize]byte
	Lines         uint32
	Fd            int32
}

// HandleData matches struct gpiohandle_data in linux/gpio.h
type HandleData struct {
	Values [MaxLines]uint8
}

// NewHandleRequest builds a request for a single line
func NewHandleRequest(offset uint32, flags RequestFlag, defaultValue uint8, label string) HandleRequest {
	req := HandleRequest{
		Flags: uint32(flags),
		Lines: 1,
	}
	req.LineOffsets[0] = offset
	if flags&RequestOutput != 0 {
		req.DefaultValues[0] = defaultValue
	}
	stringToBytes(label, req.ConsumerLabel[:])

	return req
}

// Label returns the consumer label stored in the request
func (r *HandleRequest) Label() string {
	return bytesToString(r.ConsumerLabel[:])
}

func bytesToString(input []byte) string {
	n := bytes.IndexByte(input, 0)
	if n < 0 {
		return string(input)
	}
	return string(input[:n])
}

func stringToBytes(input string, output []byte) {
	n := copy(output, input)

	if n >= len(output) {
		n = len(output) - 1
	}

	// Null terminate string
	output[n] = 0
}
