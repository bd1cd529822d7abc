package libgpio

import "errors"

var errHandleClosed = errors.New("handle was already closed")

// handle is a descriptor owned by exactly one operation. Close releases it
// the first time and returns errHandleClosed afterwards without touching the
// backend again.
type handle struct {
	backend Backend
	fd      int
	path    string
	closed  bool
}

func (h *handle) Close() error {
	if h.closed {
		return errHandleClosed
	}
	h.closed = true

	return h.backend.Close(h.fd)
}
