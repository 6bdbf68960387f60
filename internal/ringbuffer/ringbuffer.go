// Package ringbuffer is a fixed-capacity byte FIFO.
package ringbuffer

import "errors"

type RingBuffer struct {
	buffer []byte
	begin  int
	end    int
	full   bool
}

var (
	ErrBufferIsEmpty = errors.New("buffer is empty")
	ErrBufferIsFull  = errors.New("buffer is full")
)

const (
	defaultBufferSz = 256
)

func New(sz int) *RingBuffer {
	if sz <= 0 {
		sz = defaultBufferSz
	}
	return &RingBuffer{buffer: make([]byte, sz)}
}

// Read drains up to len(p) bytes. It never blocks and returns
// ErrBufferIsEmpty only when nothing was buffered.
func (r *RingBuffer) Read(p []byte) (n int, err error) {
	for n < len(p) {
		b, err := r.ReadByte()
		if err != nil {
			if n == 0 {
				return 0, err
			}
			break
		}
		p[n] = b
		n++
	}
	return n, nil
}

// Write buffers as much of p as fits. A short write reports ErrBufferIsFull.
func (r *RingBuffer) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if err = r.WriteByte(b); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *RingBuffer) WriteString(str string) (n int, err error) {
	return r.Write([]byte(str))
}

func (r *RingBuffer) ReadByte() (byte, error) {
	if r.Len() == 0 {
		return 0, ErrBufferIsEmpty
	}

	b := r.buffer[r.begin]
	r.begin = (r.begin + 1) % len(r.buffer)
	r.full = false
	return b, nil
}

func (r *RingBuffer) WriteByte(b byte) error {
	if r.full {
		return ErrBufferIsFull
	}

	r.buffer[r.end] = b
	r.end = (r.end + 1) % len(r.buffer)

	// Caught up with the reader
	if r.end == r.begin {
		r.full = true
	}
	return nil
}

func (r *RingBuffer) Len() int {
	switch {
	case r.full:
		return len(r.buffer)
	case r.end >= r.begin:
		return r.end - r.begin
	default:
		return len(r.buffer) - r.begin + r.end
	}
}

func (r *RingBuffer) Cap() int {
	return len(r.buffer)
}

func (r *RingBuffer) Reset() {
	r.begin, r.end, r.full = 0, 0, false
}
