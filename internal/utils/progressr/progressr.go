package progressr

import (
	"io"
	"sync/atomic"
)

// Counter aggregates bytes read through any number of Readers.
type Counter struct {
	total    int64
	current  atomic.Int64
	onUpdate func(done, total int64)
}

// NewCounter creates a counter for total bytes. onUpdate, if set, is called
// after every read and may be called concurrently.
func NewCounter(total int64, onUpdate func(done, total int64)) *Counter {
	return &Counter{
		total:    total,
		onUpdate: onUpdate,
	}
}

// Add records n bytes that were transferred without going through a Reader.
func (c *Counter) Add(n int64) {
	done := c.current.Add(n)
	if c.onUpdate != nil {
		c.onUpdate(done, c.total)
	}
}

// Wrap returns a Reader that reports into c.
func (c *Counter) Wrap(reader io.Reader) *Reader {
	return &Reader{Reader: reader, counter: c}
}

type Reader struct {
	io.Reader
	counter *Counter
}

func (p *Reader) Read(b []byte) (int, error) {
	n, err := p.Reader.Read(b)
	if n > 0 {
		p.counter.Add(int64(n))
	}
	return n, err
}
