package audio

import (
	"errors"
	"io"
)

// Chunker slices a PCM stream into fixed-size chunks.
type Chunker struct {
	r    io.Reader
	buf  []byte
	done bool
	// Consumed counts the bytes returned so far.
	Consumed int64
}

// NewChunker returns a Chunker yielding size-byte chunks from r. A
// non-positive size selects DefaultChunkBytes.
func NewChunker(r io.Reader, size int) *Chunker {
	if size <= 0 {
		size = DefaultChunkBytes
	}
	return &Chunker{r: r, buf: make([]byte, size)}
}

// Next returns the next chunk. Every chunk except the last is exactly the
// configured size. The returned slice is only valid until the next call.
// At end of stream Next returns io.EOF.
func (c *Chunker) Next() ([]byte, error) {
	if c.done {
		return nil, io.EOF
	}
	n, err := io.ReadFull(c.r, c.buf)
	switch {
	case err == nil:
	case errors.Is(err, io.ErrUnexpectedEOF):
		c.done = true
	case errors.Is(err, io.EOF):
		c.done = true
		return nil, io.EOF
	default:
		c.done = true
		return nil, err
	}
	c.Consumed += int64(n)
	return c.buf[:n], nil
}
