package transport

import "io"

// ProgressFunc receives the running total of bytes read.
type ProgressFunc func(total int64)

// ProgressReader counts bytes flowing through an io.Reader.
type ProgressReader struct {
	r        io.Reader
	total    int64
	onUpdate ProgressFunc
}

// NewProgressReader wraps r. onUpdate may be nil.
func NewProgressReader(r io.Reader, onUpdate ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, onUpdate: onUpdate}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.total += int64(n)
		if p.onUpdate != nil {
			p.onUpdate(p.total)
		}
	}
	return n, err
}

// Total returns the number of bytes read so far.
func (p *ProgressReader) Total() int64 {
	return p.total
}
