// pkg/mrsh/io.go
package mrsh

import "io"

// countingReader counts the bytes read through it and reports each read
type countingReader struct {
	r      io.Reader
	n      uint64
	onRead func(n int)
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.n += uint64(n)
		if cr.onRead != nil {
			cr.onRead(n)
		}
	}
	return n, err
}
