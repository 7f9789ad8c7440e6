// internal/chunker/pools.go
package chunker

import "sync"

// readBufferPool provides 32KB read buffers so concurrent builds do not
// allocate a fresh buffer per input.
var readBufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 32*1024)
		return &buf
	},
}

// getReadBuffer returns a 32KB buffer from the pool
func getReadBuffer() []byte {
	return *readBufferPool.Get().(*[]byte)
}

// putReadBuffer returns a buffer to the pool
func putReadBuffer(buf []byte) {
	readBufferPool.Put(&buf)
}
