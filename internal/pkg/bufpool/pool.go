package bufpool

import (
	"io"
	"sync"
)

const blockSize = 256 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		val := make([]byte, blockSize)
		return &val
	},
}

func GetBuffer() *[]byte {
	return bufferPool.Get().(*[]byte)
}

func PutBuffer(b *[]byte) {
	bufferPool.Put(b)
}

// Copy is io.CopyBuffer backed by a pooled buffer.
func Copy(dst io.Writer, src io.Reader) (int64, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)
	return io.CopyBuffer(dst, src, *buf)
}
