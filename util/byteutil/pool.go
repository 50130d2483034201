package byteutil

import (
	"sync"

	"github.com/eluv-io/log-go"
)

// DefaultMaxRetain is the default capacity limit above which buffers are not
// returned to a BufferPool.
const DefaultMaxRetain = 64 * 1024

type Counter interface {
	Add(delta float64)
}

// BufferPool is a pool of scratch Buffers backed by a sync.Pool. Buffers
// retrieved with Get are empty. Buffers released with Put are reset and
// recycled, unless they grew beyond MaxRetain bytes: large buffers are dropped
// so that a single huge value does not pin its memory for the lifetime of the
// pool.
//
// BufferPool is safe for concurrent use.
type BufferPool struct {
	MaxRetain int       // Capacity limit for recycled buffers
	InitSize  int       // Initial capacity of new buffers
	p         sync.Pool // Backing pool
	created   Counter   // Metric for created buffers
	released  Counter   // Metric for buffers released back into the pool
}

// NewBufferPool creates a new pool of buffers with the given initial capacity.
func NewBufferPool(initSize int) *BufferPool {
	p := &BufferPool{
		MaxRetain: DefaultMaxRetain,
		InitSize:  initSize,
	}
	p.p.New = p.new
	return p
}

// Get retrieves an empty buffer from the pool, creating a new one if none is
// available.
func (p *BufferPool) Get() *Buffer {
	buf := p.p.Get().(*Buffer)
	buf.Reset()
	return buf
}

// Put releases the given buffer back into the pool. The caller must not use
// the buffer after calling Put.
func (p *BufferPool) Put(buf *Buffer) {
	if buf == nil {
		return
	}
	if p.MaxRetain > 0 && buf.Cap() > p.MaxRetain {
		log.Debug("buffer not released back into pool", "max_retain", p.MaxRetain, "actual_size", buf.Cap())
		return
	}
	buf.Reset()
	p.p.Put(buf)
	if p.released != nil {
		p.released.Add(1)
	}
}

func (p *BufferPool) SetMetrics(created, released Counter) {
	p.created = created
	p.released = released
}

// Creates a buffer of configured initial size.
func (p *BufferPool) new() interface{} {
	if p.created != nil {
		p.created.Add(1)
	}
	return NewBuffer(p.InitSize)
}
