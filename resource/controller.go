package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when an acquisition would exceed the memory limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MemoryLimitBytes caps accounted heap memory.
	MemoryLimitBytes int64
	// MaxConcurrentLoads caps column loads running at once.
	MaxConcurrentLoads int64
	// IOLimitBytesPerSec caps blob read throughput.
	IOLimitBytesPerSec int64
}

// Controller enforces a Config. It is safe for concurrent use.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted
	memUsed atomic.Int64

	loadSem *semaphore.Weighted
	loads   atomic.Int64

	ioLimiter *rate.Limiter
	ioBytes   atomic.Int64
}

// NewController returns a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.MaxConcurrentLoads > 0 {
		c.loadSem = semaphore.NewWeighted(cfg.MaxConcurrentLoads)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireMemory reserves bytes without blocking.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}
	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns bytes reserved by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the accounted bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured limit, 0 if unlimited.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquireLoad blocks until a load slot is free or ctx is done.
func (c *Controller) AcquireLoad(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.loadSem != nil {
		if err := c.loadSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.loads.Add(1)
	return nil
}

// ReleaseLoad frees a slot taken by AcquireLoad.
func (c *Controller) ReleaseLoad() {
	if c == nil {
		return
	}
	c.loads.Add(-1)
	if c.loadSem != nil {
		c.loadSem.Release(1)
	}
}

// ActiveLoads returns the number of held load slots.
func (c *Controller) ActiveLoads() int64 {
	if c == nil {
		return 0
	}
	return c.loads.Load()
}

// AcquireIO waits until bytes may be read. Requests larger than the bucket
// are split into bucket-sized waits.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil {
		return nil
	}
	c.ioBytes.Add(int64(bytes))
	if c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}

// IOBytes returns the total bytes passed through AcquireIO.
func (c *Controller) IOBytes() int64 {
	if c == nil {
		return 0
	}
	return c.ioBytes.Load()
}
