// Package carousel cycles the hero background images.
//
// Rotation is a pure schedule: given a time it tells which image is showing.
// Carousel is the mounted component that advances on a ticker and reports
// each change; it owns its index and goroutine and releases both on Unmount.
package carousel

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNoImages        = errors.New("carousel: no images")
	ErrInvalidInterval = errors.New("carousel: interval must be positive")
	ErrAlreadyMounted  = errors.New("carousel: already mounted")
)

// Rotation maps wall-clock time to a hero image.
type Rotation struct {
	images   []string
	interval time.Duration
	epoch    time.Time
}

// NewRotation builds a schedule that shows images[0] at epoch and advances
// one image per interval, wrapping around.
func NewRotation(images []string, interval time.Duration, epoch time.Time) (Rotation, error) {
	if len(images) == 0 {
		return Rotation{}, ErrNoImages
	}
	if interval <= 0 {
		return Rotation{}, ErrInvalidInterval
	}
	return Rotation{
		images:   append([]string(nil), images...),
		interval: interval,
		epoch:    epoch,
	}, nil
}

// At returns the index and image showing at t.
func (r Rotation) At(t time.Time) (int, string) {
	d := t.Sub(r.epoch)
	steps := int64(d / r.interval)
	if d < 0 && d%r.interval != 0 {
		steps--
	}
	n := int64(len(r.images))
	idx := int(((steps % n) + n) % n)
	return idx, r.images[idx]
}

func (r Rotation) Images() []string {
	return append([]string(nil), r.images...)
}

func (r Rotation) Interval() time.Duration {
	return r.interval
}

// ChangeFunc is called with the new index and image after every advance.
type ChangeFunc func(index int, image string)

// Carousel advances through its images while mounted.
type Carousel struct {
	images   []string
	interval time.Duration

	mu     sync.Mutex
	index  int
	cancel context.CancelFunc
	done   chan struct{}
}

func New(images []string, interval time.Duration) (*Carousel, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Carousel{
		images:   append([]string(nil), images...),
		interval: interval,
	}, nil
}

// Mount starts cycling. It returns immediately; onChange runs on the
// carousel's goroutine. Cancelling ctx has the same effect as Unmount
// except that it does not wait.
func (c *Carousel) Mount(ctx context.Context, onChange ChangeFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return ErrAlreadyMounted
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				idx, img := c.Next()
				if onChange != nil {
					onChange(idx, img)
				}
			}
		}
	}()

	return nil
}

// Unmount stops cycling and waits for the goroutine to exit. The index is
// reset so a later Mount starts from the first image again.
func (c *Carousel) Unmount() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	c.mu.Lock()
	c.index = 0
	c.mu.Unlock()
}

// Current returns the showing index and image.
func (c *Carousel) Current() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index, c.images[c.index]
}

// Next advances to the following image, wrapping around.
func (c *Carousel) Next() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = (c.index + 1) % len(c.images)
	return c.index, c.images[c.index]
}
