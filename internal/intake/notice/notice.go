// Package notice holds the single transient message shown to the operator
// after an action. A new notice replaces the old one; each dismisses itself
// after a fixed delay.
package notice

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notice struct {
	Kind Kind
	Text string
}

// Center keeps the current notice. Listeners are called synchronously on
// Show and on dismissal with the visible notice, or nil once it is gone.
type Center struct {
	mu         sync.Mutex
	ttl        time.Duration
	current    *Notice
	timer      *time.Timer
	generation uint64
	listeners  []func(*Notice)
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl}
}

func (c *Center) Success(text string) { c.Show(Notice{Kind: KindSuccess, Text: text}) }

func (c *Center) Error(text string) { c.Show(Notice{Kind: KindError, Text: text}) }

// Show replaces the current notice and restarts the dismissal timer.
func (c *Center) Show(n Notice) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.generation++
	gen := c.generation
	c.current = &n
	c.timer = time.AfterFunc(c.ttl, func() { c.expire(gen) })
	listeners := c.listeners
	c.mu.Unlock()

	notify(listeners, &n)
}

// Current returns the visible notice, if any.
func (c *Center) Current() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notice{}, false
	}
	return *c.current, true
}

// Clear dismisses the current notice immediately.
func (c *Center) Clear() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	hadNotice := c.current != nil
	c.current = nil
	listeners := c.listeners
	c.mu.Unlock()

	if hadNotice {
		notify(listeners, nil)
	}
}

// Subscribe registers fn for every change of the visible notice.
func (c *Center) Subscribe(fn func(*Notice)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	// a newer notice owns the slot now
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.timer = nil
	listeners := c.listeners
	c.mu.Unlock()

	notify(listeners, nil)
}

func notify(listeners []func(*Notice), n *Notice) {
	for _, fn := range listeners {
		fn(n)
	}
}
