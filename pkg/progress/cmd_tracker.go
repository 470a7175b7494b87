package progress

import (
	"context"
	"sync"
	"time"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/metrics"
	"go.uber.org/zap"
)

const (
	DefaultStallThreshold = 10 * time.Second
	DefaultBufferSize     = 256
)

type (
	// CmdTracker tracks the progress of every item of a command
	CmdTracker struct {
		l              *zap.Logger
		lock           sync.RWMutex
		ids            []item.ID
		trackers       map[item.ID]*Tracker
		updates        chan UpdateAndID
		closed         chan struct{}
		closeOnce      sync.Once
		stallThreshold time.Duration
		stallInterval  time.Duration
		bufferSize     int
		now            func() time.Time
	}
	CmdTrackerOption func(*CmdTracker)
	// ItemTracker snapshot of one item's tracker
	ItemTracker struct {
		ItemID  item.ID `json:"item_id"`
		Tracker Tracker `json:"tracker"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewCmdTracker(l *zap.Logger, ids []item.ID, opts ...CmdTrackerOption) *CmdTracker {
	inst := &CmdTracker{
		l:              l.Named("progress"),
		trackers:       make(map[item.ID]*Tracker, len(ids)),
		closed:         make(chan struct{}),
		stallThreshold: DefaultStallThreshold,
		bufferSize:     DefaultBufferSize,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.stallInterval <= 0 {
		inst.stallInterval = inst.stallThreshold / 2
	}
	if inst.stallInterval <= 0 {
		inst.stallInterval = time.Second
	}
	inst.updates = make(chan UpdateAndID, inst.bufferSize)

	for _, id := range ids {
		inst.add(id)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithStallThreshold(v time.Duration) CmdTrackerOption {
	return func(o *CmdTracker) {
		o.stallThreshold = v
	}
}

func WithStallInterval(v time.Duration) CmdTrackerOption {
	return func(o *CmdTracker) {
		o.stallInterval = v
	}
}

func WithBufferSize(v int) CmdTrackerOption {
	return func(o *CmdTracker) {
		o.bufferSize = v
	}
}

func WithClock(v func() time.Time) CmdTrackerOption {
	return func(o *CmdTracker) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Sender returns a sender feeding this tracker's update channel
func (c *CmdTracker) Sender(id item.ID) Sender {
	return NewSender(id, c.updates)
}

// Add starts tracking an item, existing trackers are kept
func (c *CmdTracker) Add(id item.ID) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.add(id)
}

// Set replaces an item's tracker, adding the item when it is not tracked yet
func (c *CmdTracker) Set(id item.ID, t Tracker) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.add(id)
	*c.trackers[id] = t
}

// Apply applies an update right away and reports whether a tracker changed
func (c *CmdTracker) Apply(u UpdateAndID) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.apply(u)
}

// Run consumes the update channel until ctx is cancelled or Close is called.
// Updates already buffered when closing are applied before returning.
func (c *CmdTracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.stallInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closed:
			c.drain()
			return nil
		case u := <-c.updates:
			c.Apply(u)
		case <-ticker.C:
			c.Stall()
		}
	}
}

// Stall marks running trackers without recent updates as stalled and
// returns how many were marked
func (c *CmdTracker) Stall() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	var count int
	now := c.now()
	for _, id := range c.ids {
		if c.trackers[id].Stalled(now, c.stallThreshold) {
			c.l.Info("item stalled", zap.String("item", id.String()))
			metrics.ProgressStalledCounter.WithLabelValues().Inc()
			count++
		}
	}
	return count
}

// Close stops Run
func (c *CmdTracker) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// Tracker returns a copy of an item's tracker
func (c *CmdTracker) Tracker(id item.ID) (Tracker, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	t, ok := c.trackers[id]
	if !ok {
		return Tracker{}, false
	}
	return *t, true
}

// Trackers returns copies of all trackers in item order
func (c *CmdTracker) Trackers() []ItemTracker {
	c.lock.RLock()
	defer c.lock.RUnlock()
	ret := make([]ItemTracker, 0, len(c.ids))
	for _, id := range c.ids {
		ret = append(ret, ItemTracker{ItemID: id, Tracker: *c.trackers[id]})
	}
	return ret
}

// Complete whether every tracked item completed
func (c *CmdTracker) Complete() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	for _, t := range c.trackers {
		if !t.Status.IsComplete() {
			return false
		}
	}
	return true
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *CmdTracker) add(id item.ID) {
	if _, ok := c.trackers[id]; ok {
		return
	}
	c.ids = append(c.ids, id)
	c.trackers[id] = NewTracker()
}

func (c *CmdTracker) apply(u UpdateAndID) bool {
	kind := string(u.Update.Kind)
	t, ok := c.trackers[u.ItemID]
	if !ok {
		c.l.Warn("progress update for unknown item", zap.String("item", u.ItemID.String()), zap.String("kind", kind))
		metrics.ProgressUpdateDroppedCounter.WithLabelValues(kind).Inc()
		return false
	}
	if !t.Apply(u.Update, u.MsgUpdate, c.now()) {
		c.l.Debug("progress update ignored", zap.String("item", u.ItemID.String()), zap.String("kind", kind), zap.String("status", string(t.Status)))
		metrics.ProgressUpdateDroppedCounter.WithLabelValues(kind).Inc()
		return false
	}
	metrics.ProgressUpdateCounter.WithLabelValues(kind).Inc()
	if result, ok := t.Status.Complete(); ok {
		c.l.Info("item completed", zap.String("item", u.ItemID.String()), zap.String("result", string(result)))
		metrics.ProgressCompletedCounter.WithLabelValues(string(result)).Inc()
	}
	return true
}

func (c *CmdTracker) drain() {
	for {
		select {
		case u := <-c.updates:
			c.Apply(u)
		default:
			return
		}
	}
}

