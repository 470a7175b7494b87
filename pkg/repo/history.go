package repo

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	HistoryFlowsPrefix = "itemmodel-flows-"
	HistoryFlowsSuffix = ".json"
	CurrentKey         = HistoryFlowsPrefix + "current" + HistoryFlowsSuffix

	// fixed width so keys sort by time
	historyTimeFormat = "20060102T150405.000000000Z"
)

var ErrUnknownSnapshot = errors.New("unknown snapshot")

type (
	// History keeps timestamped snapshots of the flow document next to the current one
	History struct {
		l            *zap.Logger
		storage      Storage
		historyDir   string // directory used for default filesystem storage
		historyLimit int
		now          func() time.Time
		mu           sync.RWMutex
	}
	HistoryOption func(*History)
	// Snapshot a stored backup of the flow document
	Snapshot struct {
		Key  string    `json:"key"`
		Time time.Time `json:"time"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func HistoryWithHistoryLimit(v int) HistoryOption {
	return func(o *History) {
		o.historyLimit = v
	}
}

func HistoryWithHistoryDir(v string) HistoryOption {
	return func(o *History) {
		o.historyDir = v
	}
}

func HistoryWithStorage(s Storage) HistoryOption {
	return func(o *History) {
		o.storage = s
	}
}

func HistoryWithClock(v func() time.Time) HistoryOption {
	return func(o *History) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewHistory(l *zap.Logger, opts ...HistoryOption) (*History, error) {
	inst := &History{
		l:            l,
		historyDir:   "/var/lib/itemmodel",
		historyLimit: 2,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.storage == nil {
		storage, err := NewFilesystemStorage(inst.historyDir)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create default filesystem storage")
		}
		inst.storage = storage
	}

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Add stores data as a new snapshot and as the current document, then
// drops the oldest snapshots beyond the history limit
func (h *History) Add(ctx context.Context, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := snapshotKey(h.now())
	if err := h.storage.Write(ctx, key, data); err != nil {
		return errors.Wrapf(err, "failed to write snapshot %s", key)
	}
	if err := h.storage.Write(ctx, CurrentKey, data); err != nil {
		return errors.Wrap(err, "failed to write current flows")
	}
	h.l.Debug("stored flows", zap.String("snapshot", key), zap.Int("size", len(data)))

	return errors.Wrap(h.cleanup(ctx), "failed to clean up history")
}

// GetCurrent reads the current document into buf
func (h *History) GetCurrent(ctx context.Context, buf *bytes.Buffer) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data, err := h.storage.Read(ctx, CurrentKey)
	if err != nil {
		return err
	}
	_, err = buf.Write(data)
	return err
}

// Get reads the snapshot stored under key
func (h *History) Get(ctx context.Context, key string) ([]byte, error) {
	if _, ok := parseSnapshotKey(key); !ok {
		return nil, errors.Wrapf(ErrUnknownSnapshot, "%q", key)
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.storage.Read(ctx, key)
}

// Snapshots all stored snapshots, newest first
func (h *History) Snapshots(ctx context.Context) ([]Snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshots(ctx)
}

// Close releases the storage
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.storage != nil {
		return h.storage.Close()
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *History) snapshots(ctx context.Context) ([]Snapshot, error) {
	keys, err := h.storage.List(ctx, HistoryFlowsPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list snapshots")
	}
	ret := make([]Snapshot, 0, len(keys))
	for _, key := range keys {
		if t, ok := parseSnapshotKey(key); ok {
			ret = append(ret, Snapshot{Key: key, Time: t})
		}
	}
	return ret, nil
}

// cleanup deletes every snapshot beyond the limit, storage lists newest first
func (h *History) cleanup(ctx context.Context) error {
	snapshots, err := h.snapshots(ctx)
	if err != nil || len(snapshots) <= h.historyLimit {
		return err
	}
	for _, s := range snapshots[h.historyLimit:] {
		h.l.Debug("removing outdated snapshot", zap.String("key", s.Key))
		if deleteErr := h.storage.Delete(ctx, s.Key); deleteErr != nil {
			err = multierr.Append(err, errors.Wrapf(deleteErr, "could not remove %s", s.Key))
		}
	}
	return err
}

func snapshotKey(t time.Time) string {
	return HistoryFlowsPrefix + t.UTC().Format(historyTimeFormat) + HistoryFlowsSuffix
}

func parseSnapshotKey(key string) (time.Time, bool) {
	value, ok := strings.CutPrefix(key, HistoryFlowsPrefix)
	if !ok {
		return time.Time{}, false
	}
	value, ok = strings.CutSuffix(value, HistoryFlowsSuffix)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(historyTimeFormat, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
