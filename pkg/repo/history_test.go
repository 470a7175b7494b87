package repo

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

// testClock advances a second on every call
func testClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestHistoryCurrent(t *testing.T) {
	var (
		ctx  = context.Background()
		h    = testHistory(t)
		test = []byte("test")
		b    bytes.Buffer
	)
	require.NoError(t, h.Add(ctx, test))
	require.NoError(t, h.GetCurrent(ctx, &b))
	assert.Equal(t, test, b.Bytes())
}

func TestHistoryCleanup(t *testing.T) {
	ctx := context.Background()
	h := testHistory(t)
	for i := 0; i < 50; i++ {
		require.NoError(t, h.Add(ctx, []byte(fmt.Sprint(i))))
	}

	snapshots, err := h.Snapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 2, "history too long")

	newest, err := h.Get(ctx, snapshots[0].Key)
	require.NoError(t, err)
	assert.Equal(t, "49", string(newest))
}

func TestHistoryOrder(t *testing.T) {
	ctx := context.Background()
	h := testHistoryWithTestdata(t)

	snapshots, err := h.Snapshots(ctx)
	require.NoError(t, err)
	// newest first, keys that are no snapshots are skipped
	require.Len(t, snapshots, 3)
	assert.Equal(t, "itemmodel-flows-20171023T080000.000000000Z.json", snapshots[0].Key)
	assert.Equal(t, "itemmodel-flows-20171022T080000.000000000Z.json", snapshots[1].Key)
	assert.Equal(t, "itemmodel-flows-20171021T080000.000000000Z.json", snapshots[2].Key)
	assert.Equal(t, time.Date(2017, 10, 23, 8, 0, 0, 0, time.UTC), snapshots[0].Time)
}

func TestHistoryGet(t *testing.T) {
	ctx := context.Background()
	h := testHistoryWithTestdata(t)

	data, err := h.Get(ctx, "itemmodel-flows-20171021T080000.000000000Z.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(bytes.TrimSpace(data)))

	for _, key := range []string{CurrentKey, "itemmodel-flows-notes.json", "../go.mod"} {
		_, err = h.Get(ctx, key)
		assert.ErrorIs(t, err, ErrUnknownSnapshot, key)
	}
}

func TestSnapshotKey(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 15, 123, time.FixedZone("CEST", 2*60*60))
	key := snapshotKey(at)
	assert.Equal(t, "itemmodel-flows-20240501T103015.000000123Z.json", key)

	parsed, ok := parseSnapshotKey(key)
	require.True(t, ok)
	assert.True(t, at.Equal(parsed))

	_, ok = parseSnapshotKey(CurrentKey)
	assert.False(t, ok)
}

func TestHistoryWithStorage(t *testing.T) {
	ctx := context.Background()
	storage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithStorage(storage), HistoryWithHistoryLimit(2))
	require.NoError(t, err)

	require.NoError(t, h.Add(ctx, []byte("test-data")))

	var buf bytes.Buffer
	require.NoError(t, h.GetCurrent(ctx, &buf))
	assert.Equal(t, "test-data", buf.String())

	data, err := storage.Read(ctx, CurrentKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("test-data"), data)
}

func TestHistoryWithBlobStorage(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	defer bucket.Close()

	h, err := NewHistory(zaptest.NewLogger(t),
		HistoryWithStorage(NewBlobStorageFromBucket(bucket, "test-prefix")),
		HistoryWithHistoryLimit(2),
		HistoryWithClock(testClock()),
	)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		require.NoError(t, h.Add(ctx, []byte(fmt.Sprintf("data-%d", i))))
	}

	var buf bytes.Buffer
	require.NoError(t, h.GetCurrent(ctx, &buf))
	assert.Equal(t, "data-5", buf.String())

	snapshots, err := h.Snapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshots, 2, "should only keep historyLimit snapshots")

	// everything lives below the prefix
	exists, err := bucket.Exists(ctx, "test-prefix/"+CurrentKey)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestHistorySQLite(t *testing.T) {
	ctx := context.Background()
	storage, err := NewSQLiteStorage(ctx, SQLiteURLPrefix+":memory:")
	require.NoError(t, err)

	h, err := NewHistory(zaptest.NewLogger(t),
		HistoryWithStorage(storage),
		HistoryWithHistoryLimit(3),
		HistoryWithClock(testClock()),
	)
	require.NoError(t, err)
	defer h.Close()

	for i := 0; i < 4; i++ {
		require.NoError(t, h.Add(ctx, []byte(fmt.Sprint(i))))
	}

	snapshots, err := h.Snapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[0].Time.After(snapshots[1].Time))

	newest, err := h.Get(ctx, snapshots[0].Key)
	require.NoError(t, err)
	assert.Equal(t, "3", string(newest))
}

func TestHistoryClose(t *testing.T) {
	h := testHistory(t)
	require.NoError(t, h.Close())
}

func testHistory(t *testing.T) *History {
	t.Helper()
	h, err := NewHistory(zaptest.NewLogger(t),
		HistoryWithHistoryLimit(2),
		HistoryWithHistoryDir(t.TempDir()),
		HistoryWithClock(testClock()),
	)
	require.NoError(t, err)
	return h
}

// testHistoryWithTestdata reads the checked in snapshots, never add to it
func testHistoryWithTestdata(t *testing.T) *History {
	t.Helper()
	storage, err := NewFilesystemStorage("testdata/order")
	require.NoError(t, err)
	h, err := NewHistory(zaptest.NewLogger(t), HistoryWithStorage(storage), HistoryWithHistoryLimit(2))
	require.NoError(t, err)
	return h
}
