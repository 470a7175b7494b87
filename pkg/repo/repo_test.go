package repo

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/foomo/itemmodel/pkg/progress"
	"github.com/foomo/itemmodel/pkg/repo/mock"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func NewTestRepo(ctx context.Context, l *zap.Logger, url, varDir string) *Repo {
	h, err := NewHistory(l, HistoryWithHistoryLimit(2), HistoryWithHistoryDir(varDir))
	if err != nil {
		panic(err)
	}
	r := New(l, url, h)
	go r.Start(ctx) //nolint:errcheck
	time.Sleep(100 * time.Millisecond)
	return r
}

func assertRepoIsEmpty(t *testing.T, r *Repo, empty bool) {
	t.Helper()
	if empty {
		if len(r.Directory()) > 0 {
			t.Fatal("directory should have been empty, but is not")
		}
	} else {
		if len(r.Directory()) == 0 {
			t.Fatal("directory is empty, but should have been not")
		}
	}
}

func getTestRepo(t *testing.T, path string) *Repo {
	t.Helper()
	l := zaptest.NewLogger(t)

	mockServer, varDir := mock.GetMockData(t)
	r := NewTestRepo(t.Context(), l, mockServer.URL+path, varDir)
	response := r.Update(t.Context())
	require.True(t, response.Success, "could not load %s: %s", path, response.ErrorMessage)

	return r
}

func TestLoad404(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/flows-no-have", varDir)
	)

	response := r.Update(t.Context())
	if response.Success {
		t.Fatal("can not get flows, if the server responds with a 404")
	}
	assert.Equal(t, -1, response.Stats.NumberOfFlows)
	assertRepoIsEmpty(t, r, true)
}

func TestLoadBrokenFlows(t *testing.T) {
	for _, path := range []string{"/flows-broken.json", "/flows-invalid-location.json"} {
		t.Run(path, func(t *testing.T) {
			var (
				l                  = zaptest.NewLogger(t)
				mockServer, varDir = mock.GetMockData(t)
				r                  = NewTestRepo(t.Context(), l, mockServer.URL+path, varDir)
			)

			response := r.Update(t.Context())
			require.False(t, response.Success, "how could we load %s", path)
			assert.NotEmpty(t, response.ErrorMessage)
			assertRepoIsEmpty(t, r, true)
		})
	}
}

func TestLoadFlows(t *testing.T) {
	for _, path := range []string{"/flows-ok.json", "/flows-ok.yaml"} {
		t.Run(path, func(t *testing.T) {
			var (
				l                  = zaptest.NewLogger(t)
				mockServer, varDir = mock.GetMockData(t)
				r                  = NewTestRepo(t.Context(), l, mockServer.URL+path, varDir)
			)
			assertRepoIsEmpty(t, r, false)
			assert.True(t, r.Loaded())

			response := r.Update(t.Context())
			require.True(t, response.Success, response.ErrorMessage)
			assert.NotEmpty(t, response.RunID)
			assert.Equal(t, 1, response.Stats.NumberOfFlows)
			assert.Equal(t, 3, response.Stats.NumberOfItems)
			if response.Stats.OwnRuntime > response.Stats.RepoRuntime {
				t.Fatal("how could all take less time, than me alone")
			}
			if response.Stats.RepoRuntime < 0.05 {
				t.Fatal("the server was too fast")
			}

			flows := r.Flows()
			require.Len(t, flows, 1)
			assert.Equal(t, mock.FlowID, flows[0].ID)
			assert.Equal(t, 3, flows[0].NumberOfItems)
			assert.False(t, flows[0].Complete)

			// yaml is kept as json
			assert.Equal(t, byte('{'), r.JSONBufferBytes()[0])
		})
	}
}

func BenchmarkLoadFlows(b *testing.B) {
	var (
		l                  = zaptest.NewLogger(b)
		mockServer, varDir = mock.GetMockData(b)
		r                  = NewTestRepo(b.Context(), l, mockServer.URL+"/flows-ok.json", varDir)
	)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		response := r.Update(b.Context())
		if len(r.Directory()) == 0 {
			b.Fatal("directory is empty, but should have been not")
		}
		if !response.Success {
			b.Fatal("could not load valid flows")
		}
	}
}

func TestFlowHygiene(t *testing.T) {
	l := zaptest.NewLogger(t)

	mockServer, varDir := mock.GetMockData(t)
	r := NewTestRepo(t.Context(), l, mockServer.URL+"/flows-two.json", varDir)

	response := r.Update(t.Context())
	require.True(t, response.Success, "those two flows should be fine")
	assert.Len(t, r.Directory(), 2)

	r.url = mockServer.URL + "/flows-ok.json"
	response = r.Update(t.Context())
	require.True(t, response.Success, "it is called flows ok")

	assert.Lenf(t, r.Directory(), 1, "directory hygiene failed")
	_, err := r.GetFlow("clean")
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestFailedUpdateKeepsFlows(t *testing.T) {
	r := getTestRepo(t, "/flows-ok.json")
	mockServer, _ := mock.GetMockData(t)

	r.url = mockServer.URL + "/flows-broken.json"
	response := r.Update(t.Context())
	require.False(t, response.Success)

	// restored from history
	_, err := r.GetFlow(mock.FlowID)
	require.NoError(t, err)
}

func TestRestoreFromHistory(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/flows-ok.json", varDir)
	)
	assertRepoIsEmpty(t, r, false)

	// same var dir, unreachable flows url
	restored := NewTestRepo(t.Context(), l, mockServer.URL+"/flows-no-have", varDir)
	assertRepoIsEmpty(t, restored, false)
	_, err := restored.GetInfoGraph(mock.FlowID)
	require.NoError(t, err)
}

func TestGetFlow(t *testing.T) {
	r := getTestRepo(t, "/flows-ok.json")

	lai, err := r.GetLocationsAndInteractions(mock.FlowID)
	require.NoError(t, err)
	assert.Len(t, lai.Trees, 3)

	graph, err := r.GetInfoGraph(mock.FlowID)
	require.NoError(t, err)
	_, ok := graph.Hierarchy.Get(infograph.NodeIDFromChain([]item.Location{item.Localhost()}))
	assert.True(t, ok)

	_, err = r.GetInfoGraph("missing")
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestGetItemInteractions(t *testing.T) {
	r := getTestRepo(t, "/flows-ok.json")

	req := mock.MakeItemInteractionsRequest()
	ii, err := r.GetItemInteractions(req.FlowID, req.ItemIDs)
	require.NoError(t, err)
	assert.Equal(t, []item.ID{"app_upload", "app_download"}, ii.Keys())

	all, err := r.GetItemInteractions(req.FlowID, nil)
	require.NoError(t, err)
	assert.Equal(t, []item.ID{"app_download", "app_upload", "app_start"}, all.Keys())

	unknown, err := r.GetItemInteractions(req.FlowID, []string{"app_missing"})
	require.NoError(t, err)
	assert.Equal(t, 0, unknown.Len())

	_, err = r.GetItemInteractions(req.FlowID, []string{"not-an-id"})
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	r := getTestRepo(t, "/flows-ok.json")

	req := mock.MakeUpdateProgressRequest()
	applied, err := r.ApplyProgress(req.FlowID, req.Updates)
	require.NoError(t, err)
	assert.Equal(t, 3, applied.Applied)
	assert.Equal(t, 0, applied.Dropped)

	// completed trackers ignore further updates
	applied, err = r.ApplyProgress(req.FlowID, req.Updates[1:2])
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Dropped)

	p, err := r.GetProgress(req.FlowID)
	require.NoError(t, err)
	assert.False(t, p.Complete)
	require.Len(t, p.Trackers, 3)
	assert.Equal(t, item.ID("app_download"), p.Trackers[0].ItemID)
	assert.Equal(t, progress.StatusCompleteSuccess, p.Trackers[0].Tracker.Status)
	assert.Equal(t, uint64(2), p.Trackers[0].Tracker.UnitsCurrent)
	assert.Equal(t, "done", p.Trackers[0].Tracker.Message)
	assert.Equal(t, progress.StatusInitialized, p.Trackers[1].Tracker.Status)

	// trackers survive a reload of the same flow
	response := r.Update(t.Context())
	require.True(t, response.Success)
	p, err = r.GetProgress(req.FlowID)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleteSuccess, p.Trackers[0].Tracker.Status)

	_, err = r.ApplyProgress("missing", req.Updates)
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestProgressDropsInvalidUpdates(t *testing.T) {
	r := getTestRepo(t, "/flows-ok.json")

	var updates []progress.UpdateAndID
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(`[
		{"item_id":"app_download","update":{"kind":"limit","limit":{"kind":"minutes","total":3}},"msg_update":{"kind":"no_change"}},
		{"item_id":"app_download","update":{"kind":"complete"},"msg_update":{"kind":"no_change"}},
		{"item_id":"app_download","update":{"kind":"complete","complete":"maybe"},"msg_update":{"kind":"no_change"}}
	]`, &updates))

	applied, err := r.ApplyProgress(mock.FlowID, updates)
	require.NoError(t, err)
	assert.Equal(t, 0, applied.Applied)
	assert.Equal(t, 3, applied.Dropped)

	p, err := r.GetProgress(mock.FlowID)
	require.NoError(t, err)
	assert.Equal(t, progress.StatusInitialized, p.Trackers[0].Tracker.Status)
}

func TestWriteRepoBytes(t *testing.T) {
	r := getTestRepo(t, "/flows-ok.yaml")

	var buf bytes.Buffer
	require.NoError(t, r.WriteRepoBytes(t.Context(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(`{"reply":{`)))
	assert.Contains(t, buf.String(), `"app_download"`)
}

func TestWriteRepoBytesRace(t *testing.T) {
	r := getTestRepo(t, "/flows-ok.json")

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
					var buf bytes.Buffer
					_ = r.WriteRepoBytes(ctx, &buf)
				}
			}
		}()
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
					r.SetJSONBuffer(bytes.NewBufferString(`{"deploy":{}}`))
				}
			}
		}()
	}
	wg.Wait()
}
