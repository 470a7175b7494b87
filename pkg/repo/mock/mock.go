package mock

import (
	"net/http"
	"net/http/httptest"
	"path"
	"runtime"
	"testing"
	"time"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/progress"
	"github.com/foomo/itemmodel/requests"
)

// FlowID flow every ok mock document contains
const FlowID = "deploy"

// GetMockData serves the flow documents next to this file and returns a var dir
func GetMockData(tb testing.TB) (*httptest.Server, string) {
	tb.Helper()
	_, filename, _, _ := runtime.Caller(0)
	mockDir := path.Dir(filename)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(time.Millisecond * 50)
		mockFilename := path.Join(mockDir, req.URL.Path[1:])
		http.ServeFile(w, req, mockFilename)
	}))
	tb.Cleanup(server.Close)

	return server, tb.TempDir()
}

// MakeItemInteractionsRequest a request for two items of the deploy flow
func MakeItemInteractionsRequest() *requests.ItemInteractions {
	return &requests.ItemInteractions{
		FlowID:  FlowID,
		ItemIDs: []string{"app_upload", "app_download"},
	}
}

// MakeUpdateProgressRequest a request driving app_download to completion
func MakeUpdateProgressRequest() *requests.UpdateProgress {
	id := item.MustID("app_download")
	return &requests.UpdateProgress{
		FlowID: FlowID,
		Updates: []progress.UpdateAndID{
			{ItemID: id, Update: progress.UpdateLimit(progress.Steps(2)), MsgUpdate: progress.MsgSet("downloading")},
			{ItemID: id, Update: progress.UpdateDelta(progress.Tick()), MsgUpdate: progress.MsgNoChange()},
			{ItemID: id, Update: progress.UpdateComplete(progress.CompleteSuccess), MsgUpdate: progress.MsgSet("done")},
		},
	}
}
