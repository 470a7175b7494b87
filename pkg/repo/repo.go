package repo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/foomo/itemmodel/pkg/metrics"
	"github.com/foomo/itemmodel/pkg/progress"
	"github.com/foomo/itemmodel/responses"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrFlowNotFound = errors.New("flow not found")

// Repo flow repository
type (
	Repo struct {
		l                       *zap.Logger
		url                     string
		poll                    bool
		pollInterval            time.Duration
		pollVersion             string
		stallThreshold          time.Duration
		onLoaded                func()
		loaded                  *atomic.Bool
		history                 *History
		httpClient              *http.Client
		flowUpdateChannel       chan *flowUpdate
		flowUpdateDoneChannel   chan error
		updateInProgressChannel chan chan updateResponse
		directory               map[string]*Flow
		directoryLock           sync.RWMutex
		jsonBuffer              *bytes.Buffer
		jsonBufferLock          sync.RWMutex
	}
	Option func(*Repo)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, url string, history *History, opts ...Option) *Repo {
	inst := &Repo{
		l:                       l.Named("repo"),
		url:                     url,
		poll:                    false,
		loaded:                  &atomic.Bool{},
		pollInterval:            time.Minute,
		stallThreshold:          progress.DefaultStallThreshold,
		history:                 history,
		httpClient:              http.DefaultClient,
		directory:               map[string]*Flow{},
		flowUpdateChannel:       make(chan *flowUpdate),
		flowUpdateDoneChannel:   make(chan error),
		updateInProgressChannel: make(chan chan updateResponse),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Repo) {
		o.httpClient = v
	}
}

func WithPoll(v bool) Option {
	return func(o *Repo) {
		o.poll = v
	}
}

func WithPollInterval(v time.Duration) Option {
	return func(o *Repo) {
		o.pollInterval = v
	}
}

// WithStallThreshold time without progress after which running items count as stalled
func WithStallThreshold(v time.Duration) Option {
	return func(o *Repo) {
		o.stallThreshold = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (r *Repo) Loaded() bool {
	return r.loaded.Load()
}

func (r *Repo) Directory() map[string]*Flow {
	r.directoryLock.RLock()
	defer r.directoryLock.RUnlock()
	return r.directory
}

func (r *Repo) SetDirectory(v map[string]*Flow) {
	r.directoryLock.Lock()
	defer r.directoryLock.Unlock()
	r.directory = v
}

func (r *Repo) JSONBufferBytes() []byte {
	r.jsonBufferLock.RLock()
	defer r.jsonBufferLock.RUnlock()
	if r.jsonBuffer == nil {
		return nil
	}
	return r.jsonBuffer.Bytes()
}

func (r *Repo) SetJSONBuffer(v *bytes.Buffer) {
	r.jsonBufferLock.Lock()
	defer r.jsonBufferLock.Unlock()
	r.jsonBuffer = v
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) OnLoaded(fn func()) {
	r.onLoaded = fn
}

// Flows summaries of all flows, sorted by id
func (r *Repo) Flows() []responses.FlowSummary {
	directory := r.Directory()
	ret := make([]responses.FlowSummary, 0, len(directory))
	for _, id := range slices.Sorted(maps.Keys(directory)) {
		f := directory[id]
		ret = append(ret, responses.FlowSummary{
			ID:                id,
			NumberOfItems:     f.NumberOfItems(),
			NumberOfLocations: f.NumberOfLocations(),
			Complete:          f.Progress.Complete(),
		})
	}
	return ret
}

func (r *Repo) GetFlow(flowID string) (*Flow, error) {
	f, ok := r.Directory()[flowID]
	if !ok {
		metrics.InvalidFlowRequests.WithLabelValues().Inc()
		return nil, errors.Wrapf(ErrFlowNotFound, "flow %q", flowID)
	}
	return f, nil
}

func (r *Repo) GetLocationsAndInteractions(flowID string) (*locations.LocationsAndInteractions, error) {
	f, err := r.GetFlow(flowID)
	if err != nil {
		return nil, err
	}
	return f.LocationsAndInteractions, nil
}

func (r *Repo) GetInfoGraph(flowID string) (*infograph.InfoGraph, error) {
	f, err := r.GetFlow(flowID)
	if err != nil {
		return nil, err
	}
	return f.InfoGraph, nil
}

// GetItemInteractions interactions of the requested items in request order,
// all items when none are requested. Unknown items are skipped.
func (r *Repo) GetItemInteractions(flowID string, itemIDs []string) (*locations.ItemInteractions, error) {
	f, err := r.GetFlow(flowID)
	if err != nil {
		return nil, err
	}
	all := f.LocationsAndInteractions.ItemInteractions
	if len(itemIDs) == 0 {
		return all, nil
	}
	ret := locations.NewItemInteractions()
	for _, s := range itemIDs {
		id, err := item.NewID(s)
		if err != nil {
			return nil, err
		}
		interactions, ok := all.Get(id)
		if !ok {
			r.l.Debug("requested item not found", zap.String("flow", flowID), zap.String("item", s))
			continue
		}
		ret.Set(id, interactions)
	}
	return ret, nil
}

func (r *Repo) GetProgress(flowID string) (*responses.Progress, error) {
	f, err := r.GetFlow(flowID)
	if err != nil {
		return nil, err
	}
	return &responses.Progress{
		FlowID:   flowID,
		Trackers: f.Progress.Trackers(),
		Complete: f.Progress.Complete(),
	}, nil
}

// ApplyProgress applies progress updates to the trackers of a flow
func (r *Repo) ApplyProgress(flowID string, updates []progress.UpdateAndID) (*responses.UpdateProgress, error) {
	f, err := r.GetFlow(flowID)
	if err != nil {
		return nil, err
	}
	ret := &responses.UpdateProgress{}
	for _, u := range updates {
		if f.Progress.Apply(u) {
			ret.Applied++
		} else {
			ret.Dropped++
		}
	}
	return ret, nil
}

// WriteRepoBytes writes the whole flow document to the provided writer.
// It serves from the in-memory buffer, falling back to storage only when empty.
// The result is wrapped as service response, e.g: {"reply": <flows>}
func (r *Repo) WriteRepoBytes(ctx context.Context, w io.Writer) error {
	data := r.JSONBufferBytes()

	if len(data) == 0 {
		// Fallback to storage (cold start or not yet loaded)
		var buf bytes.Buffer
		if err := r.history.GetCurrent(ctx, &buf); err != nil {
			return fmt.Errorf("failed to read repo from storage: %w", err)
		}
		data = buf.Bytes()
	}

	if _, err := w.Write([]byte(`{"reply":`)); err != nil {
		return fmt.Errorf("failed to write repo JSON prefix: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write repo JSON data: %w", err)
	}
	if _, err := w.Write([]byte(`}`)); err != nil {
		return fmt.Errorf("failed to write repo JSON suffix: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context) (updateResponse *responses.Update) {
	floatSeconds := func(nanoSeconds int64) float64 {
		return float64(nanoSeconds) / float64(1000000000)
	}

	r.l.Info("Update triggered")

	start := time.Now()
	ur := r.tryUpdate()
	err := ur.err
	updateResponse = &responses.Update{RunID: ur.runID}
	updateResponse.Stats.RepoRuntime = floatSeconds(ur.repoRuntime)

	if err != nil {
		updateResponse.Success = false
		updateResponse.Stats.NumberOfFlows = -1
		updateResponse.Stats.NumberOfItems = -1
		updateResponse.Stats.NumberOfLocations = -1

		// only try to restore if the update failed during processing
		if !errors.Is(err, ErrUpdateRejected) {
			updateResponse.ErrorMessage = err.Error()
			r.l.Error("Failed to update repository", zap.Error(err))

			restoreErr := r.tryToRestoreCurrent(ctx)
			if restoreErr != nil {
				r.l.Error("Failed to restore preceding repository version", zap.Error(restoreErr))
			} else {
				r.l.Info("Successfully restored current repository from history")
			}
		}
	} else {
		updateResponse.Success = true
		// persist the currently loaded one
		historyErr := r.history.Add(ctx, r.JSONBufferBytes())
		if historyErr != nil {
			r.l.Error("Could not persist current repo in history", zap.Error(historyErr))
			metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
		} else {
			r.l.Info("Successfully persisted current repo to history")
		}
		// add some stats
		directory := r.Directory()
		updateResponse.Stats.NumberOfFlows = len(directory)
		for _, f := range directory {
			updateResponse.Stats.NumberOfItems += f.NumberOfItems()
			updateResponse.Stats.NumberOfLocations += f.NumberOfLocations()
		}
		metrics.FlowsGauge.WithLabelValues().Set(float64(updateResponse.Stats.NumberOfFlows))
		metrics.LocationsGauge.WithLabelValues().Set(float64(updateResponse.Stats.NumberOfLocations))
	}
	updateResponse.Stats.OwnRuntime = floatSeconds(time.Since(start).Nanoseconds()) - updateResponse.Stats.RepoRuntime
	return updateResponse
}

func (r *Repo) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	l := r.l.Named("start")

	up := make(chan bool, 1)
	g.Go(func() error {
		l.Debug("starting update routine")
		up <- true
		return r.UpdateRoutine(gCtx)
	})
	l.Debug("waiting for UpdateRoutine")
	<-up

	g.Go(func() error {
		l.Debug("starting flow update routine")
		up <- true
		return r.FlowUpdateRoutine(gCtx)
	})
	l.Debug("waiting for FlowUpdateRoutine")
	<-up

	g.Go(func() error {
		l.Debug("starting progress routine")
		return r.ProgressRoutine(gCtx)
	})

	l.Debug("trying to restore previous repo")
	if err := r.tryToRestoreCurrent(gCtx); errors.Is(err, os.ErrNotExist) {
		l.Info("previous repo content file does not exist")
	} else if err != nil {
		l.Warn("could not restore previous repo content", zap.Error(err))
	} else {
		l.Info("restored previous repo")
	}

	if r.poll {
		g.Go(func() error {
			l.Debug("starting poll routine")
			return r.PollRoutine(gCtx)
		})
	}

	if !r.Loaded() {
		l.Debug("trying to update initial state")
		if resp := r.Update(gCtx); !resp.Success {
			l.Error("failed to update initial state",
				zap.String("error", resp.ErrorMessage),
				zap.Int("num_flows", resp.Stats.NumberOfFlows),
				zap.Int("num_items", resp.Stats.NumberOfItems),
				zap.Float64("own_runtime", resp.Stats.OwnRuntime),
				zap.Float64("repo_runtime", resp.Stats.RepoRuntime),
			)
		}
	}

	return g.Wait()
}
