package repo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/foomo/itemmodel/item"
	"github.com/foomo/itemmodel/pkg/flowdoc"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/foomo/itemmodel/pkg/metrics"
	"github.com/foomo/itemmodel/pkg/progress"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrUpdateRejected = errors.New("update rejected: queue full")

type (
	updateResponse struct {
		runID       string
		repoRuntime int64
		err         error
	}
	flowUpdate struct {
		FlowID           string
		ItemInteractions *locations.ItemInteractions
	}
)

func (r *Repo) PollRoutine(ctx context.Context) error {
	l := r.l.Named("routine.poll")
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			chanReponse := make(chan updateResponse)
			r.updateInProgressChannel <- chanReponse
			response := <-chanReponse
			if response.err == nil {
				l.Info("update success", zap.String("revision", r.pollVersion))
			} else {
				l.Error("update failed", zap.Error(response.err))
			}
		}
	}
}

func (r *Repo) UpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.update")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case resChan := <-r.updateInProgressChannel:
			start := time.Now()
			runID := uuid.New().String()
			l := l.With(zap.String("run_id", runID))

			l.Info("update started")

			repoRuntime, err := r.update(context.WithoutCancel(ctx))
			if err != nil {
				l.Error("update failed", zap.Error(err))
				metrics.UpdatesFailedCounter.WithLabelValues().Inc()
			} else {
				if !r.Loaded() {
					r.loaded.Store(true)
					l.Info("initial update success")
					if r.onLoaded != nil {
						r.onLoaded()
					}
				} else {
					l.Info("update success")
				}
				metrics.UpdatesCompletedCounter.WithLabelValues().Inc()
			}

			resChan <- updateResponse{
				runID:       runID,
				repoRuntime: repoRuntime,
				err:         err,
			}

			metrics.UpdateDuration.WithLabelValues().Observe(time.Since(start).Seconds())
		}
	}
}

func (r *Repo) FlowUpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.flowUpdate")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled",
				zap.Error(ctx.Err()),
			)
			return nil
		case newFlow := <-r.flowUpdateChannel:
			l.Debug("received a new flow", zap.String("flow", newFlow.FlowID))

			err := r._updateFlow(newFlow.FlowID, newFlow.ItemInteractions)
			if err != nil {
				l.Debug("update failed", zap.Error(err))
			}
			r.flowUpdateDoneChannel <- err
		}
	}
}

// ProgressRoutine marks items of all flows as stalled when they stop reporting progress
func (r *Repo) ProgressRoutine(ctx context.Context) error {
	l := r.l.Named("routine.progress")
	interval := r.stallThreshold / 2
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			for id, f := range r.Directory() {
				if n := f.Progress.Stall(); n > 0 {
					l.Info("items stalled", zap.String("flow", id), zap.Int("count", n))
				}
			}
		}
	}
}

func (r *Repo) updateFlow(flowID string, itemInteractions *locations.ItemInteractions) error {
	r.l.Debug("trying to push flow into update channel", zap.String("flow", flowID), zap.Int("items", itemInteractions.Len()))
	r.flowUpdateChannel <- &flowUpdate{
		FlowID:           flowID,
		ItemInteractions: itemInteractions,
	}
	r.l.Debug("waiting for done signal")
	return <-r.flowUpdateDoneChannel
}

// do not call directly, but only through channel
func (r *Repo) _updateFlow(flowID string, itemInteractions *locations.ItemInteractions) error {
	if err := itemInteractions.Validate(); err != nil {
		return errors.Wrapf(err, "update flow %q failed", flowID)
	}

	// copy old datastructure to prevent concurrent map access
	// collect other flows in the directory
	var (
		previous     = r.Directory()[flowID]
		newDirectory = make(map[string]*Flow, len(r.Directory())+1)
	)
	for id, f := range r.Directory() {
		if id != flowID {
			newDirectory[id] = f
		}
	}

	newDirectory[flowID] = newFlow(r.l, flowID, itemInteractions, previous, progress.WithStallThreshold(r.stallThreshold))
	r.SetDirectory(newDirectory)
	return nil
}

func (r *Repo) loadDocument() (*flowdoc.Document, error) {
	doc, err := flowdoc.Decode(r.JSONBufferBytes())
	if err != nil {
		r.l.Error("Failed to deserialize flows", zap.Error(err))
		return nil, errors.Wrap(err, "failed to deserialize flows")
	}
	return doc, nil
}

func (r *Repo) tryToRestoreCurrent(ctx context.Context) error {
	buffer := &bytes.Buffer{}
	err := r.history.GetCurrent(ctx, buffer)
	if err != nil {
		return err
	}
	r.SetJSONBuffer(buffer)
	return r.loadJSONBytes()
}

func (r *Repo) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create get repo request")
	}
	response, err := r.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to get repo")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return errors.Errorf("bad response code from repository %q want %d", response.Status, http.StatusOK)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Wrap(err, "failed to copy IO stream")
	}
	// yaml documents are kept as json
	normalized, err := flowdoc.Normalize(data)
	if err != nil {
		return err
	}
	r.SetJSONBuffer(bytes.NewBuffer(normalized))

	return nil
}

func (r *Repo) update(ctx context.Context) (repoRuntime int64, err error) {
	startTimeRepo := time.Now().UnixNano()

	repoURL := r.url
	if r.poll {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
		if err != nil {
			return repoRuntime, err
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return repoRuntime, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return repoRuntime, errors.New("could not poll latest repo download url - non 200 response")
		}
		responseBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return repoRuntime, errors.New("could not poll latest repo download url, could not read body")
		}
		repoURL = string(bytes.TrimSpace(responseBytes))
		if repoURL == r.pollVersion {
			r.l.Info(
				"repo is up to date",
				zap.String("pollVersion", r.pollVersion),
			)
			// already up to date
			return repoRuntime, nil
		}
		r.l.Info(
			"new repo poll version",
			zap.String("pollVersion", repoURL),
		)
	}

	err = r.get(ctx, repoURL)
	repoRuntime = time.Now().UnixNano() - startTimeRepo
	if err != nil {
		// we have no document to load - the repo server did not reply
		r.l.Debug("failed to load document", zap.Error(err))
		return repoRuntime, err
	}
	r.l.Debug("loading json", zap.String("server", repoURL), zap.Int("length", len(r.JSONBufferBytes())))
	if err := r.loadJSONBytes(); err != nil {
		return repoRuntime, err
	}
	if r.poll {
		r.pollVersion = repoURL
	}
	return repoRuntime, nil
}

// limit ressources and allow only one update request at once
func (r *Repo) tryUpdate() updateResponse {
	c := make(chan updateResponse)
	select {
	case r.updateInProgressChannel <- c:
		r.l.Debug("update request added to queue")
		return <-c
	default:
		r.l.Info("update request rejected, another update is running")
		return updateResponse{err: ErrUpdateRejected}
	}
}

func (r *Repo) loadJSONBytes() error {
	doc, err := r.loadDocument()
	if err != nil {
		data := r.JSONBufferBytes()
		if len(data) > 10 {
			r.l.Debug("could not parse json",
				zap.String("jsonStart", string(data[:10])),
				zap.String("jsonEnd", string(data[len(data)-10:])),
			)
		}
		return err
	}
	return r.loadFlows(doc)
}

func (r *Repo) loadFlows(doc *flowdoc.Document) error {
	var (
		err      error
		newFlows = make(map[string]struct{}, doc.Len())
	)
	doc.Each(func(flowID item.ID, itemInteractions *locations.ItemInteractions) {
		newFlows[flowID.String()] = struct{}{}
		r.l.Debug("loading flow", zap.String("flow", flowID.String()))
		if errLoad := r.updateFlow(flowID.String(), itemInteractions); errLoad != nil {
			err = multierr.Append(err, errLoad)
		}
	})
	if err != nil {
		return errors.Wrap(err, "failed to update flow")
	}
	// we need to throw away orphaned flows
	directory := map[string]*Flow{}
	for flowID, value := range r.Directory() {
		if _, ok := newFlows[flowID]; !ok {
			r.l.Info("removing orphaned flow", zap.String("flow", flowID))
			continue
		}
		directory[flowID] = value
	}
	r.SetDirectory(directory)
	return nil
}
