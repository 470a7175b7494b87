package handler

import (
	"context"
	"time"

	"github.com/foomo/itemmodel/pkg/metrics"
	"github.com/foomo/itemmodel/pkg/repo"
	"github.com/foomo/itemmodel/requests"
	"github.com/foomo/itemmodel/responses"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	sourceWebserver    = "webserver"
	sourceSocketServer = "socketserver"
)

type envelope struct {
	Reply interface{}      `json:"reply,omitempty"`
	Error *responses.Error `json:"error,omitempty"`
}

func handleRequest(ctx context.Context, l *zap.Logger, r *repo.Repo, route Route, jsonBytes []byte, source string) ([]byte, error) {
	start := time.Now()

	reply, err := executeRequest(ctx, l, r, route, jsonBytes)
	result := "success"
	if err != nil {
		result = "error"
	}

	metrics.ServiceRequestCounter.WithLabelValues(string(route), result, source).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(string(route), result, source).Observe(time.Since(start).Seconds())

	return reply, err
}

func executeRequest(ctx context.Context, l *zap.Logger, r *repo.Repo, route Route, jsonBytes []byte) (replyBytes []byte, err error) {
	var (
		reply             interface{}
		apiErr            error
		jsonErr           error
		processIfJSONIsOk = func(err error, processingFunc func()) {
			if err != nil {
				jsonErr = err
				return
			}
			processingFunc()
		}
	)

	// getRepo is written directly in to the http.ResponseWriter / net.Connection
	switch route {
	case RouteGetFlows:
		flowsRequest := &requests.Flows{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &flowsRequest), func() {
			reply = r.Flows()
		})
	case RouteGetLocationsAndInteractions:
		flowRequest := &requests.Flow{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &flowRequest), func() {
			reply, apiErr = r.GetLocationsAndInteractions(flowRequest.FlowID)
		})
	case RouteGetInfoGraph:
		flowRequest := &requests.Flow{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &flowRequest), func() {
			reply, apiErr = r.GetInfoGraph(flowRequest.FlowID)
		})
	case RouteGetItemInteractions:
		itemsRequest := &requests.ItemInteractions{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &itemsRequest), func() {
			reply, apiErr = r.GetItemInteractions(itemsRequest.FlowID, itemsRequest.ItemIDs)
		})
	case RouteGetProgress:
		flowRequest := &requests.Flow{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &flowRequest), func() {
			reply, apiErr = r.GetProgress(flowRequest.FlowID)
		})
	case RouteUpdateProgress:
		progressRequest := &requests.UpdateProgress{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &progressRequest), func() {
			reply, apiErr = r.ApplyProgress(progressRequest.FlowID, progressRequest.Updates)
		})
	case RouteUpdate:
		updateRequest := &requests.Update{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &updateRequest), func() {
			reply = r.Update(ctx)
		})
	default:
		return encodeError(l, responses.NewError(ErrorCodeUnknownRoute, "unknown handler: "+string(route)))
	}

	// error handling
	switch {
	case jsonErr != nil:
		l.Error("could not read incoming json", zap.Error(jsonErr))
		return encodeError(l, responses.NewError(ErrorCodeInvalidJSON, "could not read incoming json "+jsonErr.Error()))
	case errors.Is(apiErr, repo.ErrFlowNotFound):
		l.Debug("flow not found", zap.Error(apiErr))
		return encodeError(l, responses.NewNotFoundError(ErrorCodeNotFound, apiErr.Error()))
	case apiErr != nil:
		l.Error("an API error occurred", zap.Error(apiErr))
		return encodeError(l, responses.NewError(ErrorCodeInternal, "internal error "+apiErr.Error()))
	}

	return encode(l, envelope{Reply: reply})
}

func encodeError(l *zap.Logger, e *responses.Error) ([]byte, error) {
	return encode(l, envelope{Error: e})
}

// encode takes a reply envelope and encodes it as JSON
func encode(l *zap.Logger, e envelope) (bytes []byte, err error) {
	bytes, err = json.Marshal(e)
	if err != nil {
		l.Error("could not encode reply", zap.Error(err))
	}
	return
}
