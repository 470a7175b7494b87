package handler

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Route type
type Route string

const (
	// RouteGetFlows summaries of all loaded flows
	RouteGetFlows Route = "getFlows"
	// RouteGetLocationsAndInteractions location forest and interactions of a flow
	RouteGetLocationsAndInteractions Route = "getLocationsAndInteractions"
	// RouteGetInfoGraph diagram of a flow
	RouteGetInfoGraph Route = "getInfoGraph"
	// RouteGetItemInteractions interactions of some items of a flow
	RouteGetItemInteractions Route = "getItemInteractions"
	// RouteGetProgress progress trackers of a flow
	RouteGetProgress Route = "getProgress"
	// RouteUpdateProgress apply progress updates
	RouteUpdateProgress Route = "updateProgress"
	// RouteUpdate update repo
	RouteUpdate Route = "update"
	// RouteGetRepo get the whole flow document
	RouteGetRepo Route = "getRepo"
)

// error codes of responses.Error
const (
	ErrorCodeUnknownRoute  = 1
	ErrorCodeInvalidJSON   = 2
	ErrorCodeInternal      = 3
	ErrorCodeInvalidHeader = 4
	ErrorCodeNotFound      = 5
)
