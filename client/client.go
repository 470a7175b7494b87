package client

import (
	"context"
	"net/http"

	"github.com/foomo/itemmodel/pkg/flowdoc"
	"github.com/foomo/itemmodel/pkg/handler"
	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/foomo/itemmodel/pkg/progress"
	"github.com/foomo/itemmodel/pkg/utils"
	"github.com/foomo/itemmodel/requests"
	"github.com/foomo/itemmodel/responses"
	"github.com/pkg/errors"
)

var ErrInvalidServerURL = errors.New("invalid server url")

// Client an itemmodel client
type Client struct {
	t Transport
}

// New a client on the given transport
func New(t Transport) *Client {
	return &Client{t: t}
}

// NewHTTPClient a client posting to server, e.g. http://localhost:8080/itemmodel
func NewHTTPClient(server string) (*Client, error) {
	if !utils.IsValidURL(server) {
		return nil, errors.Wrapf(ErrInvalidServerURL, "%q", server)
	}
	return New(NewHTTPTransport(server, http.DefaultClient)), nil
}

// Close releases the connections of the transport
func (c *Client) Close() {
	c.t.shutdown()
}

// Update tell the server to update itself
func (c *Client) Update(ctx context.Context) (*responses.Update, error) {
	response := &responses.Update{}
	if err := c.t.call(ctx, handler.RouteUpdate, &requests.Update{}, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetFlows summaries of all flows
func (c *Client) GetFlows(ctx context.Context) ([]responses.FlowSummary, error) {
	var response []responses.FlowSummary
	if err := c.t.call(ctx, handler.RouteGetFlows, &requests.Flows{}, &response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) GetLocationsAndInteractions(ctx context.Context, flowID string) (*locations.LocationsAndInteractions, error) {
	response := &locations.LocationsAndInteractions{}
	if err := c.t.call(ctx, handler.RouteGetLocationsAndInteractions, &requests.Flow{FlowID: flowID}, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) GetInfoGraph(ctx context.Context, flowID string) (*infograph.InfoGraph, error) {
	response := &infograph.InfoGraph{}
	if err := c.t.call(ctx, handler.RouteGetInfoGraph, &requests.Flow{FlowID: flowID}, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetItemInteractions interactions of the given items, all items when none are given
func (c *Client) GetItemInteractions(ctx context.Context, flowID string, itemIDs ...string) (*locations.ItemInteractions, error) {
	response := locations.NewItemInteractions()
	request := &requests.ItemInteractions{FlowID: flowID, ItemIDs: itemIDs}
	if err := c.t.call(ctx, handler.RouteGetItemInteractions, request, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) GetProgress(ctx context.Context, flowID string) (*responses.Progress, error) {
	response := &responses.Progress{}
	if err := c.t.call(ctx, handler.RouteGetProgress, &requests.Flow{FlowID: flowID}, response); err != nil {
		return nil, err
	}
	return response, nil
}

// UpdateProgress sends progress updates for the items of a flow
func (c *Client) UpdateProgress(ctx context.Context, flowID string, updates ...progress.UpdateAndID) (*responses.UpdateProgress, error) {
	response := &responses.UpdateProgress{}
	request := &requests.UpdateProgress{FlowID: flowID, Updates: updates}
	if err := c.t.call(ctx, handler.RouteUpdateProgress, request, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetRepo the whole flow document
func (c *Client) GetRepo(ctx context.Context) (*flowdoc.Document, error) {
	response := flowdoc.New()
	if err := c.t.call(ctx, handler.RouteGetRepo, &requests.Repo{}, response); err != nil {
		return nil, err
	}
	return response, nil
}
