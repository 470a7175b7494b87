package client

import (
	"context"

	"github.com/foomo/itemmodel/pkg/handler"
	"github.com/foomo/itemmodel/responses"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Transport carries requests to a server, see NewHTTPTransport and NewSocketTransport
type Transport interface {
	call(ctx context.Context, route handler.Route, request interface{}, response interface{}) error
	shutdown()
}

type serverResponse struct {
	Reply interface{}      `json:"reply"`
	Error *responses.Error `json:"error"`
}

// decodeResponse unwraps a reply into response or returns the remote error
func decodeResponse(data []byte, response interface{}) error {
	sr := &serverResponse{Reply: response}
	if err := json.Unmarshal(data, sr); err != nil {
		return err
	}
	if sr.Error != nil {
		return sr.Error
	}
	return nil
}
