package requests

// Flow - address a single flow
type Flow struct {
	FlowID string `json:"flowId"`
}
