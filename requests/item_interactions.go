package requests

// ItemInteractions - interactions of some items of a flow
type ItemInteractions struct {
	FlowID string `json:"flowId"`
	// empty means all items
	ItemIDs []string `json:"itemIds"`
}
