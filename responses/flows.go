package responses

// FlowSummary - size of a loaded flow
type FlowSummary struct {
	ID                string `json:"id"`
	NumberOfItems     int    `json:"numberOfItems"`
	NumberOfLocations int    `json:"numberOfLocations"`
	Complete          bool   `json:"complete"`
}
