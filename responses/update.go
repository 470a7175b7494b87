package responses

// Update - information about an update
type Update struct {
	// did it work or not
	Success bool `json:"success"`
	// id of the update run, empty when the update was rejected
	RunID string `json:"runId,omitempty"`
	// this is for humans
	ErrorMessage string `json:"errorMessage"`
	Stats        Stats  `json:"stats"`
}
