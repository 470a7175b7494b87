package responses

import (
	"github.com/foomo/itemmodel/pkg/progress"
)

// Progress - progress of every item in a flow
type Progress struct {
	FlowID   string                 `json:"flowId"`
	Trackers []progress.ItemTracker `json:"trackers"`
	// every item completed
	Complete bool `json:"complete"`
}

// UpdateProgress - result of applying progress updates
type UpdateProgress struct {
	Applied int `json:"applied"`
	// updates for unknown items or completed trackers
	Dropped int `json:"dropped"`
}
