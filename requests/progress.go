package requests

import (
	"github.com/foomo/itemmodel/pkg/progress"
)

// UpdateProgress - apply progress updates to the items of a flow
type UpdateProgress struct {
	FlowID  string                 `json:"flowId"`
	Updates []progress.UpdateAndID `json:"updates"`
}
