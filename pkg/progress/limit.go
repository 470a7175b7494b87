// tracks the progress of item executions
package progress

import "fmt"

// LimitKind unit of a progress limit
type LimitKind string

const (
	LimitKindUnknown LimitKind = "unknown"
	LimitKindSteps   LimitKind = "steps"
	LimitKindBytes   LimitKind = "bytes"
)

// Limit total amount of work an item has to do
type Limit struct {
	Kind  LimitKind `json:"kind"`
	Total uint64    `json:"total,omitempty"`
}

// Unknown the amount of work is not known in advance
func Unknown() Limit {
	return Limit{Kind: LimitKindUnknown}
}

// Steps work is done in n discrete steps
func Steps(n uint64) Limit {
	return Limit{Kind: LimitKindSteps, Total: n}
}

// Bytes work is n bytes to transfer
func Bytes(n uint64) Limit {
	return Limit{Kind: LimitKindBytes, Total: n}
}

// Valid whether the limit is of a known kind
func (l Limit) Valid() bool {
	switch l.Kind {
	case LimitKindUnknown, LimitKindSteps, LimitKindBytes:
		return true
	default:
		return false
	}
}

// Known whether the limit carries a total
func (l Limit) Known() bool {
	return l.Kind == LimitKindSteps || l.Kind == LimitKindBytes
}

func (l Limit) String() string {
	if !l.Known() {
		return string(LimitKindUnknown)
	}
	return fmt.Sprintf("%d %s", l.Total, l.Kind)
}
