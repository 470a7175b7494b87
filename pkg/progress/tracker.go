package progress

import (
	"math"
	"time"
)

// Tracker progress of a single item
type Tracker struct {
	Status       Status    `json:"status"`
	UnitsCurrent uint64    `json:"units_current"`
	Limit        Limit     `json:"limit"`
	Message      string    `json:"message,omitempty"`
	LastUpdate   time.Time `json:"last_update"`
}

func NewTracker() *Tracker {
	return &Tracker{
		Status: StatusInitialized,
		Limit:  Unknown(),
	}
}

// Apply applies the update and reports whether the tracker changed.
// Completed trackers only accept resets.
func (t *Tracker) Apply(u Update, msg MsgUpdate, now time.Time) bool {
	if t.Status.IsComplete() && u.Kind != UpdateKindReset && u.Kind != UpdateKindResetToPending {
		return false
	}

	switch u.Kind {
	case UpdateKindReset:
		t.Status = StatusInitialized
		t.UnitsCurrent = 0
		t.Limit = Unknown()
	case UpdateKindResetToPending:
		t.Status = StatusExecPending
		t.UnitsCurrent = 0
	case UpdateKindQueued:
		t.Status = StatusQueued
	case UpdateKindInterrupt:
		t.Status = StatusInterrupted
	case UpdateKindLimit:
		if u.Limit == nil || !u.Limit.Valid() {
			return false
		}
		t.Limit = *u.Limit
		t.Status = StatusRunning
		t.capUnits()
	case UpdateKindDelta:
		if u.Delta == nil {
			return false
		}
		if u.Delta.Inc > math.MaxUint64-t.UnitsCurrent {
			t.UnitsCurrent = math.MaxUint64
		} else {
			t.UnitsCurrent += u.Delta.Inc
		}
		t.Status = StatusRunning
		t.capUnits()
	case UpdateKindComplete:
		if !u.Complete.Valid() {
			return false
		}
		t.Status = StatusComplete(u.Complete)
		if u.Complete == CompleteSuccess && t.Limit.Known() {
			t.UnitsCurrent = t.Limit.Total
		}
	default:
		return false
	}

	switch msg.Kind {
	case MsgUpdateKindClear:
		t.Message = ""
	case MsgUpdateKindSet:
		t.Message = msg.Msg
	}
	t.LastUpdate = now
	return true
}

// Stalled marks a running tracker as stalled when it has not been updated
// within threshold, it reports whether the status changed
func (t *Tracker) Stalled(now time.Time, threshold time.Duration) bool {
	if t.Status != StatusRunning || now.Sub(t.LastUpdate) < threshold {
		return false
	}
	t.Status = StatusRunningStalled
	return true
}

// Remaining units left to do, false when the limit is unknown
func (t *Tracker) Remaining() (uint64, bool) {
	if !t.Limit.Known() {
		return 0, false
	}
	return t.Limit.Total - t.UnitsCurrent, true
}

// Ratio done units over the limit's total, false when the limit is unknown
func (t *Tracker) Ratio() (float64, bool) {
	if !t.Limit.Known() {
		return 0, false
	}
	if t.Limit.Total == 0 {
		return 1, true
	}
	return float64(t.UnitsCurrent) / float64(t.Limit.Total), true
}

func (t *Tracker) capUnits() {
	if t.Limit.Known() && t.UnitsCurrent > t.Limit.Total {
		t.UnitsCurrent = t.Limit.Total
	}
}
