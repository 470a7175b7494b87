package progress

import (
	"github.com/foomo/itemmodel/item"
)

// UpdateKind discriminates Update
type UpdateKind string

const (
	UpdateKindReset          UpdateKind = "reset"
	UpdateKindResetToPending UpdateKind = "reset_to_pending"
	UpdateKindQueued         UpdateKind = "queued"
	UpdateKindInterrupt      UpdateKind = "interrupt"
	UpdateKindLimit          UpdateKind = "limit"
	UpdateKindDelta          UpdateKind = "delta"
	UpdateKindComplete       UpdateKind = "complete"
)

// Delta units of work done since the last update
type Delta struct {
	Inc uint64 `json:"inc"`
}

// Tick one unit of work
func Tick() Delta {
	return Delta{Inc: 1}
}

// Inc n units of work
func Inc(n uint64) Delta {
	return Delta{Inc: n}
}

// Update a change to an item's progress
type Update struct {
	Kind     UpdateKind `json:"kind"`
	Limit    *Limit     `json:"limit,omitempty"`
	Delta    *Delta     `json:"delta,omitempty"`
	Complete Complete   `json:"complete,omitempty"`
}

func UpdateReset() Update {
	return Update{Kind: UpdateKindReset}
}

func UpdateResetToPending() Update {
	return Update{Kind: UpdateKindResetToPending}
}

func UpdateQueued() Update {
	return Update{Kind: UpdateKindQueued}
}

func UpdateInterrupt() Update {
	return Update{Kind: UpdateKindInterrupt}
}

func UpdateLimit(l Limit) Update {
	return Update{Kind: UpdateKindLimit, Limit: &l}
}

func UpdateDelta(d Delta) Update {
	return Update{Kind: UpdateKindDelta, Delta: &d}
}

func UpdateComplete(c Complete) Update {
	return Update{Kind: UpdateKindComplete, Complete: c}
}

// MsgUpdateKind discriminates MsgUpdate
type MsgUpdateKind string

const (
	MsgUpdateKindNoChange MsgUpdateKind = "no_change"
	MsgUpdateKindClear    MsgUpdateKind = "clear"
	MsgUpdateKindSet      MsgUpdateKind = "set"
)

// MsgUpdate a change to the message shown with an item's progress
type MsgUpdate struct {
	Kind MsgUpdateKind `json:"kind"`
	Msg  string        `json:"msg,omitempty"`
}

func MsgNoChange() MsgUpdate {
	return MsgUpdate{Kind: MsgUpdateKindNoChange}
}

func MsgClear() MsgUpdate {
	return MsgUpdate{Kind: MsgUpdateKindClear}
}

func MsgSet(msg string) MsgUpdate {
	return MsgUpdate{Kind: MsgUpdateKindSet, Msg: msg}
}

// msgFrom sets the message when one is given
func msgFrom(msg string) MsgUpdate {
	if msg == "" {
		return MsgNoChange()
	}
	return MsgSet(msg)
}

// UpdateAndID an update addressed to an item
type UpdateAndID struct {
	ItemID    item.ID   `json:"item_id"`
	Update    Update    `json:"update"`
	MsgUpdate MsgUpdate `json:"msg_update"`
}
