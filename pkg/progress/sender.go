package progress

import (
	"context"

	"github.com/foomo/itemmodel/item"
)

// Sender sends progress updates for one item
type Sender struct {
	itemID item.ID
	ch     chan<- UpdateAndID
}

func NewSender(itemID item.ID, ch chan<- UpdateAndID) Sender {
	return Sender{
		itemID: itemID,
		ch:     ch,
	}
}

func (s Sender) ItemID() item.ID {
	return s.itemID
}

// Tick one unit of work was done
func (s Sender) Tick(ctx context.Context, msg string) error {
	return s.send(ctx, UpdateDelta(Tick()), msgFrom(msg))
}

// Inc n units of work were done
func (s Sender) Inc(ctx context.Context, n uint64, msg string) error {
	return s.send(ctx, UpdateDelta(Inc(n)), msgFrom(msg))
}

// Limit sets the total amount of work
func (s Sender) Limit(ctx context.Context, l Limit) error {
	return s.send(ctx, UpdateLimit(l), MsgNoChange())
}

// Complete marks the item's execution as done
func (s Sender) Complete(ctx context.Context, c Complete, msg string) error {
	return s.send(ctx, UpdateComplete(c), msgFrom(msg))
}

// Send sends an update as is, the item id of the update is replaced with the sender's
func (s Sender) Send(ctx context.Context, u UpdateAndID) error {
	return s.send(ctx, u.Update, u.MsgUpdate)
}

func (s Sender) send(ctx context.Context, u Update, msg MsgUpdate) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.ch <- UpdateAndID{ItemID: s.itemID, Update: u, MsgUpdate: msg}:
		return nil
	}
}
