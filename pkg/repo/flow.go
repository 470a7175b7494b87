package repo

import (
	"github.com/foomo/itemmodel/pkg/infograph"
	"github.com/foomo/itemmodel/pkg/locations"
	"github.com/foomo/itemmodel/pkg/progress"
	"go.uber.org/zap"
)

// Flow a loaded flow and everything derived from its item interactions
type Flow struct {
	ID                       string
	LocationsAndInteractions *locations.LocationsAndInteractions
	InfoGraph                *infograph.InfoGraph
	Progress                 *progress.CmdTracker
}

// newFlow builds a flow, trackers of items that were already part of the
// previous version of the flow are carried over
func newFlow(l *zap.Logger, id string, itemInteractions *locations.ItemInteractions, previous *Flow, opts ...progress.CmdTrackerOption) *Flow {
	lai := locations.New(itemInteractions)
	tracker := progress.NewCmdTracker(l.With(zap.String("flow", id)), lai.ItemInteractions.Keys(), opts...)
	if previous != nil {
		for _, it := range previous.Progress.Trackers() {
			if _, ok := lai.ItemInteractions.Get(it.ItemID); ok {
				tracker.Set(it.ItemID, it.Tracker)
			}
		}
	}
	return &Flow{
		ID:                       id,
		LocationsAndInteractions: lai,
		InfoGraph:                infograph.Calculate(lai),
		Progress:                 tracker,
	}
}

func (f *Flow) NumberOfItems() int {
	return f.LocationsAndInteractions.ItemInteractions.Len()
}

func (f *Flow) NumberOfLocations() int {
	return f.LocationsAndInteractions.LocationCount
}
