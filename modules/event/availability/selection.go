package availability

import "meetgrid/modules/event/entity"

// Mode is the direction a drag applies to every cell it covers.
type Mode string

const (
	ModeAdd    Mode = "add"
	ModeRemove Mode = "remove"
)

func (m Mode) Valid() bool {
	return m == ModeAdd || m == ModeRemove
}

// Selection is the outcome of a finished drag.
type Selection struct {
	Region []entity.SlotKey
	Mode   Mode
}

// ModeFor decides the drag direction from the anchor cell alone: a drag that
// starts on a cell the participant already marked removes, otherwise it adds.
// The whole rectangle follows that one decision even when other cells differ.
func ModeFor(store *Store, anchor entity.SlotKey, participant string) Mode {
	if store.IsAvailable(anchor, participant) {
		return ModeRemove
	}
	return ModeAdd
}

// Region returns every cell of the rectangle spanned by anchor and current,
// dates outer and hours inner. A zero-length drag yields the single anchor
// cell. If either point is off the grid the region is empty.
func (g Grid) Region(anchor, current entity.SlotKey) []entity.SlotKey {
	d1, d2 := g.dateIndex(anchor.Date), g.dateIndex(current.Date)
	h1, h2 := g.hourIndex(anchor.Time), g.hourIndex(current.Time)
	if d1 < 0 || d2 < 0 || h1 < 0 || h2 < 0 {
		return nil
	}

	minD, maxD := min(d1, d2), max(d1, d2)
	minH, maxH := min(h1, h2), max(h1, h2)

	region := make([]entity.SlotKey, 0, (maxD-minD+1)*(maxH-minH+1))
	for d := minD; d <= maxD; d++ {
		for h := minH; h <= maxH; h++ {
			region = append(region, entity.SlotKey{
				Date: g.Dates[d],
				Time: HourLabel(g.Hours[h]),
			})
		}
	}
	return region
}
