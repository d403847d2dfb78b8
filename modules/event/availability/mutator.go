package availability

import "meetgrid/modules/event/entity"

// Mutator applies availability changes for one participant at a time.
type Mutator struct {
	store *Store
}

func NewMutator(store *Store) *Mutator {
	return &Mutator{store: store}
}

// ToggleSingle flips participant's membership in the slot at (date, time).
// It does nothing when participant is empty or the slot does not exist.
func (m *Mutator) ToggleSingle(date, time, participant string) bool {
	if participant == "" {
		return false
	}
	slot := m.store.Lookup(date, time)
	if slot == nil {
		return false
	}
	if slot.Has(participant) {
		slot.Available = without(slot.Available, participant)
	} else {
		slot.Available = append(slot.Available, participant)
	}
	return true
}

// ToggleBulk adds participant to (or removes from) every slot in region.
// Slots already in the requested state are left alone. It returns the keys
// of the slots that changed.
func (m *Mutator) ToggleBulk(region []entity.SlotKey, participant string, adding bool) []entity.SlotKey {
	if participant == "" {
		return nil
	}
	var changed []entity.SlotKey
	for _, key := range region {
		slot := m.store.Lookup(key.Date, key.Time)
		if slot == nil {
			continue
		}
		present := slot.Has(participant)
		switch {
		case adding && !present:
			slot.Available = append(slot.Available, participant)
		case !adding && present:
			slot.Available = without(slot.Available, participant)
		default:
			continue
		}
		changed = append(changed, key)
	}
	return changed
}

// Commit applies a finished drag. A one-cell region is a plain toggle, so a
// click and a one-cell drag behave the same; larger regions are applied in
// the selection's mode. An empty region is a no-op.
func (m *Mutator) Commit(sel Selection, participant string) []entity.SlotKey {
	switch len(sel.Region) {
	case 0:
		return nil
	case 1:
		key := sel.Region[0]
		if m.ToggleSingle(key.Date, key.Time, participant) {
			return []entity.SlotKey{key}
		}
		return nil
	default:
		return m.ToggleBulk(sel.Region, participant, sel.Mode == ModeAdd)
	}
}

func without(names []string, name string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
