package entity

// SlotKey identifies one (date, hour) cell of the grid.
type SlotKey struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// TimeSlot is one cell of the availability grid. Available is a set of
// participant names; order is insertion order and carries no meaning.
type TimeSlot struct {
	Date      string   `db:"date" json:"date"`
	Time      string   `db:"time" json:"time"`
	Available []string `db:"-" json:"available"`
}

func (s TimeSlot) Key() SlotKey {
	return SlotKey{Date: s.Date, Time: s.Time}
}

func (s TimeSlot) Has(name string) bool {
	for _, n := range s.Available {
		if n == name {
			return true
		}
	}
	return false
}

func (s TimeSlot) Clone() TimeSlot {
	s.Available = append([]string{}, s.Available...)
	return s
}
