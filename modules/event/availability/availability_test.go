package availability

import (
	"testing"

	"meetgrid/modules/event/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoDays = []string{"2026-01-25", "2026-01-26"}

func key(date, time string) entity.SlotKey {
	return entity.SlotKey{Date: date, Time: time}
}

func newGrid(t *testing.T, dates []string, start, end int) ([]entity.TimeSlot, *Store, Grid) {
	t.Helper()
	slots := Generate(dates, start, end)
	return slots, NewStore(slots), Grid{Dates: dates, Hours: Hours(start, end)}
}

func TestGenerate(t *testing.T) {
	slots := Generate(twoDays, 9, 11)

	require.Len(t, slots, 4)
	assert.Equal(t, key("2026-01-25", "09:00"), slots[0].Key())
	assert.Equal(t, key("2026-01-25", "10:00"), slots[1].Key())
	assert.Equal(t, key("2026-01-26", "09:00"), slots[2].Key())
	assert.Equal(t, key("2026-01-26", "10:00"), slots[3].Key())
	for _, s := range slots {
		assert.Empty(t, s.Available)
	}
}

func TestGenerateCoversEveryPairOnce(t *testing.T) {
	tests := []struct {
		name       string
		dates      []string
		start, end int
	}{
		{"one day one hour", []string{"2026-01-25"}, 9, 10},
		{"two days", twoDays, 9, 17},
		{"full day", []string{"2026-03-01", "2026-03-02", "2026-03-03"}, 0, 23},
		{"late evening", []string{"2026-12-31"}, 20, 23},
		{"non contiguous dates", []string{"2026-02-01", "2026-02-14", "2026-06-30"}, 8, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Generate(tt.dates, tt.start, tt.end)
			require.Len(t, slots, len(tt.dates)*(tt.end-tt.start))

			seen := make(map[entity.SlotKey]int, len(slots))
			for _, s := range slots {
				seen[s.Key()]++
			}
			for _, d := range tt.dates {
				for h := tt.start; h < tt.end; h++ {
					assert.Equal(t, 1, seen[key(d, HourLabel(h))], "%s %s", d, HourLabel(h))
				}
			}
			assert.Len(t, seen, len(slots))
		})
	}
}

func TestGenerateEmptyRange(t *testing.T) {
	assert.Empty(t, Generate(twoDays, 10, 10))
	assert.Empty(t, Generate(nil, 9, 17))
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 9, false},
		{"23:00", 23, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09:30", 0, true},
		{"ab:00", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHour(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, HourLabel(got))
		})
	}
}

func TestLookup(t *testing.T) {
	_, store, _ := newGrid(t, twoDays, 9, 11)

	slot := store.Lookup("2026-01-26", "10:00")
	require.NotNil(t, slot)
	assert.Equal(t, "2026-01-26", slot.Date)

	assert.Nil(t, store.Lookup("2026-01-27", "10:00"))
	assert.Nil(t, store.Lookup("2026-01-26", "11:00"))
}

func TestToggleSingleRoundTrip(t *testing.T) {
	slots, store, _ := newGrid(t, twoDays, 9, 11)
	m := NewMutator(store)

	assert.True(t, m.ToggleSingle("2026-01-25", "09:00", "Alice"))
	assert.Equal(t, []string{"Alice"}, slots[0].Available)

	assert.True(t, m.ToggleSingle("2026-01-25", "09:00", "Alice"))
	assert.Empty(t, slots[0].Available)
}

func TestToggleSingleNoOps(t *testing.T) {
	slots, store, _ := newGrid(t, twoDays, 9, 11)
	m := NewMutator(store)

	assert.False(t, m.ToggleSingle("2026-01-25", "09:00", ""))
	assert.False(t, m.ToggleSingle("2030-01-01", "09:00", "Alice"))
	for _, s := range slots {
		assert.Empty(t, s.Available)
	}
}

func TestToggleBulkRoundTrip(t *testing.T) {
	slots, store, grid := newGrid(t, twoDays, 9, 11)
	m := NewMutator(store)
	region := grid.Region(key("2026-01-25", "09:00"), key("2026-01-26", "10:00"))

	changed := m.ToggleBulk(region, "Bob", true)
	assert.Len(t, changed, 4)
	for _, s := range slots {
		assert.Equal(t, []string{"Bob"}, s.Available)
	}

	// Adding again changes nothing and never duplicates.
	assert.Empty(t, m.ToggleBulk(region, "Bob", true))
	for _, s := range slots {
		assert.Equal(t, []string{"Bob"}, s.Available)
	}

	changed = m.ToggleBulk(region, "Bob", false)
	assert.Len(t, changed, 4)
	for _, s := range slots {
		assert.Empty(t, s.Available)
	}
}

func TestToggleBulkOnlyTouchesParticipant(t *testing.T) {
	slots, store, grid := newGrid(t, twoDays, 9, 11)
	m := NewMutator(store)
	m.ToggleSingle("2026-01-25", "09:00", "Carol")

	region := grid.Region(key("2026-01-25", "09:00"), key("2026-01-25", "10:00"))
	m.ToggleBulk(region, "Alice", true)
	m.ToggleBulk(region, "Alice", false)

	assert.Equal(t, []string{"Carol"}, slots[0].Available)
	assert.Empty(t, slots[1].Available)
}

func TestRegion(t *testing.T) {
	_, _, grid := newGrid(t, []string{"2026-01-25", "2026-01-26", "2026-01-27"}, 9, 13)

	t.Run("single cell", func(t *testing.T) {
		r := grid.Region(key("2026-01-26", "10:00"), key("2026-01-26", "10:00"))
		assert.Equal(t, []entity.SlotKey{key("2026-01-26", "10:00")}, r)
	})

	t.Run("reversed corners", func(t *testing.T) {
		r := grid.Region(key("2026-01-27", "11:00"), key("2026-01-26", "10:00"))
		assert.Equal(t, []entity.SlotKey{
			key("2026-01-26", "10:00"),
			key("2026-01-26", "11:00"),
			key("2026-01-27", "10:00"),
			key("2026-01-27", "11:00"),
		}, r)
	})

	t.Run("off grid", func(t *testing.T) {
		assert.Empty(t, grid.Region(key("2026-01-25", "09:00"), key("2026-02-01", "09:00")))
		assert.Empty(t, grid.Region(key("2026-01-25", "08:00"), key("2026-01-25", "09:00")))
	})
}

func TestModeFor(t *testing.T) {
	_, store, _ := newGrid(t, twoDays, 9, 11)
	NewMutator(store).ToggleSingle("2026-01-25", "09:00", "Alice")

	assert.Equal(t, ModeRemove, ModeFor(store, key("2026-01-25", "09:00"), "Alice"))
	assert.Equal(t, ModeAdd, ModeFor(store, key("2026-01-25", "10:00"), "Alice"))
	assert.Equal(t, ModeAdd, ModeFor(store, key("2026-01-25", "09:00"), "Bob"))
	assert.Equal(t, ModeAdd, ModeFor(store, key("2030-01-01", "09:00"), "Alice"))
}

func TestDragAddThenRemove(t *testing.T) {
	slots, store, grid := newGrid(t, twoDays, 9, 11)
	m := NewMutator(store)

	g := NewGesture(grid)
	g.Press(store, key("2026-01-25", "09:00"), "Alice")
	g.Enter(key("2026-01-26", "10:00"))
	assert.Equal(t, GestureDragging, g.State())
	assert.Len(t, g.Pending(), 4)

	sel, ok := g.Release()
	require.True(t, ok)
	assert.Equal(t, ModeAdd, sel.Mode)
	assert.Len(t, m.Commit(sel, "Alice"), 4)
	for _, s := range slots {
		assert.Equal(t, []string{"Alice"}, s.Available)
	}

	g.Press(store, key("2026-01-25", "09:00"), "Alice")
	g.Enter(key("2026-01-26", "10:00"))
	sel, ok = g.Release()
	require.True(t, ok)
	assert.Equal(t, ModeRemove, sel.Mode)
	m.Commit(sel, "Alice")
	for _, s := range slots {
		assert.Empty(t, s.Available)
	}
}

func TestDragModeFollowsAnchorOnly(t *testing.T) {
	slots, store, grid := newGrid(t, twoDays, 9, 11)
	m := NewMutator(store)
	m.ToggleSingle("2026-01-25", "09:00", "Alice")

	g := NewGesture(grid)
	g.Press(store, key("2026-01-25", "09:00"), "Alice")
	g.Enter(key("2026-01-26", "10:00"))
	sel, _ := g.Release()
	m.Commit(sel, "Alice")

	// The anchor decided remove, so cells Alice never had stay empty.
	for _, s := range slots {
		assert.Empty(t, s.Available)
	}
}

func TestCommitSingleCellTogglesLikeClick(t *testing.T) {
	slots, store, grid := newGrid(t, twoDays, 9, 11)
	m := NewMutator(store)

	g := NewGesture(grid)
	g.Press(store, key("2026-01-26", "09:00"), "Alice")
	sel, ok := g.Release()
	require.True(t, ok)
	require.Len(t, sel.Region, 1)

	assert.Equal(t, []entity.SlotKey{key("2026-01-26", "09:00")}, m.Commit(sel, "Alice"))
	assert.Equal(t, []string{"Alice"}, slots[2].Available)

	// Even with a stale mode the single-cell path flips membership.
	assert.Len(t, m.Commit(Selection{Region: sel.Region, Mode: ModeAdd}, "Alice"), 1)
	assert.Empty(t, slots[2].Available)
}

func TestCommitEmptyRegion(t *testing.T) {
	_, store, _ := newGrid(t, twoDays, 9, 11)
	assert.Nil(t, NewMutator(store).Commit(Selection{Mode: ModeAdd}, "Alice"))
}

func TestGestureLeaveCommits(t *testing.T) {
	_, store, grid := newGrid(t, twoDays, 9, 11)

	g := NewGesture(grid)
	g.Press(store, key("2026-01-25", "09:00"), "Alice")
	g.Enter(key("2026-01-25", "10:00"))

	sel, ok := g.Leave()
	require.True(t, ok)
	assert.Len(t, sel.Region, 2)
	assert.Equal(t, GestureIdle, g.State())
}

func TestGestureIdleEvents(t *testing.T) {
	_, _, grid := newGrid(t, twoDays, 9, 11)
	g := NewGesture(grid)

	g.Enter(key("2026-01-25", "10:00"))
	assert.Nil(t, g.Pending())

	_, ok := g.Release()
	assert.False(t, ok)
	_, ok = g.Leave()
	assert.False(t, ok)
}

func TestAvailabilityLevel(t *testing.T) {
	slot := entity.TimeSlot{Available: []string{"Alice", "Bob"}}

	assert.Equal(t, 0.0, AvailabilityLevel(slot, 0))
	assert.Equal(t, 0.5, AvailabilityLevel(slot, 4))
	assert.Equal(t, 1.0, AvailabilityLevel(slot, 2))
	assert.Equal(t, 0.0, AvailabilityLevel(entity.TimeSlot{}, 3))
}

func TestCoverage(t *testing.T) {
	slots, store, _ := newGrid(t, twoDays, 9, 12)
	m := NewMutator(store)
	m.ToggleSingle("2026-01-25", "09:00", "Alice")
	m.ToggleSingle("2026-01-25", "10:00", "Alice")
	m.ToggleSingle("2026-01-25", "09:00", "Bob")

	stats := Coverage([]string{"Alice", "Bob", "Carol"}, slots)
	require.Len(t, stats, 3)
	assert.Equal(t, ParticipantStat{Name: "Alice", Slots: 2, TotalSlots: 6, Percent: 33}, stats[0])
	assert.Equal(t, ParticipantStat{Name: "Bob", Slots: 1, TotalSlots: 6, Percent: 17}, stats[1])
	assert.Equal(t, ParticipantStat{Name: "Carol", Slots: 0, TotalSlots: 6, Percent: 0}, stats[2])

	assert.Equal(t, 0, CoveragePercent(0, 0))
	assert.Equal(t, 50, CoveragePercent(1, 2))
}

func TestBestTimes(t *testing.T) {
	slots, store, _ := newGrid(t, twoDays, 9, 12)
	m := NewMutator(store)
	for _, name := range []string{"Alice", "Bob"} {
		m.ToggleSingle("2026-01-26", "11:00", name)
	}
	m.ToggleSingle("2026-01-25", "10:00", "Alice")
	m.ToggleSingle("2026-01-26", "09:00", "Carol")
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		m.ToggleSingle("2026-01-25", "11:00", name)
	}

	best := BestTimes(slots)
	require.Len(t, best, 4)
	assert.Equal(t, key("2026-01-25", "11:00"), best[0].Key())
	assert.Equal(t, key("2026-01-26", "11:00"), best[1].Key())
	// Ties keep generation order.
	assert.Equal(t, key("2026-01-25", "10:00"), best[2].Key())
	assert.Equal(t, key("2026-01-26", "09:00"), best[3].Key())

	for i := 1; i < len(best); i++ {
		assert.GreaterOrEqual(t, len(best[i-1].Available), len(best[i].Available))
	}
	for _, s := range best {
		assert.NotEmpty(t, s.Available)
	}

	top := TopBestTimes(slots, 3)
	assert.Len(t, top, 3)
	assert.Equal(t, best[:3], top)

	// Results are copies.
	best[0].Available[0] = "Mallory"
	assert.Equal(t, "Alice", store.Lookup("2026-01-25", "11:00").Available[0])
}

func TestBestTimesNoAvailability(t *testing.T) {
	assert.Empty(t, BestTimes(Generate(twoDays, 9, 11)))
}

func TestGridFor(t *testing.T) {
	ev := &entity.Event{Dates: twoDays, StartTime: "09:00", EndTime: "11:00"}
	grid, err := GridFor(ev)
	require.NoError(t, err)
	assert.Equal(t, []int{9, 10}, grid.Hours)
	assert.True(t, grid.Contains(key("2026-01-26", "10:00")))
	assert.False(t, grid.Contains(key("2026-01-26", "11:00")))

	_, err = GridFor(&entity.Event{StartTime: "9am", EndTime: "11:00"})
	assert.Error(t, err)
}
