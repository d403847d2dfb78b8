package availability

import (
	"math"
	"sort"

	"meetgrid/modules/event/entity"
)

// AvailabilityLevel is the share of participants available at slot, in [0, 1].
// It is 0 when there are no participants.
func AvailabilityLevel(slot entity.TimeSlot, totalParticipants int) float64 {
	if totalParticipants <= 0 {
		return 0
	}
	return float64(len(slot.Available)) / float64(totalParticipants)
}

// ParticipantCoverage counts the slots participant is available in.
func ParticipantCoverage(participant string, slots []entity.TimeSlot) int {
	n := 0
	for _, s := range slots {
		if s.Has(participant) {
			n++
		}
	}
	return n
}

// CoveragePercent rounds covered/totalSlots to a whole percentage.
func CoveragePercent(covered, totalSlots int) int {
	if totalSlots <= 0 {
		return 0
	}
	return int(math.Round(float64(covered) / float64(totalSlots) * 100))
}

// BestTimes returns the slots with at least one available participant, most
// available first. Ties keep generation order. The input is not modified.
func BestTimes(slots []entity.TimeSlot) []entity.TimeSlot {
	best := make([]entity.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if len(s.Available) > 0 {
			best = append(best, s.Clone())
		}
	}
	sort.SliceStable(best, func(i, j int) bool {
		return len(best[i].Available) > len(best[j].Available)
	})
	return best
}

// TopBestTimes is BestTimes truncated to n entries.
func TopBestTimes(slots []entity.TimeSlot, n int) []entity.TimeSlot {
	best := BestTimes(slots)
	if n >= 0 && len(best) > n {
		return best[:n]
	}
	return best
}

// ParticipantStat is one row of the participants panel.
type ParticipantStat struct {
	Name       string
	Slots      int
	TotalSlots int
	Percent    int
}

// Coverage computes a ParticipantStat for every participant, in join order.
func Coverage(participants []string, slots []entity.TimeSlot) []ParticipantStat {
	stats := make([]ParticipantStat, 0, len(participants))
	for _, name := range participants {
		covered := ParticipantCoverage(name, slots)
		stats = append(stats, ParticipantStat{
			Name:       name,
			Slots:      covered,
			TotalSlots: len(slots),
			Percent:    CoveragePercent(covered, len(slots)),
		})
	}
	return stats
}
