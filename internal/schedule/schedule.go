// Package schedule builds and consumes per-user daily delivery schedules.
// Everything here is a pure function of its inputs; the scheduler package
// owns the clock and the store.
package schedule

import (
	"math/rand"
	"sort"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
)

const localDateLayout = "2006-01-02"

// Generate builds a fresh schedule for the local day containing now:
// perDay (clamped 1-3) distinct minutes drawn uniformly from the
// [startHour, endHour) window in loc, stored as UTC instants. A
// non-positive window degrades to a single slot at the window start.
func Generate(now time.Time, loc *time.Location, perDay, startHour, endHour int) models.Schedule {
	local := now.In(loc)
	y, m, d := local.Date()
	windowStart := time.Date(y, m, d, startHour, 0, 0, 0, loc)
	localDate := local.Format(localDateLayout)

	span := (endHour - startHour) * 60
	if span <= 0 {
		return models.Schedule{
			LocalDate:    localDate,
			RemainingUTC: []time.Time{windowStart.UTC()},
		}
	}

	n := models.ClampPerDay(perDay)
	if n > span {
		// A window narrower than n minutes cannot hold n unique slots.
		n = span
	}
	offsets := make(map[int]struct{}, n)
	for len(offsets) < n {
		offsets[rand.Intn(span)] = struct{}{}
	}

	slots := make([]time.Time, 0, n)
	for off := range offsets {
		slots = append(slots, windowStart.Add(time.Duration(off)*time.Minute).UTC())
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })

	return models.Schedule{LocalDate: localDate, RemainingUTC: slots}
}

// IsStale reports whether s was generated for a different local day than
// the one containing now in loc. A never-generated schedule (empty
// LocalDate) is always stale.
func IsStale(now time.Time, loc *time.Location, s models.Schedule) bool {
	return s.LocalDate != now.In(loc).Format(localDateLayout)
}

// PopDue splits the schedule into slots due at now (minute granularity)
// and the remainder. Calling it again on the remainder without advancing
// the clock yields nothing, so a slot is only ever handed out once.
func PopDue(now time.Time, s models.Schedule) ([]time.Time, models.Schedule) {
	cutoff := now.Truncate(time.Minute)
	var due, rest []time.Time
	for _, slot := range s.RemainingUTC {
		if !slot.After(cutoff) {
			due = append(due, slot)
		} else {
			rest = append(rest, slot)
		}
	}
	return due, models.Schedule{LocalDate: s.LocalDate, RemainingUTC: rest}
}
