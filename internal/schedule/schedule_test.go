package schedule

import (
	"testing"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
)

func TestGenerateCardinalityAndWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	for perDay := 1; perDay <= 3; perDay++ {
		for i := 0; i < 25; i++ {
			s := Generate(now, loc, perDay, 9, 22)
			if len(s.RemainingUTC) != perDay {
				t.Fatalf("per_day=%d got %d slots", perDay, len(s.RemainingUTC))
			}
			seen := map[time.Time]bool{}
			for _, slot := range s.RemainingUTC {
				if seen[slot] {
					t.Fatalf("duplicate slot %v", slot)
				}
				seen[slot] = true

				local := slot.In(loc)
				if local.Format("2006-01-02") != s.LocalDate {
					t.Errorf("slot %v lands on %s, schedule date %s", slot, local.Format("2006-01-02"), s.LocalDate)
				}
				minuteOfDay := local.Hour()*60 + local.Minute()
				if minuteOfDay < 9*60 || minuteOfDay >= 22*60 {
					t.Errorf("slot %v is %02d:%02d local, outside 09:00-22:00", slot, local.Hour(), local.Minute())
				}
				if local.Second() != 0 {
					t.Errorf("slot %v not minute aligned", slot)
				}
			}
		}
	}
}

func TestGenerateSorted(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		s := Generate(now, time.UTC, 3, 9, 22)
		for j := 1; j < len(s.RemainingUTC); j++ {
			if s.RemainingUTC[j-1].After(s.RemainingUTC[j]) {
				t.Fatalf("slots out of order: %v", s.RemainingUTC)
			}
		}
	}
}

func TestGenerateClampsPerDay(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	if s := Generate(now, time.UTC, 0, 9, 22); len(s.RemainingUTC) != 1 {
		t.Errorf("per_day=0 got %d slots, want 1", len(s.RemainingUTC))
	}
	if s := Generate(now, time.UTC, 9, 9, 22); len(s.RemainingUTC) != 3 {
		t.Errorf("per_day=9 got %d slots, want 3", len(s.RemainingUTC))
	}
}

func TestGenerateDegenerateWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	for _, hours := range [][2]int{{22, 9}, {12, 12}} {
		s := Generate(now, time.UTC, 3, hours[0], hours[1])
		if len(s.RemainingUTC) != 1 {
			t.Fatalf("window %d-%d got %d slots, want 1", hours[0], hours[1], len(s.RemainingUTC))
		}
		want := time.Date(2026, 6, 15, hours[0], 0, 0, 0, time.UTC)
		if !s.RemainingUTC[0].Equal(want) {
			t.Errorf("window %d-%d slot = %v, want window start %v", hours[0], hours[1], s.RemainingUTC[0], want)
		}
	}
}

func TestIsStale(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatal(err)
	}

	// 2026-03-02 01:00 UTC is the evening of 03-01 in New York but the
	// morning of 03-02 in Tokyo.
	now := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	s := Generate(now, ny, 1, 9, 22)
	if s.LocalDate != "2026-03-01" {
		t.Fatalf("schedule date = %s", s.LocalDate)
	}

	if IsStale(now, ny, s) {
		t.Error("same local day should not be stale")
	}
	if !IsStale(now.Add(24*time.Hour), ny, s) {
		t.Error("next local day should be stale")
	}
	if !IsStale(now, tokyo, s) {
		t.Error("zone change across midnight should make the schedule stale")
	}
	if !IsStale(now, ny, models.Schedule{}) {
		t.Error("zero schedule should be stale")
	}
}

func TestPopDue(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 30, 0, time.UTC)
	past1 := now.Add(-10 * time.Minute).Truncate(time.Minute)
	past2 := now.Add(-1 * time.Minute).Truncate(time.Minute)
	exact := now.Truncate(time.Minute)
	future := now.Add(30 * time.Minute).Truncate(time.Minute)

	s := models.Schedule{
		LocalDate:    "2026-06-15",
		RemainingUTC: []time.Time{past1, past2, exact, future},
	}

	due, rest := PopDue(now, s)
	if len(due) != 3 {
		t.Fatalf("got %d due slots, want 3: %v", len(due), due)
	}
	if !due[0].Equal(past1) || !due[1].Equal(past2) || !due[2].Equal(exact) {
		t.Errorf("due slots = %v", due)
	}
	if len(rest.RemainingUTC) != 1 || !rest.RemainingUTC[0].Equal(future) {
		t.Errorf("remaining = %v", rest.RemainingUTC)
	}
	if rest.LocalDate != s.LocalDate {
		t.Errorf("LocalDate changed: %s", rest.LocalDate)
	}

	// Popping again without advancing the clock yields nothing.
	due2, rest2 := PopDue(now, rest)
	if len(due2) != 0 {
		t.Errorf("second pop returned %v", due2)
	}
	if len(rest2.RemainingUTC) != 1 {
		t.Errorf("second pop changed remaining: %v", rest2.RemainingUTC)
	}
}

func TestPopDueEmpty(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	due, rest := PopDue(now, models.Schedule{LocalDate: "2026-06-15"})
	if len(due) != 0 || len(rest.RemainingUTC) != 0 {
		t.Errorf("pop of empty schedule = %v, %v", due, rest.RemainingUTC)
	}
}
