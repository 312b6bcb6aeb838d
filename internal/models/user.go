package models

import (
	"time"
)

// Question kinds stored in the open-question payload.
const (
	QuestionKindSample = "sample"
	QuestionKindMath   = "math"
)

// OpenQuestion is the single pending question a user is expected to answer.
// Kind is either "sample" (bank question) or "math" (generated, the ID encodes
// everything needed to re-derive the expected answer).
type OpenQuestion struct {
	Kind       string `json:"kind"`
	Track      string `json:"track"`
	QuestionID string `json:"question_id"`
}

// Stats are cumulative per-user counters. Streak resets to 0 on any
// incorrect answer and increments by 1 on any correct one.
type Stats struct {
	Asked   int `json:"asked"`
	Correct int `json:"correct"`
	Streak  int `json:"streak"`
}

// Schedule holds the remaining delivery instants for one local calendar day.
// LocalDate is YYYY-MM-DD in the user's timezone; a mismatch against "today"
// means the schedule is stale and must be regenerated.
type Schedule struct {
	LocalDate    string      `json:"local_date"`
	RemainingUTC []time.Time `json:"remaining_utc"`
}

type User struct {
	Phone      string        `json:"phone"`
	Name       string        `json:"name"`
	Track      string        `json:"track"`
	PerDay     int           `json:"per_day"`
	Timezone   string        `json:"timezone"`
	Subscribed bool          `json:"subscribed"`
	Consent    bool          `json:"consent"`
	Open       *OpenQuestion `json:"open,omitempty"`
	Stats      Stats         `json:"stats"`
	Schedule   Schedule      `json:"schedule"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// RedactedUser is the admin view that hides direct identifiers: the phone is
// masked to its last four digits and the name is dropped.
type RedactedUser struct {
	Phone      string `json:"phone"`
	Track      string `json:"track"`
	PerDay     int    `json:"per_day"`
	Timezone   string `json:"timezone"`
	Subscribed bool   `json:"subscribed"`
	Stats      Stats  `json:"stats"`
}

// Location resolves the user's timezone, falling back to fallbackZone and
// finally UTC when neither parses.
func (u *User) Location(fallbackZone string) *time.Location {
	if loc, err := time.LoadLocation(u.Timezone); err == nil && u.Timezone != "" {
		return loc
	}
	if loc, err := time.LoadLocation(fallbackZone); err == nil && fallbackZone != "" {
		return loc
	}
	return time.UTC
}

// ClampPerDay bounds a requested questions-per-day value to the supported range.
func ClampPerDay(n int) int {
	if n < 1 {
		return 1
	}
	if n > 3 {
		return 3
	}
	return n
}
