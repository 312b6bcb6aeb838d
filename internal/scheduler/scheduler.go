// Package scheduler drives daily question delivery. A minute ticker walks
// every subscribed user, refreshes their schedule for the local day, and
// dispatches any slots that have come due.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/internal/schedule"
	"github.com/andrew-nagda/texting-project/pkg/utils"
)

// UserStore is the slice of the user store the scheduler needs.
type UserStore interface {
	ListSubscribed(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// QuestionSource produces the next outbound question for a track.
type QuestionSource interface {
	NewQuestion(track string) (body string, open *models.OpenQuestion, err error)
}

// QuestionFunc adapts a plain function to QuestionSource.
type QuestionFunc func(track string) (string, *models.OpenQuestion, error)

func (f QuestionFunc) NewQuestion(track string) (string, *models.OpenQuestion, error) {
	return f(track)
}

// Sender delivers an outbound message.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Config controls tick cadence and the local delivery window.
type Config struct {
	Interval     time.Duration
	FallbackZone string
	StartHour    int
	EndHour      int
}

type Scheduler struct {
	store     UserStore
	questions QuestionSource
	sender    Sender
	cfg       Config
}

func New(store UserStore, questions QuestionSource, sender Sender, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &Scheduler{store: store, questions: questions, sender: sender, cfg: cfg}
}

// Run ticks until ctx is cancelled. Intended to be launched as a goroutine
// from main.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	log.Printf("⏰ Scheduler ticking every %s (window %02d:00-%02d:00)", s.cfg.Interval, s.cfg.StartHour, s.cfg.EndHour)

	for {
		select {
		case <-ctx.Done():
			log.Println("⏰ Scheduler stopped")
			return
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}

// Tick processes one pass over all subscribed users and returns the number
// of messages sent. A failure for one user never blocks the rest.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	users, err := s.store.ListSubscribed(ctx)
	if err != nil {
		log.Printf("⚠️ Scheduler: listing subscribers failed: %v", err)
		return 0
	}

	sent := 0
	for i := range users {
		n, err := s.processUser(ctx, now, &users[i])
		sent += n
		if err != nil {
			log.Printf("⚠️ Scheduler: user %s: %v", utils.MaskPhone(users[i].Phone), err)
		}
	}
	return sent
}

// processUser refreshes one user's schedule, sends any due questions, and
// persists the record once. Due slots are consumed even when the send
// fails, so a delivery is attempted at most once per slot.
func (s *Scheduler) processUser(ctx context.Context, now time.Time, u *models.User) (int, error) {
	loc := u.Location(s.cfg.FallbackZone)

	changed := false
	if schedule.IsStale(now, loc, u.Schedule) {
		u.Schedule = schedule.Generate(now, loc, u.PerDay, s.cfg.StartHour, s.cfg.EndHour)
		changed = true
	}

	due, rest := schedule.PopDue(now, u.Schedule)
	if len(due) > 0 {
		u.Schedule = rest
		changed = true
	}

	sent := 0
	for range due {
		body, open, err := s.questions.NewQuestion(u.Track)
		if err != nil {
			log.Printf("⚠️ Scheduler: no question for track %q: %v", u.Track, err)
			continue
		}
		u.Open = open
		if err := s.sender.Send(ctx, u.Phone, body); err != nil {
			log.Printf("⚠️ Scheduler: send to %s failed: %v", utils.MaskPhone(u.Phone), err)
			continue
		}
		sent++
	}

	if changed {
		if err := s.store.Save(ctx, u); err != nil {
			return sent, fmt.Errorf("saving user: %w", err)
		}
	}
	return sent, nil
}
