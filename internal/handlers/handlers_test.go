package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/andrew-nagda/texting-project/internal/config"
	"github.com/andrew-nagda/texting-project/internal/conversation"
	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/internal/quiz"
)

type fakeStore struct {
	mu      sync.Mutex
	users   map[string]models.User
	saves   int
	getErr  error
	saveErr error
}

func newFakeStore(users ...models.User) *fakeStore {
	s := &fakeStore{users: map[string]models.User{}}
	for _, u := range users {
		s.users[u.Phone] = u
	}
	return s
}

func (s *fakeStore) Get(ctx context.Context, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	u, ok := s.users[phone]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (s *fakeStore) ListSubscribed(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if u.Subscribed {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStore) All(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	var out []models.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeStore) Save(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.users[u.Phone] = *u
	s.saves++
	return nil
}

func (s *fakeStore) user(t *testing.T, phone string) models.User {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[phone]
	if !ok {
		t.Fatalf("user %s not in store", phone)
	}
	return u
}

type sentMessage struct {
	To   string
	Body string
}

// recordSender pushes sends onto a channel so tests can wait for the
// background onboarding goroutine.
type recordSender struct {
	ch  chan sentMessage
	err error
}

func newRecordSender() *recordSender {
	return &recordSender{ch: make(chan sentMessage, 16)}
}

func (s *recordSender) Send(ctx context.Context, to, body string) error {
	s.ch <- sentMessage{To: to, Body: body}
	return s.err
}

func (s *recordSender) waitSend(t *testing.T) sentMessage {
	t.Helper()
	select {
	case m := <-s.ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a send")
		return sentMessage{}
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:     "test",
		DefaultTrack:    "Consulting",
		DefaultTimezone: "UTC",
		WindowStartHour: 9,
		WindowEndHour:   22,
		AdminToken:      "sekrit",
	}
}

// initTest wires the package globals to fakes. Question bodies come from the
// real provider unless questions is non-nil.
func initTest(t *testing.T, store *fakeStore, questions conversation.QuestionSource) (*config.Config, *recordSender) {
	t.Helper()
	c := testConfig()
	send := newRecordSender()
	if questions == nil {
		questions = conversation.QuestionFunc(quiz.NewQuestion)
	}
	conv := conversation.New(store, questions, conversation.Config{
		DefaultTrack:    c.DefaultTrack,
		DefaultPerDay:   1,
		DefaultTimezone: c.DefaultTimezone,
		StartHour:       c.WindowStartHour,
		EndHour:         c.WindowEndHour,
	})
	Init(c, store, conv, send)
	return c, send
}

func subscriber(phone string) models.User {
	return models.User{
		Phone:      phone,
		Name:       "Jordan",
		Track:      "Consulting",
		PerDay:     1,
		Timezone:   "UTC",
		Subscribed: true,
		Consent:    true,
		Stats:      models.Stats{Asked: 4, Correct: 2, Streak: 1},
	}
}
