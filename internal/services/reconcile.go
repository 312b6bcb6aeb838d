package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/pkg/utils"
)

// PersistentStore is what JournaledStore wraps; *UserStore satisfies it.
type PersistentStore interface {
	Get(ctx context.Context, phone string) (*models.User, error)
	ListSubscribed(ctx context.Context) ([]models.User, error)
	All(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// JournaledStore wraps a store so a failed save is queued in memory and
// retried in the background instead of silently diverging from the state
// the user was told about. Last write per phone wins.
type JournaledStore struct {
	PersistentStore

	mu      sync.Mutex
	pending map[string]models.User
}

func NewJournaledStore(store PersistentStore) *JournaledStore {
	return &JournaledStore{PersistentStore: store, pending: map[string]models.User{}}
}

func (s *JournaledStore) Save(ctx context.Context, u *models.User) error {
	err := s.PersistentStore.Save(ctx, u)
	if err == nil {
		return nil
	}

	s.mu.Lock()
	s.pending[u.Phone] = *u
	n := len(s.pending)
	s.mu.Unlock()

	log.Printf("⚠️ Store: save for %s failed, journaled for retry (%d pending): %v",
		utils.MaskPhone(u.Phone), n, err)
	return err
}

// Sweep retries every journaled save once and returns how many succeeded.
// Entries that fail again stay queued.
func (s *JournaledStore) Sweep(ctx context.Context) int {
	s.mu.Lock()
	batch := s.pending
	s.pending = map[string]models.User{}
	s.mu.Unlock()

	recovered := 0
	for phone, u := range batch {
		if err := s.PersistentStore.Save(ctx, &u); err != nil {
			s.mu.Lock()
			// Keep the journaled copy unless a newer save replaced it.
			if _, exists := s.pending[phone]; !exists {
				s.pending[phone] = u
			}
			s.mu.Unlock()
			continue
		}
		recovered++
	}
	if recovered > 0 {
		log.Printf("✅ Store: recovered %d journaled save(s)", recovered)
	}
	return recovered
}

// Pending returns the number of journaled saves awaiting retry.
func (s *JournaledStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// StartReconcileSweep retries journaled saves every interval until ctx is
// cancelled. Launched from main.
func (s *JournaledStore) StartReconcileSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.Pending() > 0 {
					s.Sweep(ctx)
				}
			}
		}
	}()
}
