package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
)

// UserStore reads and writes quiz_users rows. The open, stats and schedule
// columns are JSONB documents; everything else is a plain column.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `phone, name, track, per_day, timezone, subscribed, consent, open, stats, schedule, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var open, stats, sched []byte

	err := row.Scan(&u.Phone, &u.Name, &u.Track, &u.PerDay, &u.Timezone,
		&u.Subscribed, &u.Consent, &open, &stats, &sched, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(open) > 0 && string(open) != "null" {
		var oq models.OpenQuestion
		if err := json.Unmarshal(open, &oq); err != nil {
			return nil, fmt.Errorf("decoding open question for %s: %w", u.Phone, err)
		}
		u.Open = &oq
	}
	if len(stats) > 0 {
		if err := json.Unmarshal(stats, &u.Stats); err != nil {
			return nil, fmt.Errorf("decoding stats for %s: %w", u.Phone, err)
		}
	}
	if len(sched) > 0 {
		if err := json.Unmarshal(sched, &u.Schedule); err != nil {
			return nil, fmt.Errorf("decoding schedule for %s: %w", u.Phone, err)
		}
	}
	return &u, nil
}

// Get returns the user for a phone, or (nil, nil) when none exists.
func (s *UserStore) Get(ctx context.Context, phone string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM quiz_users WHERE phone = $1`, phone)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return u, nil
}

// ListSubscribed returns every user the scheduler should visit.
func (s *UserStore) ListSubscribed(ctx context.Context) ([]models.User, error) {
	return s.list(ctx, `SELECT `+userColumns+` FROM quiz_users WHERE subscribed = TRUE ORDER BY phone`)
}

// All returns every user regardless of subscription state.
func (s *UserStore) All(ctx context.Context) ([]models.User, error) {
	return s.list(ctx, `SELECT `+userColumns+` FROM quiz_users ORDER BY created_at`)
}

func (s *UserStore) list(ctx context.Context, query string) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Save upserts the user keyed by phone and refreshes updated_at.
func (s *UserStore) Save(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	var open any
	if u.Open != nil {
		b, err := json.Marshal(u.Open)
		if err != nil {
			return fmt.Errorf("encoding open question: %w", err)
		}
		open = b
	}
	stats, err := json.Marshal(u.Stats)
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	sched, err := json.Marshal(u.Schedule)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_users (phone, name, track, per_day, timezone, subscribed, consent, open, stats, schedule, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			track = EXCLUDED.track,
			per_day = EXCLUDED.per_day,
			timezone = EXCLUDED.timezone,
			subscribed = EXCLUDED.subscribed,
			consent = EXCLUDED.consent,
			open = EXCLUDED.open,
			stats = EXCLUDED.stats,
			schedule = EXCLUDED.schedule,
			updated_at = EXCLUDED.updated_at
	`, u.Phone, u.Name, u.Track, u.PerDay, u.Timezone, u.Subscribed, u.Consent,
		open, stats, sched, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}
