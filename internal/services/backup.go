package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
)

// RestoreUsersFromBackup fetches a JSON array of user records from rawURL
// and upserts them into the store. Used to reseed a fresh database from an
// exported dump. Any failure is logged and swallowed; a bad backup must
// never stop the server from booting.
func RestoreUsersFromBackup(ctx context.Context, store PersistentStore, rawURL, token string) {
	if rawURL == "" {
		log.Println("[startup] No BACKUP_RAW_URL set; skipping restore.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	users, err := fetchBackup(ctx, rawURL, token)
	if err != nil {
		log.Printf("[startup] Could not restore users: %v", err)
		return
	}

	restored := 0
	for i := range users {
		if users[i].Phone == "" {
			continue
		}
		if err := store.Save(ctx, &users[i]); err != nil {
			log.Printf("[startup] Could not restore users: %v", err)
			return
		}
		restored++
	}
	log.Printf("[startup] Restored %d users from backup.", restored)
}

func fetchBackup(ctx context.Context, rawURL, token string) ([]models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backup fetch returned %s", resp.Status)
	}

	var users []models.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("backup is not a user list: %w", err)
	}
	return users, nil
}
