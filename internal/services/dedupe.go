package services

import (
	"context"
	"log"
	"time"

	"github.com/andrew-nagda/texting-project/internal/database"
)

const (
	sidKeyPrefix = "sms_sid:"
	sidTTL       = 24 * time.Hour
)

// SeenMessageSid reports whether a webhook MessageSid was already
// processed, and marks it as processed if not. Carriers retry webhooks on
// slow responses; this keeps a retried delivery from grading the same
// reply twice. Fail-open: if Redis is unavailable the message is treated
// as new, since a duplicate reply beats a dropped one.
func SeenMessageSid(ctx context.Context, sid string) bool {
	if sid == "" || database.RedisClient == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	fresh, err := database.RedisClient.SetNX(ctx, sidKeyPrefix+sid, 1, sidTTL).Result()
	if err != nil {
		log.Printf("⚠️ Dedupe: redis unavailable, processing anyway: %v", err)
		return false
	}
	return !fresh
}
