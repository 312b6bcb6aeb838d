package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/andrew-nagda/texting-project/internal/database"
	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/internal/transport"
	"github.com/andrew-nagda/texting-project/pkg/utils"
)

const messagesCollection = "messages"

// encryptionKey, when set, encrypts message bodies at rest. Configured once
// from main via InitMessageLog.
var encryptionKey []byte

// InitMessageLog hands the message log its body-encryption key. A nil key
// stores bodies in plaintext.
func InitMessageLog(key []byte) {
	encryptionKey = key
}

// EnsureMessageIndexes configures indexes for the messages collection.
// Called on startup from main after Mongo has connected.
func EnsureMessageIndexes(ctx context.Context) error {
	if !database.MongoEnabled() {
		return nil
	}
	col := database.MongoDB.Collection(messagesCollection)

	// Compound index on (phone, timestamp) to support per-user history
	// pagination.
	idx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "phone", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("idx_phone_timestamp"),
	}
	_, err := col.Indexes().CreateOne(ctx, idx)
	return err
}

// LogMessageAsync persists a message to MongoDB asynchronously. The caller
// should NOT block on this; fire-and-forget is acceptable. A no-op when
// Mongo is not configured.
func LogMessageAsync(msg models.Message) {
	if !database.MongoEnabled() {
		return
	}
	go func(m models.Message) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = time.Now().UTC()
		}
		if len(encryptionKey) > 0 {
			enc, err := utils.EncryptBody(encryptionKey, m.Body)
			if err != nil {
				log.Printf("⚠️ Message log: encrypting body: %v", err)
				return
			}
			m.Body = enc
			m.Encrypted = true
		}

		col := database.MongoDB.Collection(messagesCollection)
		if _, err := col.InsertOne(ctx, m); err != nil {
			log.Printf("⚠️ Message log: insert failed: %v", err)
		}
	}(msg)
}

// LoadMessages returns the newest messages, optionally filtered to one
// phone, decrypted for display. limit defaults to 50 and caps at 500.
func LoadMessages(ctx context.Context, phone string, limit int64) ([]models.Message, error) {
	if !database.MongoEnabled() {
		return []models.Message{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	filter := bson.M{}
	if phone != "" {
		filter["phone"] = phone
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	col := database.MongoDB.Collection(messagesCollection)
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var messages []models.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}

	for i := range messages {
		if !messages[i].Encrypted {
			continue
		}
		plain, err := utils.DecryptBody(encryptionKey, messages[i].Body)
		if err != nil {
			messages[i].Body = "[undecryptable]"
			continue
		}
		messages[i].Body = plain
		messages[i].Encrypted = false
	}
	return messages, nil
}

// LoggingSender records every outbound message after handing it to the
// underlying sender. Failed sends still get a history entry, marked
// "failed", and the send error is returned unchanged.
type LoggingSender struct {
	Next transport.Sender
}

func (s *LoggingSender) Send(ctx context.Context, to, body string) error {
	err := s.Next.Send(ctx, to, body)
	status := models.MessageStatusSent
	if err != nil {
		status = models.MessageStatusFailed
	}
	LogMessageAsync(models.Message{
		Phone:     to,
		Direction: models.DirectionOutbound,
		Body:      body,
		Source:    "sms",
		Status:    status,
	})
	return err
}
