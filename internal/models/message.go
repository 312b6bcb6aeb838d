package models

import (
	"time"
)

// MessageDirection tells which way an SMS traveled relative to the service.
// Valid values: "in" (user → service) and "out" (service → user).
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "in"
	DirectionOutbound MessageDirection = "out"
)

// MessageStatus is the delivery outcome of an outbound message.
// Inbound messages are always "received".
type MessageStatus string

const (
	MessageStatusReceived MessageStatus = "received"
	MessageStatusSent     MessageStatus = "sent"
	MessageStatusFailed   MessageStatus = "failed"
)

// Message is stored in MongoDB, one document per SMS in either direction.
// The body may be AES-GCM encrypted at rest when an encryption key is
// configured; Encrypted records which form the stored Body is in.
type Message struct {
	ID         string           `bson:"_id" json:"id"`
	Phone      string           `bson:"phone" json:"phone"`
	Direction  MessageDirection `bson:"direction" json:"direction"`
	Body       string           `bson:"body" json:"body"`
	Encrypted  bool             `bson:"encrypted" json:"-"`
	MessageSid string           `bson:"message_sid,omitempty" json:"message_sid,omitempty"`
	Source     string           `bson:"source,omitempty" json:"source,omitempty"` // "sms", "console", "api"
	Status     MessageStatus    `bson:"status" json:"status"`
	Timestamp  time.Time        `bson:"timestamp" json:"timestamp"`
}
