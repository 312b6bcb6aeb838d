package handlers

import (
	"github.com/andrew-nagda/texting-project/internal/config"
	"github.com/andrew-nagda/texting-project/internal/conversation"
	"github.com/andrew-nagda/texting-project/internal/services"
	"github.com/andrew-nagda/texting-project/internal/transport"
)

var (
	cfg       *config.Config
	userStore services.PersistentStore
	convo     *conversation.Handler
	sender    transport.Sender
)

// Init wires the handler package to its dependencies. Call once from main
// before mounting routes.
func Init(c *config.Config, store services.PersistentStore, conv *conversation.Handler, send transport.Sender) {
	cfg = c
	userStore = store
	convo = conv
	sender = send
}

// ErrorResponse is the JSON error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OKResponse acknowledges a successful mutation.
type OKResponse struct {
	OK bool `json:"ok"`
}

// MessageResponse carries an informational message with a 200 status.
type MessageResponse struct {
	Message string `json:"message"`
}
