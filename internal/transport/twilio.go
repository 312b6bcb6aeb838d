// Package transport delivers outbound SMS. The rest of the system only
// sees the Sender interface, so delivery can be swapped for a dry-run
// logger when no carrier credentials are configured.
package transport

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/andrew-nagda/texting-project/pkg/utils"
)

// Sender delivers one outbound message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender sends through the Twilio Programmable Messaging API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", utils.MaskPhone(to), err)
	}
	if resp.ErrorCode != nil {
		return fmt.Errorf("twilio send to %s: carrier error %d", utils.MaskPhone(to), *resp.ErrorCode)
	}
	return nil
}

// NoopSender logs outbound messages instead of delivering them, so the
// whole system can run without Twilio credentials.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, to, body string) error {
	log.Printf("📤 [dry-run] to %s: %s", utils.MaskPhone(to), firstLine(body))
	return nil
}

func firstLine(body string) string {
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		return body[:i] + " …"
	}
	return body
}
