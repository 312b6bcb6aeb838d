package handlers

import (
	"encoding/xml"
	"log"
	"net/http"
	"strings"

	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/internal/services"
	"github.com/andrew-nagda/texting-project/pkg/utils"
)

const twimlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

// renderTwiML wraps each reply in its own Message element. No replies yields
// an empty Response, which tells the provider to send nothing back.
func renderTwiML(replies []string) string {
	if len(replies) == 0 {
		return twimlHeader + "<Response/>"
	}
	var b strings.Builder
	b.WriteString(twimlHeader)
	b.WriteString("<Response>")
	for _, reply := range replies {
		b.WriteString("<Message>")
		xml.EscapeText(&b, []byte(reply))
		b.WriteString("</Message>")
	}
	b.WriteString("</Response>")
	return b.String()
}

// SMSWebhook handles POST /sms from the SMS provider. The form carries From,
// Body and MessageSid. Replies are rendered as TwiML; a replayed MessageSid
// (provider retry) gets an empty response so nobody is double-texted.
func SMSWebhook(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	from := r.FormValue("From")
	body := r.FormValue("Body")
	sid := r.FormValue("MessageSid")

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")

	phone := utils.NormalizePhone(from)
	if phone == "" {
		w.Write([]byte(twimlHeader + "<Response/>"))
		return
	}

	if services.SeenMessageSid(r.Context(), sid) {
		log.Printf("⚠️ SMS: replayed MessageSid %s from %s", sid, utils.MaskPhone(phone))
		w.Write([]byte(twimlHeader + "<Response/>"))
		return
	}

	services.LogMessageAsync(models.Message{
		Phone:      phone,
		Direction:  models.DirectionInbound,
		Body:       body,
		MessageSid: sid,
		Source:     "sms",
		Status:     models.MessageStatusReceived,
	})

	replies := convo.Handle(r.Context(), from, body)
	for _, reply := range replies {
		services.LogMessageAsync(models.Message{
			Phone:     phone,
			Direction: models.DirectionOutbound,
			Body:      reply,
			Source:    "sms",
			Status:    models.MessageStatusSent,
		})
	}

	w.Write([]byte(renderTwiML(replies)))
}

// SMSHealth answers GET /sms so the provider console's URL check passes.
func SMSHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
