package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/internal/services"
	"github.com/andrew-nagda/texting-project/pkg/utils"
	"github.com/gorilla/websocket"
)

var consoleUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dev-only endpoint; production requests never reach the upgrade.
		return true
	},
}

// ConsoleMessage is one frame from the console page: a simulated inbound text.
type ConsoleMessage struct {
	Phone string `json:"phone"`
	Body  string `json:"body"`
}

// ConsoleReply is one reply frame written back to the page.
type ConsoleReply struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// ConsoleWS handles GET /console/ws: a virtual phone for local development.
// Each inbound frame runs through the conversation handler exactly like a
// provider webhook; traffic is logged with the "console" source marker.
func ConsoleWS(w http.ResponseWriter, r *http.Request) {
	if cfg.IsProduction() {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	conn, err := consoleUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(4 * 1024)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))

		var msg ConsoleMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		phone := utils.NormalizePhone(msg.Phone)
		if !utils.ValidE164(phone) {
			if err := conn.WriteJSON(ConsoleReply{To: msg.Phone, Body: "Phone must be E.164 or 10-digit US."}); err != nil {
				return
			}
			continue
		}

		services.LogMessageAsync(models.Message{
			Phone:     phone,
			Direction: models.DirectionInbound,
			Body:      msg.Body,
			Source:    "console",
			Status:    models.MessageStatusReceived,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		replies := convo.Handle(ctx, phone, msg.Body)
		cancel()

		for _, reply := range replies {
			services.LogMessageAsync(models.Message{
				Phone:     phone,
				Direction: models.DirectionOutbound,
				Body:      reply,
				Source:    "console",
				Status:    models.MessageStatusSent,
			})
			if err := conn.WriteJSON(ConsoleReply{To: phone, Body: reply}); err != nil {
				return
			}
		}
	}
}

// ConsolePage handles GET /console: a single-file page that talks to the WS.
func ConsolePage(w http.ResponseWriter, r *http.Request) {
	if cfg.IsProduction() {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(consoleHTML))
}

const consoleHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>texting-project console</title>
<style>
body { font-family: monospace; max-width: 480px; margin: 2rem auto; }
#log { border: 1px solid #ccc; height: 360px; overflow-y: auto; padding: 8px; white-space: pre-wrap; }
.in { color: #06c; }
.out { color: #222; }
input, button { font-family: inherit; }
#phone { width: 10rem; }
#body { width: 18rem; }
</style>
</head>
<body>
<h3>virtual phone</h3>
<div id="log"></div>
<p>
<input id="phone" placeholder="+15551234567">
<input id="body" placeholder="NEXT" autofocus>
<button onclick="send()">send</button>
</p>
<script>
const log = document.getElementById("log");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/console/ws");
ws.onmessage = (ev) => {
  const m = JSON.parse(ev.data);
  append("out", "< " + m.body);
};
ws.onclose = () => append("out", "[disconnected]");
function append(cls, text) {
  const div = document.createElement("div");
  div.className = cls;
  div.textContent = text;
  log.appendChild(div);
  log.scrollTop = log.scrollHeight;
}
function send() {
  const phone = document.getElementById("phone").value;
  const body = document.getElementById("body").value;
  ws.send(JSON.stringify({phone: phone, body: body}));
  append("in", "> " + body);
  document.getElementById("body").value = "";
}
document.getElementById("body").addEventListener("keydown", (ev) => {
  if (ev.key === "Enter") send();
});
</script>
</body>
</html>
`
