package middleware

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/andrew-nagda/texting-project/pkg/clientip"
	"github.com/andrew-nagda/texting-project/pkg/utils"
	"golang.org/x/time/rate"
)

// SMS webhook rate limit. Keyed by the sending phone number rather than IP,
// because provider webhooks all arrive from the same egress IPs. Falls back
// to the client IP when no From field is present. 1 msg/s, burst 5; no human
// texts faster than that.

const (
	webhookRateLimitRPS    = 1
	webhookRateLimitBurst  = 5
	webhookCleanupInterval = 5 * time.Minute
	webhookLimiterTTL      = 30 * time.Minute
)

var (
	webhookEntries    = make(map[string]*limiterEntry)
	webhookEntriesMu  sync.Mutex
	webhookCleanupRun bool
)

func getWebhookLimiter(key string) *rate.Limiter {
	webhookEntriesMu.Lock()
	defer webhookEntriesMu.Unlock()
	startWebhookCleanupOnce()
	e, ok := webhookEntries[key]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(webhookRateLimitRPS), webhookRateLimitBurst),
			lastUse: time.Now(),
		}
		webhookEntries[key] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startWebhookCleanupOnce() {
	if webhookCleanupRun {
		return
	}
	webhookCleanupRun = true
	go func() {
		ticker := time.NewTicker(webhookCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			webhookEntriesMu.Lock()
			now := time.Now()
			for k, e := range webhookEntries {
				if now.Sub(e.lastUse) > webhookLimiterTTL {
					delete(webhookEntries, k)
				}
			}
			webhookEntriesMu.Unlock()
		}
	}()
}

// SMSWebhookRateLimit throttles POST /sms per sending phone. Over-limit
// messages are dropped with an empty TwiML response so the provider does not
// retry or surface delivery errors.
func SMSWebhookRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sms" {
			next.ServeHTTP(w, r)
			return
		}

		r.ParseForm()
		key := utils.NormalizePhone(r.FormValue("From"))
		if key == "" {
			key = clientip.ForwardedClientIP(r)
		}

		if !getWebhookLimiter(key).Allow() {
			log.Printf("⚠️ Webhook: rate limited %s", utils.MaskPhone(key))
			w.Header().Set("Content-Type", "application/xml; charset=utf-8")
			w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Response/>`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
